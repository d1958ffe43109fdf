package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/econlink/internal/pums"
)

const censusBaseURL = "https://api.census.gov/data"

// CensusClient fetches ACS PUMS microdata from the Census API.
type CensusClient struct {
	client  *Client
	baseURL string
	apiKey  string
}

// NewCensusClient creates a Census client. An empty baseURL uses the public
// API. The API key is optional; the API serves modest request volumes
// without one.
func NewCensusClient(client *Client, baseURL, apiKey string) *CensusClient {
	if baseURL == "" {
		baseURL = censusBaseURL
	}
	return &CensusClient{client: client, baseURL: baseURL, apiKey: apiKey}
}

// PUMSURL builds the 1-year ACS PUMS query for the given year: industry code,
// citizenship status, and person weight for every person record.
func (c *CensusClient) PUMSURL(year int) string {
	q := url.Values{}
	q.Set("get", "NAICSP,CIT,PWGTP")
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	return fmt.Sprintf("%s/%d/acs/acs1/pums?%s", c.baseURL, year, q.Encode())
}

// FetchPUMS downloads and parses the person records for the given year. Rows
// with non-numeric citizenship or weight fields are an error; the API emits
// clean integers for both.
func (c *CensusClient) FetchPUMS(ctx context.Context, year int) ([]pums.PersonRecord, error) {
	u := c.PUMSURL(year)
	table, err := c.client.FetchJSONTable(ctx, u)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch PUMS %d", year)
	}

	naicsCol, err := table.Column("NAICSP")
	if err != nil {
		return nil, eris.Wrap(err, "PUMS header")
	}
	citCol, err := table.Column("CIT")
	if err != nil {
		return nil, eris.Wrap(err, "PUMS header")
	}
	weightCol, err := table.Column("PWGTP")
	if err != nil {
		return nil, eris.Wrap(err, "PUMS header")
	}

	maxCol := max(naicsCol, citCol, weightCol)

	records := make([]pums.PersonRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		if len(row) <= maxCol {
			return nil, eris.Errorf("PUMS row %d: %d fields, want at least %d", i, len(row), maxCol+1)
		}
		cit, err := strconv.Atoi(row[citCol])
		if err != nil {
			return nil, eris.Wrapf(err, "PUMS row %d: citizenship %q", i, row[citCol])
		}
		weight, err := strconv.Atoi(row[weightCol])
		if err != nil {
			return nil, eris.Wrapf(err, "PUMS row %d: weight %q", i, row[weightCol])
		}
		records = append(records, pums.PersonRecord{
			Industry:    row[naicsCol],
			Citizenship: cit,
			Weight:      weight,
		})
	}

	zap.L().Info("fetched PUMS person records",
		zap.Int("year", year),
		zap.Int("records", len(records)),
	)
	return records, nil
}
