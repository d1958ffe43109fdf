package fetch

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/econlink/internal/industry"
	"github.com/sells-group/econlink/internal/series"
)

// CE flat files: tab-separated with a header row, whitespace-padded fields.
const (
	blsBaseURL      = "https://download.bls.gov/pub/time.series/ce/"
	blsIndustryFile = "ce.industry"
	blsSeriesFile   = "ce.series"
	blsDataFile     = "ce.data.0.AllCESSeries"
)

// BLSClient fetches the CE (Current Employment Statistics) flat files.
type BLSClient struct {
	client  *Client
	baseURL string
}

// NewBLSClient creates a BLS CE client. An empty baseURL uses the public
// download server.
func NewBLSClient(client *Client, baseURL string) *BLSClient {
	if baseURL == "" {
		baseURL = blsBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &BLSClient{client: client, baseURL: baseURL}
}

// Industries downloads the industry code mapping.
func (b *BLSClient) Industries(ctx context.Context) ([]industry.BLSIndustry, error) {
	rows, err := b.fetchTSV(ctx, blsIndustryFile, 5)
	if err != nil {
		return nil, err
	}

	out := make([]industry.BLSIndustry, 0, len(rows))
	for _, f := range rows {
		out = append(out, industry.BLSIndustry{
			IndustryCode:     f[0],
			NaicsCode:        f[1],
			PublishingStatus: f[2],
			IndustryName:     f[3],
			DisplayLevel:     f[4],
		})
	}
	zap.L().Info("fetched BLS industries", zap.Int("rows", len(out)))
	return out, nil
}

// Series downloads the series catalogue.
func (b *BLSClient) Series(ctx context.Context) ([]series.CatalogEntry, error) {
	rows, err := b.fetchTSV(ctx, blsSeriesFile, 6)
	if err != nil {
		return nil, err
	}

	out := make([]series.CatalogEntry, 0, len(rows))
	for _, f := range rows {
		out = append(out, series.CatalogEntry{
			SeriesID:        f[0],
			SupersectorCode: f[1],
			IndustryCode:    f[2],
			DataTypeCode:    f[3],
			SeasonalCode:    f[4],
			SeriesTitle:     f[5],
		})
	}
	zap.L().Info("fetched BLS series catalogue", zap.Int("rows", len(out)))
	return out, nil
}

// Observations downloads the full monthly data file. Rows with non-monthly
// periods (annual averages) or non-numeric values are skipped.
func (b *BLSClient) Observations(ctx context.Context) ([]series.Observation, error) {
	rows, err := b.fetchTSV(ctx, blsDataFile, 4)
	if err != nil {
		return nil, err
	}

	out := make([]series.Observation, 0, len(rows))
	skipped := 0
	for _, f := range rows {
		year, err := strconv.Atoi(f[1])
		if err != nil {
			skipped++
			continue
		}
		value, err := strconv.ParseFloat(f[3], 64)
		if err != nil {
			skipped++
			continue
		}
		o := series.Observation{SeriesID: f[0], Year: year, Period: f[2], Value: value}
		if o.YearMonth() == "" {
			skipped++
			continue
		}
		out = append(out, o)
	}
	zap.L().Info("fetched BLS observations",
		zap.Int("rows", len(out)),
		zap.Int("skipped", skipped),
	)
	return out, nil
}

// fetchTSV downloads a CE flat file and returns its trimmed data rows. Rows
// with fewer than minFields fields are rejected.
func (b *BLSClient) fetchTSV(ctx context.Context, name string, minFields int) ([][]string, error) {
	data, err := b.client.FetchBytes(ctx, b.baseURL+name)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch %s", name)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var rows [][]string
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < minFields {
			return nil, eris.Errorf("%s: row has %d fields, want %d: %q", name, len(fields), minFields, line)
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "scan %s", name)
	}
	return rows, nil
}
