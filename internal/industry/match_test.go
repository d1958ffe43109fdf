package industry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	shares := []Share{
		{IndustryCode: "2361", TotalWorkers: 1000, NoncitizenWorkers: 300, NoncitizenPercentage: 30},
		{IndustryCode: "21223", TotalWorkers: 500, NoncitizenWorkers: 50, NoncitizenPercentage: 10},
		{IndustryCode: "9999", TotalWorkers: 200, NoncitizenWorkers: 20, NoncitizenPercentage: 10},
	}
	bls := []BLSIndustry{
		{IndustryCode: "20236100", NaicsCode: "2361", IndustryName: "Residential building"},
		{IndustryCode: "10212200", NaicsCode: "21223", IndustryName: "Metal ore mining"},
	}

	out, stats := Match(shares, bls)
	require.Len(t, out, 3)

	assert.True(t, out[0].Matched)
	assert.Equal(t, "20236100", out[0].BLSIndustryCode)
	assert.Equal(t, "Residential building", out[0].BLSIndustryName)
	assert.True(t, out[1].Matched)
	assert.False(t, out[2].Matched)
	assert.Empty(t, out[2].BLSIndustryCode)

	assert.Equal(t, MatchStats{Total: 3, Matched: 2, Unmatched: 1}, stats)
	assert.Equal(t, stats.Total, stats.Matched+stats.Unmatched)
	assert.InDelta(t, 66.67, stats.MatchedPct(), 0.01)
}

func TestMatch_DuplicateCodeFirstWins(t *testing.T) {
	shares := []Share{{IndustryCode: "2361", TotalWorkers: 10}}
	bls := []BLSIndustry{
		{IndustryCode: "first", NaicsCode: "2361"},
		{IndustryCode: "second", NaicsCode: "2361"},
	}

	out, stats := Match(shares, bls)
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].BLSIndustryCode)
	assert.Equal(t, 1, stats.Conflicts)
}

func TestMatch_Empty(t *testing.T) {
	out, stats := Match(nil, nil)
	assert.Empty(t, out)
	assert.Equal(t, MatchStats{}, stats)
	assert.Zero(t, stats.MatchedPct())
}

func TestTopUnmatched(t *testing.T) {
	rows := []Matched{
		{IndustryCode: "a", TotalWorkers: 5, Matched: true},
		{IndustryCode: "b", TotalWorkers: 100},
		{IndustryCode: "c", TotalWorkers: 300},
		{IndustryCode: "d", TotalWorkers: 200},
	}
	top := TopUnmatched(rows, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "c", top[0].IndustryCode)
	assert.Equal(t, "d", top[1].IndustryCode)
}
