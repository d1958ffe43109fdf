package stage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/econlink/internal/industry"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileShares)
	rows := []industry.Share{
		{IndustryCode: "2361", TotalWorkers: 1000, NoncitizenWorkers: 300, NoncitizenPercentage: 30},
		{IndustryCode: "5411", TotalWorkers: 500, NoncitizenWorkers: 50, NoncitizenPercentage: 10},
	}

	require.NoError(t, Save(path, rows))

	got, err := Load[industry.Share](path, "process")
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestLoad_MissingNamesProducer(t *testing.T) {
	_, err := Load[industry.Share](filepath.Join(t.TempDir(), FileShares), "process")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `run "process" first`)
}

func TestSave_EmptyStillWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileShares)
	require.NoError(t, Save(path, []industry.Share{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "industry_code")
}
