package export

import (
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCentralityParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), CentralityParquetFile)
	require.NoError(t, WriteCentralityParquet(path, map[string]float64{
		"A": 0.75, "B": 0.25, "C": 0.5,
	}))

	rows, err := parquet.ReadFile[centralityRow](path)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "A", rows[0].PartyID)
	assert.Equal(t, 0.75, rows[0].DegreeCentrality)
	assert.Equal(t, "C", rows[1].PartyID)
	assert.Equal(t, "B", rows[2].PartyID)
}
