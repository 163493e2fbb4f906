package flightdb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	db := Load(filepath.Join(t.TempDir(), "does-not-exist.json"), nil)
	snap := db.Snapshot()
	assert.Equal(t, uint64(0), snap.TotalCnt)
	assert.Empty(t, snap.Flights)
}

func TestRecordIncrementsCounts(t *testing.T) {
	db := Load(filepath.Join(t.TempDir(), "db.json"), nil)
	db.Record("KLM1023")
	db.Record("KLM1023")
	db.Record("UAL456")

	snap := db.Snapshot()
	assert.Equal(t, uint64(3), snap.TotalCnt)
	assert.Equal(t, "KLM1023", snap.Flights[0][0])
	assert.Equal(t, uint64(2), snap.Flights[0][1])
}

func TestRecordIgnoresEmptyCallsign(t *testing.T) {
	db := Load(filepath.Join(t.TempDir(), "db.json"), nil)
	db.Record("")
	assert.Equal(t, uint64(0), db.Snapshot().TotalCnt)
}

func TestFlushThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	db := Load(path, nil)
	db.Record("KLM1023")
	db.Record("KLM1023")
	db.Record("BAW007")

	require.NoError(t, db.Flush())

	reloaded := Load(path, nil)
	snap := reloaded.Snapshot()
	assert.Equal(t, uint64(3), snap.TotalCnt)
	assert.Len(t, snap.Flights, 2)
}

func TestLoadMalformedFileResetsToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	db := Load(path, nil)
	snap := db.Snapshot()
	assert.Equal(t, uint64(0), snap.TotalCnt)
}

func TestSnapshotMarshalsToSpecShape(t *testing.T) {
	db := Load(filepath.Join(t.TempDir(), "db.json"), nil)
	db.Record("KLM1023")

	data, err := json.Marshal(db.Snapshot())
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "version")
	assert.Contains(t, raw, "start_date")
	assert.Contains(t, raw, "total_cnt")
	assert.Contains(t, raw, "flights")

	flights := raw["flights"].([]interface{})
	pair := flights[0].([]interface{})
	assert.Equal(t, "KLM1023", pair[0])
	assert.Equal(t, float64(1), pair[1])
}
