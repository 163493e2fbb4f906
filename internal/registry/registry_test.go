package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go1090/internal/adsb"
)

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }
func u32p(v uint32) *uint32 { return &v }
func boolp(v bool) *bool    { return &v }

func TestIngestNewEntry(t *testing.T) {
	reg := New(60*time.Second, 52.0, 4.0, nil)
	now := time.Now()

	rec := &adsb.SquitterRecord{
		DownlinkFormat: 17,
		ICAO24:         0x40621d,
		CRCOK:          true,
		CallSign:       strp("KLM1023"),
	}

	ok := reg.Ingest(rec, now)
	assert.True(t, ok)
	assert.Equal(t, 1, reg.Size())

	snap := reg.Snapshot()
	assert.Len(t, snap, 1)
	assert.Equal(t, uint32(0x40621d), snap[0].ICAO24)
	assert.Equal(t, "KLM1023", *snap[0].CallSign)
}

func TestIngestMergeNeverErases(t *testing.T) {
	reg := New(60*time.Second, 52.0, 4.0, nil)
	now := time.Now()

	first := &adsb.SquitterRecord{
		DownlinkFormat: 17,
		ICAO24:         0x40621d,
		CRCOK:          true,
		CallSign:       strp("KLM1023"),
		Altitude:       intp(35000),
	}
	reg.Ingest(first, now)

	second := &adsb.SquitterRecord{
		DownlinkFormat: 17,
		ICAO24:         0x40621d,
		CRCOK:          true,
		Velocity:       func() *float64 { v := 450.0; return &v }(),
	}
	reg.Ingest(second, now)

	snap := reg.Snapshot()
	assert.Len(t, snap, 1)
	assert.Equal(t, "KLM1023", *snap[0].CallSign, "call sign from an earlier message must survive")
	assert.Equal(t, 35000, *snap[0].Altitude, "altitude from an earlier message must survive")
	assert.Equal(t, 450.0, *snap[0].Velocity)
}

func TestIngestDF17RequiresValidCRC(t *testing.T) {
	reg := New(60*time.Second, 52.0, 4.0, nil)

	rec := &adsb.SquitterRecord{
		DownlinkFormat: 17,
		ICAO24:         0x40621d,
		CRCOK:          false,
		CRCSum:         12345,
	}

	ok := reg.Ingest(rec, time.Now())
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Size())
}

func TestIngestDF11RescueWithExistingICAO(t *testing.T) {
	reg := New(60*time.Second, 52.0, 4.0, nil)
	now := time.Now()

	// An existing, confirmed aircraft keyed by the residue value 42.
	seed := &adsb.SquitterRecord{DownlinkFormat: 17, ICAO24: 42, CRCOK: true}
	reg.Ingest(seed, now)

	rescue := &adsb.SquitterRecord{
		DownlinkFormat: 11,
		CRCOK:          false,
		CRCSum:         42,
	}
	ok := reg.Ingest(rescue, now)
	assert.True(t, ok, "DF11 with crc_sum<80 and a known ICAO must be rescued")

	noEntry := New(60*time.Second, 52.0, 4.0, nil)
	rejected := noEntry.Ingest(rescue, now)
	assert.False(t, rejected, "DF11 with crc_sum<80 but no prior entry must be rejected")
}

func TestIngestDF11RejectsHighResidueWithoutCRC(t *testing.T) {
	reg := New(60*time.Second, 52.0, 4.0, nil)

	rec := &adsb.SquitterRecord{
		DownlinkFormat: 11,
		CRCOK:          false,
		CRCSum:         500,
	}
	ok := reg.Ingest(rec, time.Now())
	assert.False(t, ok)
}

func TestIngestResolvesGlobalPositionFromFramePair(t *testing.T) {
	reg := New(60*time.Second, 0, 0, nil)
	base := time.Now()

	even := &adsb.SquitterRecord{
		DownlinkFormat: 17,
		ICAO24:         0x40621d,
		CRCOK:          true,
		HasRawPosition: true,
		RawLatitude:    u32p(93000),
		RawLongitude:   u32p(51372),
		OddFrame:       false,
		OnGround:       boolp(false),
	}
	odd := &adsb.SquitterRecord{
		DownlinkFormat: 17,
		ICAO24:         0x40621d,
		CRCOK:          true,
		HasRawPosition: true,
		RawLatitude:    u32p(74158),
		RawLongitude:   u32p(50194),
		OddFrame:       true,
		OnGround:       boolp(false),
	}

	reg.Ingest(even, base)
	reg.Ingest(odd, base.Add(time.Second))

	snap := reg.Snapshot()
	assert.Len(t, snap, 1)
	assert.NotNil(t, snap[0].Latitude)
	assert.InDelta(t, 52.257, *snap[0].Latitude, 0.01)
	assert.InDelta(t, 3.919, *snap[0].Longitude, 0.01)
}

func TestAgeEvictsStaleEntries(t *testing.T) {
	reg := New(10*time.Second, 52.0, 4.0, nil)
	now := time.Now()

	rec := &adsb.SquitterRecord{DownlinkFormat: 17, ICAO24: 0x40621d, CRCOK: true}
	reg.Ingest(rec, now)
	assert.Equal(t, 1, reg.Size())

	removed := reg.Age(now.Add(20 * time.Second))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, reg.Size())
}

func TestAgeKeepsFreshEntries(t *testing.T) {
	reg := New(60*time.Second, 52.0, 4.0, nil)
	now := time.Now()

	rec := &adsb.SquitterRecord{DownlinkFormat: 17, ICAO24: 0x40621d, CRCOK: true}
	reg.Ingest(rec, now)

	removed := reg.Age(now.Add(5 * time.Second))
	assert.Equal(t, 0, removed)
	assert.Equal(t, 1, reg.Size())
}

func TestSizeNeverExceedsDistinctICAOCount(t *testing.T) {
	reg := New(60*time.Second, 52.0, 4.0, nil)
	now := time.Now()

	icaos := []uint32{0x100001, 0x100002, 0x100003}
	for i := 0; i < 10; i++ {
		for _, icao := range icaos {
			reg.Ingest(&adsb.SquitterRecord{DownlinkFormat: 17, ICAO24: icao, CRCOK: true}, now)
		}
	}

	assert.Equal(t, len(icaos), reg.Size())
}
