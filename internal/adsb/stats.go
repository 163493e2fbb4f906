package adsb

import (
	"strconv"
	"sync/atomic"
)

// Stats holds the atomically-updated message counters of spec.md section 4.8.
// Every field is updated with sync/atomic so the Radar goroutine (writer) and
// the Query Interface (reader, via Snapshot) never need a lock between them.
type Stats struct {
	validPreambles uint64
	dfTotal        uint64
	validCRC       uint64
	notValidCRC    uint64
	correctedCRC   uint64

	perDF [32]uint64
}

// NewStats returns a zeroed counter set.
func NewStats() *Stats {
	return &Stats{}
}

// RecordPreamble increments the valid-preamble counter.
func (s *Stats) RecordPreamble() {
	atomic.AddUint64(&s.validPreambles, 1)
}

// RecordMessage increments the per-DF and total message counters, plus the
// valid/not-valid/corrected CRC counters for this message's outcome.
func (s *Stats) RecordMessage(df uint8, crcOK, corrected bool) {
	atomic.AddUint64(&s.dfTotal, 1)
	if int(df) < len(s.perDF) {
		atomic.AddUint64(&s.perDF[df], 1)
	}
	if crcOK {
		atomic.AddUint64(&s.validCRC, 1)
	} else {
		atomic.AddUint64(&s.notValidCRC, 1)
	}
	if corrected {
		atomic.AddUint64(&s.correctedCRC, 1)
	}
}

// StatsSnapshot is the point-in-time, by-value rendering of Stats exposed
// through the Query Interface's GET STATISTICS STR command.
type StatsSnapshot struct {
	ValidPreambles uint64           `json:"valid_preambles"`
	DFTotal        uint64           `json:"df_total"`
	ValidCRC       uint64           `json:"valid_crc"`
	NotValidCRC    uint64           `json:"not_valid_crc"`
	CorrectedCRC   uint64           `json:"corrected_crc"`
	PerDF          map[string]uint64 `json:"per_df"`
}

// Snapshot reads every counter, by value, for the Query Interface.
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		ValidPreambles: atomic.LoadUint64(&s.validPreambles),
		DFTotal:        atomic.LoadUint64(&s.dfTotal),
		ValidCRC:       atomic.LoadUint64(&s.validCRC),
		NotValidCRC:    atomic.LoadUint64(&s.notValidCRC),
		CorrectedCRC:   atomic.LoadUint64(&s.correctedCRC),
		PerDF:          make(map[string]uint64, len(s.perDF)),
	}
	for df := range s.perDF {
		if v := atomic.LoadUint64(&s.perDF[df]); v != 0 {
			snap.PerDF[dfLabel(df)] = v
		}
	}
	return snap
}

func dfLabel(df int) string {
	return "DF" + strconv.Itoa(df)
}
