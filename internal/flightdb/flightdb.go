// Package flightdb implements the persistent JSON flight-count database of
// spec.md section 6: a per-callsign sighting counter, rewritten atomically
// every 10 minutes, grounded on original_source/radar/flight_db_tool.py's
// FlightDB (adapted from its dict-keyed store to the wire shape spec.md
// section 6 specifies: an array of [callsign, count] pairs rather than a
// JSON object, so callsigns with special JSON-key characters round-trip
// safely and ordering by count is preserved on disk).
package flightdb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const dbVersion = 1

// Document is the on-disk/query-protocol JSON shape of spec.md section 6.
type Document struct {
	Version   int             `json:"version"`
	StartDate string          `json:"start_date"`
	TotalCnt  uint64          `json:"total_cnt"`
	Flights   [][2]interface{} `json:"flights"`
}

// DB is the in-memory flight-sighting counter, periodically flushed to path.
type DB struct {
	mu        sync.Mutex
	path      string
	startDate string
	totalCnt  uint64
	counts    map[string]uint64
	logger    *logrus.Logger
}

// Load opens (or creates) the database at path. A malformed existing file is
// treated as a decode error and replaced with a fresh empty database, per
// spec.md section 7's "Persistent JSON decode error" policy.
func Load(path string, logger *logrus.Logger) *DB {
	db := &DB{
		path:      path,
		startDate: time.Now().UTC().Format("2006-01-02"),
		counts:    make(map[string]uint64),
		logger:    logger,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return db
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		if logger != nil {
			logger.WithError(err).Warn("flight db decode failed, starting fresh")
		}
		return db
	}

	db.startDate = doc.StartDate
	db.totalCnt = doc.TotalCnt
	for _, pair := range doc.Flights {
		callsign, ok := pair[0].(string)
		if !ok {
			continue
		}
		count, ok := pair[1].(float64)
		if !ok {
			continue
		}
		db.counts[callsign] = uint64(count)
	}
	return db
}

// Record increments callsign's sighting count and the running total. Empty
// callsigns are not counted.
func (db *DB) Record(callsign string) {
	if callsign == "" {
		return
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.counts[callsign]++
	db.totalCnt++
}

// Snapshot returns the current document, flights sorted by descending count
// then callsign for deterministic output.
func (db *DB) Snapshot() Document {
	db.mu.Lock()
	defer db.mu.Unlock()

	flights := make([][2]interface{}, 0, len(db.counts))
	for callsign, count := range db.counts {
		flights = append(flights, [2]interface{}{callsign, count})
	}
	sort.Slice(flights, func(i, j int) bool {
		ci, cj := flights[i][1].(uint64), flights[j][1].(uint64)
		if ci != cj {
			return ci > cj
		}
		return flights[i][0].(string) < flights[j][0].(string)
	})

	return Document{
		Version:   dbVersion,
		StartDate: db.startDate,
		TotalCnt:  db.totalCnt,
		Flights:   flights,
	}
}

// Flush atomically rewrites the database file: write to a temp file in the
// same directory, then rename over the destination.
func (db *DB) Flush() error {
	doc := db.Snapshot()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal flight db: %w", err)
	}

	dir := filepath.Dir(db.path)
	tmp, err := os.CreateTemp(dir, ".flightdb-*.tmp")
	if err != nil {
		return fmt.Errorf("create flight db temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write flight db temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close flight db temp file: %w", err)
	}

	if err := os.Rename(tmpPath, db.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename flight db into place: %w", err)
	}

	return nil
}

// Run flushes the database every 10 minutes until done is closed.
func (db *DB) Run(done <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := db.Flush(); err != nil && db.logger != nil {
				db.logger.WithError(err).Error("flight db flush failed")
			}
		}
	}
}
