// Package registry implements the Aircraft State Registry of spec.md section
// 4.7: a per-ICAO24 map of merged Squitter records, with time-based eviction
// and CPR position resolution. Grounded on original_source/radar.py's Radar
// class (_blip_add, _scan_blips, _remove_old_blips), adapted from a
// dict-of-lists-under-one-lock into a single map of merged entries guarded by
// one mutex, per spec.md section 3's Aircraft Entry/Registry data model.
package registry

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go1090/internal/adsb"
)

// Entry is one aircraft's merged state: the latest known value of every
// Squitter Record field, plus CPR bookkeeping. Per spec.md section 3,
// merging a new record overwrites any non-empty field with its latest value
// and never erases a previously known field with an empty one.
type Entry struct {
	ICAO24 uint32

	DownlinkFormat uint8
	Capability     *uint8
	FlightStatus   *uint8
	TypeCode       *uint8
	Altitude       *int
	CallSign       *string
	Squawk         *int
	Velocity       *float64
	Heading        *float64
	VerticalRate   *int
	OnGround       *bool

	Latitude  *float64
	Longitude *float64

	EvenFrame    *adsb.CPRFrame
	OddFrame     *adsb.CPRFrame
	EvenThenOdd  bool
	hasEvenFrame bool
	hasOddFrame  bool

	SignalStrength float64
	LastUpdate     time.Time
	RefreshCount   uint64
}

// Registry is the ICAO24 -> Entry map, guarded by a single mutex per
// spec.md section 5's shared-resource policy.
type Registry struct {
	mu   sync.Mutex
	byID map[uint32]*Entry

	maxBlipTTL time.Duration
	refLat     float64
	refLon     float64

	logger *logrus.Logger
}

// New creates an empty registry. refLat/refLon are the receiver's known
// position, used as the reference for Local CPR decoding of an aircraft that
// has no decoded position yet (spec.md section 6's
// user_latitude/user_longitude config keys).
func New(maxBlipTTL time.Duration, refLat, refLon float64, logger *logrus.Logger) *Registry {
	return &Registry{
		byID:       make(map[uint32]*Entry),
		maxBlipTTL: maxBlipTTL,
		refLat:     refLat,
		refLon:     refLon,
		logger:     logger,
	}
}

// accept implements the per-DF acceptance policy of spec.md section 4.7:
// DF11 accepts when CRC is valid, or when CRC is invalid but the residue is
// < 80 and an entry for that ICAO already exists. DF17/18 require a valid
// CRC outright. Every other DF accepts when CRC is valid, or when the CRC
// residue matches an ICAO already present in the registry (the residue is
// then treated as the aircraft address).
func (r *Registry) accept(rec *adsb.SquitterRecord) (icao uint32, ok bool) {
	switch rec.DownlinkFormat {
	case 17, 18:
		if rec.CRCOK {
			return rec.ICAO24, true
		}
		return 0, false

	case 11:
		if rec.CRCOK {
			return rec.ICAO24, true
		}
		if rec.CRCSum < 80 {
			if _, exists := r.byID[rec.CRCSum]; exists {
				return rec.CRCSum, true
			}
		}
		return 0, false

	default:
		if rec.CRCOK {
			return rec.ICAO24, true
		}
		if _, exists := r.byID[rec.CRCSum]; exists {
			return rec.CRCSum, true
		}
		return 0, false
	}
}

// Ingest merges one decoded Squitter Record into the registry, per spec.md
// section 4.7: upsert keyed by ICAO24, merge fields per the never-erase
// invariant, refresh the timestamp, increment the refresh count, stash the
// raw CPR pair, and attempt Local CPR before falling back to Global CPR.
// Returns false if the message's acceptance policy rejects it.
func (r *Registry) Ingest(rec *adsb.SquitterRecord, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	icao, ok := r.accept(rec)
	if !ok {
		return false
	}

	e, exists := r.byID[icao]
	if !exists {
		e = &Entry{ICAO24: icao}
		r.byID[icao] = e
	}

	e.mergeFrom(rec)
	e.LastUpdate = now
	e.RefreshCount++
	e.SignalStrength = rec.SignalStrength

	if rec.HasRawPosition {
		frame := adsb.CPRFrame{LatCPR: *rec.RawLatitude, LonCPR: *rec.RawLongitude}
		if rec.OddFrame {
			e.OddFrame = &frame
			e.hasOddFrame = true
			if e.hasEvenFrame {
				e.EvenThenOdd = true
			}
		} else {
			e.EvenFrame = &frame
			e.hasEvenFrame = true
			e.EvenThenOdd = false
		}

		onGround := e.OnGround != nil && *e.OnGround
		r.resolvePosition(e, onGround)
	}

	return true
}

// resolvePosition attempts Local CPR first (against the entry's previously
// decoded position, or the registry's configured reference position if the
// entry has none); if that fails, it falls back to Global CPR using the
// entry's stashed even/odd frame pair. This ordering is a
// deliberate divergence from radar.py's decodeCPR-then-decodeCPR_relative
// sequence, per spec.md section 4.7.
func (r *Registry) resolvePosition(e *Entry, onGround bool) {
	var latest *adsb.CPRFrame
	var latestFFlag uint8
	if e.EvenThenOdd && e.hasOddFrame {
		latest = e.OddFrame
		latestFFlag = 1
	} else if e.hasEvenFrame {
		latest = e.EvenFrame
		latestFFlag = 0
	} else if e.hasOddFrame {
		latest = e.OddFrame
		latestFFlag = 1
	}

	refLat, refLon := r.refLat, r.refLon
	if e.Latitude != nil && e.Longitude != nil {
		refLat, refLon = *e.Latitude, *e.Longitude
	}

	if latest != nil {
		if lat, lon, ok := adsb.DecodeLocalCPR(*latest, latestFFlag, refLat, refLon, onGround); ok {
			e.Latitude = f64ptr(lat)
			e.Longitude = f64ptr(lon)
			return
		}
	}

	if e.hasEvenFrame && e.hasOddFrame {
		if lat, lon, ok := adsb.DecodeGlobalCPR(*e.EvenFrame, *e.OddFrame, e.EvenThenOdd, onGround, r.refLat); ok {
			e.Latitude = f64ptr(lat)
			e.Longitude = f64ptr(lon)
		}
	}
}

// mergeFrom applies the never-erase merge invariant: a non-nil/non-empty
// field in rec overwrites the entry's field; a nil field leaves the
// entry's existing value untouched.
func (e *Entry) mergeFrom(rec *adsb.SquitterRecord) {
	e.DownlinkFormat = rec.DownlinkFormat

	if rec.Capability != nil {
		e.Capability = rec.Capability
	}
	if rec.FlightStatus != nil {
		e.FlightStatus = rec.FlightStatus
	}
	if rec.TypeCode != nil {
		e.TypeCode = rec.TypeCode
	}
	if rec.Altitude != nil {
		e.Altitude = rec.Altitude
	}
	if rec.CallSign != nil && *rec.CallSign != "" {
		e.CallSign = rec.CallSign
	}
	if rec.Squawk != nil {
		e.Squawk = rec.Squawk
	}
	if rec.Velocity != nil {
		e.Velocity = rec.Velocity
	}
	if rec.Heading != nil {
		e.Heading = rec.Heading
	}
	if rec.VerticalRate != nil {
		e.VerticalRate = rec.VerticalRate
	}
	if rec.OnGround != nil {
		e.OnGround = rec.OnGround
	}
}

// Age evicts every entry whose last update is at least maxBlipTTL in the
// past, per spec.md section 3's Registry destruction rule.
func (r *Registry) Age(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for icao, e := range r.byID {
		if now.Sub(e.LastUpdate) >= r.maxBlipTTL {
			delete(r.byID, icao)
			removed++
		}
	}
	if removed > 0 && r.logger != nil {
		r.logger.Debugf("registry: aged out %d entries", removed)
	}
	return removed
}

// Snapshot returns a copy of every live entry, safe for a reader to use
// without holding the registry lock.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, *e)
	}
	return out
}

// Size returns the number of live entries, bounded by the count of distinct
// ICAO24s seen within the ttl window (spec.md section 8's size invariant).
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func f64ptr(v float64) *float64 { return &v }
