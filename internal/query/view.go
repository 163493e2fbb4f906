package query

import (
	"fmt"
	"time"

	"go1090/internal/registry"
)

// AircraftView is the string-typed wire shape of spec.md section 3's
// Squitter Record / Aircraft Entry, as returned by "GET DATA STR".
type AircraftView struct {
	ICAO24       string `json:"icao24"`
	CallSign     string `json:"call_sign,omitempty"`
	Altitude     string `json:"altitude,omitempty"`
	Squawk       string `json:"squawk,omitempty"`
	Velocity     string `json:"velocity,omitempty"`
	Heading      string `json:"heading,omitempty"`
	VerticalRate string `json:"vertical_rate,omitempty"`
	Latitude     string `json:"latitude,omitempty"`
	Longitude    string `json:"longitude,omitempty"`
	OnGround     string `json:"on_ground,omitempty"`
	RefreshCount string `json:"refresh_count"`
	AgeSeconds   string `json:"age_seconds"`
}

// metersPerFoot converts feet (and ft/min) to meters (and m/min).
const metersPerFoot = 0.3048

// newAircraftView stringifies a registry Entry, applying the use_metric unit
// conversion to altitude and vertical rate per spec.md section 8 scenario 6.
func newAircraftView(e registry.Entry, now time.Time, useMetric bool) AircraftView {
	v := AircraftView{
		ICAO24:       fmt.Sprintf("%06X", e.ICAO24),
		RefreshCount: fmt.Sprintf("%d", e.RefreshCount),
		AgeSeconds:   fmt.Sprintf("%.0f", now.Sub(e.LastUpdate).Seconds()),
	}

	if e.CallSign != nil {
		v.CallSign = *e.CallSign
	}
	if e.Altitude != nil {
		v.Altitude = formatAltitude(*e.Altitude, useMetric)
	}
	if e.Squawk != nil {
		v.Squawk = fmt.Sprintf("%04d", *e.Squawk)
	}
	if e.Velocity != nil {
		v.Velocity = fmt.Sprintf("%.1f", *e.Velocity)
	}
	if e.Heading != nil {
		v.Heading = fmt.Sprintf("%.1f", *e.Heading)
	}
	if e.VerticalRate != nil {
		v.VerticalRate = formatAltitude(*e.VerticalRate, useMetric)
	}
	if e.Latitude != nil {
		v.Latitude = fmt.Sprintf("%.6f", *e.Latitude)
	}
	if e.Longitude != nil {
		v.Longitude = fmt.Sprintf("%.6f", *e.Longitude)
	}
	if e.OnGround != nil {
		v.OnGround = fmt.Sprintf("%v", *e.OnGround)
	}

	return v
}

func formatAltitude(feet int, useMetric bool) string {
	if !useMetric {
		return fmt.Sprintf("%d", feet)
	}
	return fmt.Sprintf("%.0f", float64(feet)*metersPerFoot)
}

// Snapshot converts every live registry entry into its wire view.
func Snapshot(entries []registry.Entry, now time.Time, useMetric bool) []AircraftView {
	views := make([]AircraftView, 0, len(entries))
	for _, e := range entries {
		views = append(views, newAircraftView(e, now, useMetric))
	}
	return views
}
