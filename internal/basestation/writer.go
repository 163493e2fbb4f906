// Package basestation is a supplemental SBS/BaseStation CSV sink, fed
// directly from decoded Aircraft Entries by the Sweeper role. It exists for
// compatibility with dump1090-ecosystem consumers and does not replace the
// JSON Query Interface (internal/query). Grounded on the teacher's original
// Beast-message-based writer, adapted to consume registry.Entry directly
// now that decoding and CPR resolution happen upstream in internal/adsb and
// internal/registry; the bit-extraction helpers the teacher re-derived from
// raw message bytes (including a stubbed extractPosition that never
// computed CPR) are no longer needed.
package basestation

import (
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"go1090/internal/logging"
	"go1090/internal/registry"
)

// BaseStation message type.
const MSG = "MSG" // Transmission

// BaseStation transmission types.
const (
	TransmissionESIDCat    = 1 // Extended Squitter Aircraft ID and Category
	TransmissionESAirborne = 3 // Extended Squitter Airborne Position
	TransmissionSurvey     = 5 // Surveillance Alt, Squawk change
	TransmissionAllCall    = 8 // All Call Reply
)

// Writer writes decoded entries in BaseStation CSV format.
type Writer struct {
	logRotator *logging.LogRotator
	logger     *logrus.Logger
	sessionID  int
	aircraftID int
}

// NewWriter creates a new BaseStation writer.
func NewWriter(logRotator *logging.LogRotator, logger *logrus.Logger) *Writer {
	return &Writer{
		logRotator: logRotator,
		logger:     logger,
		sessionID:  1,
		aircraftID: 1,
	}
}

// WriteEntry converts a registry entry to one BaseStation CSV line and
// appends it to the rotating log. Entries whose downlink format has no
// BaseStation transmission-type mapping are silently skipped.
func (w *Writer) WriteEntry(e registry.Entry) error {
	line, ok := w.formatEntry(e)
	if !ok {
		return nil
	}

	writer, err := w.logRotator.GetWriter()
	if err != nil {
		return err
	}
	_, err = writer.Write([]byte(line + "\n"))
	return err
}

func (w *Writer) formatEntry(e registry.Entry) (string, bool) {
	transmissionType, ok := transmissionTypeFor(e.DownlinkFormat)
	if !ok {
		return "", false
	}

	now := time.Now().UTC()
	dateStr := now.Format("2006/01/02")
	timeStr := now.Format("15:04:05.000")

	callsign := ""
	if e.CallSign != nil {
		callsign = *e.CallSign
	}
	altitude := ""
	if e.Altitude != nil {
		altitude = strconv.Itoa(*e.Altitude)
	}
	groundSpeed := ""
	if e.Velocity != nil {
		groundSpeed = strconv.Itoa(int(*e.Velocity))
	}
	track := ""
	if e.Heading != nil {
		track = strconv.FormatFloat(*e.Heading, 'f', 1, 64)
	}
	latitude := ""
	if e.Latitude != nil {
		latitude = strconv.FormatFloat(*e.Latitude, 'f', 6, 64)
	}
	longitude := ""
	if e.Longitude != nil {
		longitude = strconv.FormatFloat(*e.Longitude, 'f', 6, 64)
	}
	verticalRate := ""
	if e.VerticalRate != nil {
		verticalRate = strconv.Itoa(*e.VerticalRate)
	}
	squawk := ""
	if e.Squawk != nil {
		squawk = strconv.Itoa(*e.Squawk)
	}
	onGround := ""
	if e.OnGround != nil && *e.OnGround {
		onGround = "1"
	}

	fields := []string{
		MSG,
		strconv.Itoa(transmissionType),
		strconv.Itoa(w.sessionID),
		strconv.Itoa(w.aircraftID),
		icaoHex(e.ICAO24),
		strconv.Itoa(w.aircraftID),
		dateStr, timeStr, dateStr, timeStr,
		callsign, altitude, groundSpeed, track, latitude, longitude,
		verticalRate, squawk, "", "", "", onGround,
	}
	return strings.Join(fields, ","), true
}

func transmissionTypeFor(df uint8) (int, bool) {
	switch df {
	case 17, 18:
		return TransmissionESAirborne, true
	case 4, 5, 20, 21:
		return TransmissionSurvey, true
	case 11:
		return TransmissionAllCall, true
	default:
		return 0, false
	}
}

func icaoHex(icao uint32) string {
	return strings.ToUpper(strconv.FormatUint(uint64(icao), 16))
}
