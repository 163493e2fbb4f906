package app

import (
	"encoding/json"
	"os"
)

// Default configuration constants
const (
	DefaultFrequency  uint32 = 1090000000 // 1090 MHz
	DefaultSampleRate uint32 = 2400000    // 2.4 MHz (same as dump1090)
	DefaultGain       = 40         // Manual gain
)

// Config holds application configuration: the RTL-SDR/log fields plus the
// full option set of spec.md section 6.
type Config struct {
	Frequency    uint32
	SampleRate   uint32
	Gain         int
	DeviceIndex  int
	LogDir       string
	LogRotateUTC bool
	Verbose      bool
	ShowVersion  bool

	CheckPhase            bool    `json:"check_phase"`
	UseMetric             bool    `json:"use_metric"`
	ApplyBitErrCorrection bool    `json:"apply_bit_err_correction"`
	RunAsDaemon           bool    `json:"run_as_daemon"`
	ReadFromFile          bool    `json:"read_from_file"`
	FileName              string  `json:"file_name"`
	UseTextDisplay        bool    `json:"use_text_display"`
	MaxBlipTTL            int     `json:"max_blip_ttl"`
	VerboseLogging        bool    `json:"verbose_logging"`
	CheckCRC              bool    `json:"check_crc"`
	UserLatitude          float64 `json:"user_latitude"`
	UserLongitude         float64 `json:"user_longitude"`
	LogFile               string  `json:"log_file"`
	LogMaxBytes           int     `json:"log_max_bytes"`
	LogBackupCount        int     `json:"log_backup_count"`
	SpotsServerAddress    string  `json:"spots_server_address"`
	SpotsServerPort       int     `json:"spots_server_port"`
	UseFlightDB           bool    `json:"use_flight_db"`
	FlightDBName          string  `json:"flight_db_name"`
}

// DefaultConfig returns the option defaults of spec.md section 6.
func DefaultConfig() Config {
	return Config{
		Frequency:             DefaultFrequency,
		SampleRate:            DefaultSampleRate,
		Gain:                  DefaultGain,
		LogDir:                "./logs",
		LogRotateUTC:          true,
		CheckPhase:            true,
		ApplyBitErrCorrection: true,
		MaxBlipTTL:            60,
		CheckCRC:              true,
		LogMaxBytes:           10 * 1024 * 1024,
		LogBackupCount:        5,
		SpotsServerAddress:    "0.0.0.0",
		SpotsServerPort:       5050,
		FlightDBName:          "flight_db.json",
	}
}

// LoadConfig reads a JSON config file and overlays it onto the defaults. A
// missing file is not an error; the defaults apply untouched.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
