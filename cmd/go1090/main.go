package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go1090/internal/app"
)

func main() {
	config := app.DefaultConfig()
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "go1090",
		Short: "ADS-B Decoder (dump1090-style)",
		Long: `ADS-B Decoder using RTL-SDR (dump1090-style implementation).

Captures I/Q samples from RTL-SDR (or replays a capture file) at 2.4MHz,
demodulates Mode S/ADS-B downlink messages using a pulse-template
preamble detector, validates and optionally corrects CRC, resolves CPR
position, and serves the live aircraft table over a small JSON query
protocol. Optionally also emits BaseStation (SBS) CSV and persists a
flight-sighting counter to disk.

Example usage:
  go1090 --frequency 1090000000 --sample-rate 2400000 --gain 40 --device 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				loaded, err := app.LoadConfig(configFile)
				if err != nil {
					return fmt.Errorf("failed to load config file: %w", err)
				}
				loaded.Frequency = config.Frequency
				loaded.SampleRate = config.SampleRate
				loaded.Gain = config.Gain
				loaded.DeviceIndex = config.DeviceIndex
				loaded.LogDir = config.LogDir
				loaded.LogRotateUTC = config.LogRotateUTC
				loaded.Verbose = config.Verbose
				loaded.ShowVersion = config.ShowVersion
				config = loaded
			}

			if config.ShowVersion {
				app.ShowVersion()
				return nil
			}

			application := app.NewApplication(config)
			return application.Start()
		},
	}

	flags := rootCmd.Flags()
	flags.Uint32VarP(&config.Frequency, "frequency", "f", config.Frequency, "Frequency to tune to (Hz)")
	flags.Uint32VarP(&config.SampleRate, "sample-rate", "s", config.SampleRate, "Sample rate (Hz)")
	flags.IntVarP(&config.Gain, "gain", "g", config.Gain, "Gain setting (0 for auto)")
	flags.IntVarP(&config.DeviceIndex, "device", "d", 0, "RTL-SDR device index")
	flags.StringVarP(&config.LogDir, "log-dir", "l", config.LogDir, "Log directory")
	flags.BoolVarP(&config.LogRotateUTC, "utc", "u", config.LogRotateUTC, "Use UTC for log rotation")
	flags.BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")
	flags.BoolVar(&config.ShowVersion, "version", false, "Show version information")

	flags.StringVarP(&configFile, "config", "c", "", "Path to a JSON configuration file")
	flags.BoolVar(&config.CheckPhase, "check-phase", config.CheckPhase, "Retry preamble detection with phase correction")
	flags.BoolVar(&config.UseMetric, "use-metric", config.UseMetric, "Report altitude and vertical rate in meters")
	flags.BoolVar(&config.ApplyBitErrCorrection, "correct-errors", config.ApplyBitErrCorrection, "Attempt single-bit CRC error correction")
	flags.BoolVar(&config.CheckCRC, "check-crc", config.CheckCRC, "Reject messages that fail CRC validation")
	flags.BoolVar(&config.RunAsDaemon, "daemon", config.RunAsDaemon, "Run as a background daemon (accepted; has no effect)")
	flags.BoolVar(&config.ReadFromFile, "read-from-file", config.ReadFromFile, "Replay samples from a capture file instead of a live device")
	flags.StringVar(&config.FileName, "file-name", config.FileName, "Capture file to replay when --read-from-file is set")
	flags.BoolVar(&config.UseTextDisplay, "text-display", config.UseTextDisplay, "Show a live text display of tracked aircraft (accepted; has no effect)")
	flags.IntVar(&config.MaxBlipTTL, "max-blip-ttl", config.MaxBlipTTL, "Seconds of silence before an aircraft entry is evicted")
	flags.BoolVar(&config.VerboseLogging, "verbose-logging", config.VerboseLogging, "Enable verbose structured logging")
	flags.Float64Var(&config.UserLatitude, "user-lat", config.UserLatitude, "Receiver latitude, used as the Local CPR reference")
	flags.Float64Var(&config.UserLongitude, "user-lon", config.UserLongitude, "Receiver longitude, used as the Local CPR reference")
	flags.StringVar(&config.LogFile, "log-file", config.LogFile, "Plain (non-rotated) log file path (accepted; has no effect)")
	flags.IntVar(&config.LogMaxBytes, "log-max-bytes", config.LogMaxBytes, "Maximum size of a plain log file before rotation (accepted; has no effect)")
	flags.IntVar(&config.LogBackupCount, "log-backup-count", config.LogBackupCount, "Number of rotated log backups to retain (accepted; has no effect)")
	flags.StringVar(&config.SpotsServerAddress, "server-addr", config.SpotsServerAddress, "Query interface bind address")
	flags.IntVar(&config.SpotsServerPort, "server-port", config.SpotsServerPort, "Query interface TCP port")
	flags.BoolVar(&config.UseFlightDB, "use-flight-db", config.UseFlightDB, "Persist the flight-sighting counter to disk")
	flags.StringVar(&config.FlightDBName, "flight-db", config.FlightDBName, "Flight-sighting counter database path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
