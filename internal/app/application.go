package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"go1090/internal/adsb"
	"go1090/internal/basestation"
	"go1090/internal/flightdb"
	"go1090/internal/logging"
	"go1090/internal/query"
	"go1090/internal/registry"
	"go1090/internal/source"
)

// Application wires the four concurrent roles of the receiver pipeline: the
// Tuner (internal/source, demodulating into raw messages), the Radar (CRC +
// decode + registry.Ingest), the Sweeper (periodic aging and supplemental
// output), and the Query Interface server.
type Application struct {
	config Config
	logger *logrus.Logger

	src        source.Source
	lut        *adsb.MagnitudeLUT
	detector   *adsb.Detector
	stats      *adsb.Stats
	registry   *registry.Registry
	baseStation *basestation.Writer
	flightDB   *flightdb.DB
	queryServer *query.Server
	logRotator *logging.LogRotator

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	verbose bool
}

// NewApplication creates a new application instance. Heavy initialization
// (opening the sample source, the log rotator, etc.) happens in Start, so
// construction itself never fails.
func NewApplication(config Config) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	logger := logrus.New()
	if config.Verbose || config.VerboseLogging {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Application{
		config:  config,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		verbose: config.Verbose,
	}
}

// Start initializes every component, launches the four roles, and blocks
// until a shutdown signal arrives.
func (app *Application) Start() error {
	app.logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("Starting ADS-B Decoder")

	if err := app.initializeComponents(); err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := app.run(); err != nil {
		app.logger.WithError(err).Error("Application error")
		return err
	}

	<-sigChan
	app.logger.Info("Received shutdown signal")
	app.shutdown()

	return nil
}

// initializeComponents initializes all application components.
func (app *Application) initializeComponents() error {
	var err error

	app.logRotator, err = logging.NewLogRotator(app.config.LogDir, app.config.LogRotateUTC, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize log rotator: %w", err)
	}

	if app.config.ReadFromFile {
		app.src, err = source.NewFileSource(app.config.FileName)
		if err != nil {
			return fmt.Errorf("failed to open capture file: %w", err)
		}
	} else {
		app.src, err = source.NewDeviceSource(app.config.DeviceIndex, app.config.Frequency, app.config.SampleRate, app.config.Gain)
		if err != nil {
			return fmt.Errorf("failed to initialize RTL-SDR: %w", err)
		}
	}

	app.lut = adsb.NewMagnitudeLUT()
	app.detector = adsb.NewDetector(app.config.CheckPhase)
	app.stats = adsb.NewStats()

	maxBlipTTL := time.Duration(app.config.MaxBlipTTL) * time.Second
	app.registry = registry.New(maxBlipTTL, app.config.UserLatitude, app.config.UserLongitude, app.logger)

	app.baseStation = basestation.NewWriter(app.logRotator, app.logger)

	flightDBPath := app.config.FlightDBName
	if flightDBPath == "" {
		flightDBPath = "flight_db.json"
	}
	app.flightDB = flightdb.Load(flightDBPath, app.logger)

	app.queryServer = query.NewServer(app.registry, app.stats, app.flightDB, app.config.UseMetric, app.logger)

	return nil
}

// run starts the four concurrent roles.
func (app *Application) run() error {
	app.logger.Info("Starting sample capture and ADS-B demodulation")

	frameChan := make(chan []byte, 16)
	msgChan := make(chan adsb.RawMessage, 16)

	// T1: Tuner. Reads sample frames from the source and demodulates them
	// into raw Mode-S messages.
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		if err := app.src.Run(app.ctx, frameChan, app.onOverflow); err != nil && app.ctx.Err() == nil {
			app.logger.WithError(err).Error("sample source failed")
		}
	}()

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.demodLoop(frameChan, msgChan)
	}()

	// T2: Radar.
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.radarLoop(msgChan)
	}()

	// T3: Sweeper.
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.sweeperLoop()
	}()

	// T4: Query Interface server.
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		addr := fmt.Sprintf("%s:%d", app.config.SpotsServerAddress, app.config.SpotsServerPort)
		if err := app.queryServer.Serve(addr); err != nil && app.ctx.Err() == nil {
			app.logger.WithError(err).Error("query server failed")
		}
	}()

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.logRotator.Start(app.ctx)
	}()

	if app.config.UseFlightDB {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.flightDB.Run(app.ctx.Done())
		}()
	}

	app.logger.Info("All components started successfully")
	return nil
}

// onOverflow is invoked by the Tuner when its output queue is full. Queue
// overflow on the producer side is fatal per spec.md sections 5 and 7.
func (app *Application) onOverflow() {
	app.logger.Error("sample frame queue overflow, shutting down")
	app.cancel()
}

// demodLoop turns sample frames into raw Mode-S messages: magnitude mapping,
// then preamble detection and bit slicing.
func (app *Application) demodLoop(frameChan <-chan []byte, msgChan chan<- adsb.RawMessage) {
	for {
		select {
		case <-app.ctx.Done():
			return
		case frame, ok := <-frameChan:
			if !ok {
				return
			}
			samples := app.lut.Map(frame)
			for _, raw := range app.detector.Detect(samples) {
				app.stats.RecordPreamble()
				select {
				case msgChan <- raw:
				case <-app.ctx.Done():
					return
				}
			}
		}
	}
}

// radarLoop validates CRC, decodes each message, and feeds the registry.
func (app *Application) radarLoop(msgChan <-chan adsb.RawMessage) {
	for {
		select {
		case <-app.ctx.Done():
			return
		case raw, ok := <-msgChan:
			if !ok {
				return
			}
			app.handleRawMessage(raw)
		}
	}
}

func (app *Application) handleRawMessage(raw adsb.RawMessage) {
	data, crcSum, crcOK, corrected := adsb.DecodeCRC(raw, app.config.ApplyBitErrCorrection)
	if !app.config.CheckCRC {
		crcOK = true
	}

	rec := adsb.Decode(data, raw.SignalStrength, crcSum, crcOK)
	app.stats.RecordMessage(rec.DownlinkFormat, crcOK, corrected)

	if !app.registry.Ingest(rec, time.Now()) {
		return
	}

	if rec.CallSign != nil {
		app.flightDB.Record(*rec.CallSign)
	}
}

// sweeperLoop ages out stale entries every second and, when supplemental
// output is wired, ships the live snapshot to the BaseStation writer.
func (app *Application) sweeperLoop() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			app.registry.Age(time.Now())

			if app.baseStation == nil {
				continue
			}
			for _, e := range app.registry.Snapshot() {
				if err := app.baseStation.WriteEntry(e); err != nil {
					app.logger.WithError(err).Debug("basestation write failed")
				}
			}
		}
	}
}

// shutdown gracefully shuts down the application.
func (app *Application) shutdown() {
	app.logger.Info("Shutting down application")
	app.cancel()

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Info("All goroutines finished")
	case <-time.After(5 * time.Second):
		app.logger.Warn("Shutdown timeout, forcing exit")
	}

	if app.src != nil {
		app.src.Close()
	}
	if app.queryServer != nil {
		app.queryServer.Close()
	}
	if app.flightDB != nil && app.config.UseFlightDB {
		if err := app.flightDB.Flush(); err != nil {
			app.logger.WithError(err).Error("final flight db flush failed")
		}
	}
	if app.logRotator != nil {
		app.logRotator.Close()
	}

	app.logger.Info("Shutdown completed")
}
