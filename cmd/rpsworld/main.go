// Command rpsworld plays rock-paper-scissors against the computer using
// hand gestures seen by the webcam.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ayusman/rpsworld/internal/app"
	"github.com/ayusman/rpsworld/internal/capture"
	"github.com/ayusman/rpsworld/internal/config"
	"github.com/ayusman/rpsworld/internal/detector"
	"github.com/ayusman/rpsworld/internal/game"
	"github.com/ayusman/rpsworld/internal/logging"
	"github.com/ayusman/rpsworld/internal/render"
	"github.com/ayusman/rpsworld/internal/score"
	"github.com/ayusman/rpsworld/internal/server"
	"github.com/ayusman/rpsworld/internal/store"
	"github.com/ayusman/rpsworld/internal/tray"
)

// The preview window and the tray both need the process main thread.
func init() {
	runtime.LockOSThread()
}

// options are command-line settings applied on top of the loaded config.
type options struct {
	configPath string
	mock       bool
	serve      bool
	addr       string
	webDir     string
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.configPath, "config", "", "path to a JSON config file")
	fs.BoolVar(&o.mock, "mock", false, "use the scripted detector instead of MediaPipe")
	fs.BoolVar(&o.serve, "serve", false, "enable the HTTP API")
	fs.StringVar(&o.addr, "addr", "", "HTTP listen address (implies -serve)")
	fs.StringVar(&o.webDir, "web", "", "directory of static files served at /")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

func (o options) apply(cfg *config.Config) {
	if o.mock {
		cfg.Detector.Mock = true
	}
	if o.serve {
		cfg.Server.Enabled = true
	}
	if o.addr != "" {
		cfg.Server.Enabled = true
		cfg.Server.Addr = o.addr
	}
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse flags: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	opts.apply(&cfg)

	log, err := logging.New(cfg.Log.Level, cfg.Log.Pretty, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configure logging: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts.webDir, log); err != nil {
		log.Error().Err(err).Msg("rpsworld stopped with an error")
		stop()
		os.Exit(1)
	}
}

// openScore returns the score store for the configured backend. For sqlite
// the opened database is returned too so its round history can be served.
func openScore(cfg config.ScoreConfig, log zerolog.Logger) (score.Store, *store.Store, error) {
	switch cfg.Backend {
	case config.BackendJSON:
		return score.NewJSONFile(cfg.JSONPath), nil, nil
	case config.BackendSQLite:
		db, err := store.New(cfg.DBPath, log)
		if err != nil {
			return nil, nil, fmt.Errorf("open score database: %w", err)
		}
		return db.Scores(), db, nil
	}
	return nil, nil, fmt.Errorf("unknown score backend %q", cfg.Backend)
}

func openDetector(cfg config.DetectorConfig) (detector.Detector, error) {
	if cfg.Mock {
		return detector.NewMockDetector(), nil
	}
	d, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:        cfg.MaxHands,
		MinConfidence:   cfg.MinConfidence,
		MinTrackingConf: cfg.MinTrackingConf,
	})
	if err != nil {
		return nil, fmt.Errorf("start hand detector: %w", err)
	}
	return d, nil
}

func run(ctx context.Context, cfg config.Config, webDir string, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scoreStore, db, err := openScore(cfg.Score, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	ledger, err := score.Open(scoreStore)
	if err != nil {
		log.Warn().Err(err).Msg("starting from an empty score")
	}
	log.Info().
		Str("backend", cfg.Score.Backend).
		Int("total_games", ledger.Record().TotalGames).
		Msg("score loaded")

	det, err := openDetector(cfg.Detector)
	if err != nil {
		return err
	}
	defer det.Close()

	cam := capture.NewCamera(capture.Config{
		DeviceID: cfg.Camera.Device,
		Width:    cfg.Camera.Width,
		Height:   cfg.Camera.Height,
		FPS:      cfg.Camera.FPS,
		Mirror:   cfg.Camera.Mirror,
	})

	var display app.Display
	switch {
	case cfg.Window.Enabled && cfg.Tray.Enabled:
		log.Warn().Msg("preview window disabled while the tray owns the main thread")
	case cfg.Window.Enabled:
		display = render.NewWindow(cfg.Window.Title)
	}

	a, err := app.New(app.Config{
		Camera:          cam,
		Detector:        det,
		Engine:          game.NewEngine(ledger, game.WithChooser(game.RandomChooser())),
		Display:         display,
		Logger:          log,
		FPS:             cfg.Camera.FPS,
		IdleFPS:         cfg.Camera.IdleFPS,
		MotionThreshold: cfg.Camera.MotionThreshold,
	})
	if err != nil {
		return err
	}

	serverDone := make(chan error, 1)
	if cfg.Server.Enabled {
		srvCfg := server.Config{StaticDir: webDir, Source: a.Hub(), Logger: log}
		if db != nil {
			srvCfg.Rounds = db.Rounds()
		}
		srv := server.New(srvCfg)
		go func() { serverDone <- srv.ListenAndServe(ctx, cfg.Server.Addr) }()
	} else {
		serverDone <- nil
	}

	var runErr error
	if cfg.Tray.Enabled {
		runErr = runWithTray(ctx, cancel, a, cfg.Window.Title)
	} else {
		runErr = a.Run(ctx)
	}
	cancel()

	if err := <-serverDone; err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("http server: %w", err))
	}
	return runErr
}

// runWithTray keeps the tray on the main goroutine and the game loop on
// another. Either one ending stops the other.
func runWithTray(ctx context.Context, cancel context.CancelFunc, a *app.App, title string) error {
	t := tray.New(title)
	t.OnQuit(cancel)

	updates, unsubscribe := a.Hub().Subscribe()
	defer unsubscribe()
	go t.Watch(ctx, updates)

	errc := make(chan error, 1)
	go func() {
		errc <- a.Run(ctx)
		t.Quit()
	}()

	t.Run()
	cancel()
	return <-errc
}
