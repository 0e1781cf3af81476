// Package app runs the camera-driven game loop and publishes its state.
package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/ayusman/rpsworld/internal/capture"
	"github.com/ayusman/rpsworld/internal/detector"
	"github.com/ayusman/rpsworld/internal/game"
	"github.com/ayusman/rpsworld/internal/render"
)

// Pipeline timing constants.
const (
	// DefaultFPS is the frame rate while someone is playing.
	DefaultFPS = 30
	// IdleTimeout is how long the menu must be still before dropping to the
	// idle rate.
	IdleTimeout = 2 * time.Second
)

// ErrRunning is returned when Run is called twice concurrently.
var ErrRunning = errors.New("app is already running")

// Display shows rendered frames and reports when the user asked to quit.
type Display interface {
	Show(frame *gocv.Mat) (quit bool)
	Close() error
}

// Config holds the collaborators and tuning for an App. Camera, Detector and
// Engine are required.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Engine   *game.Engine
	Renderer *render.Renderer
	Display  Display
	Hub      *Hub
	Logger   zerolog.Logger

	// FPS is the active frame rate.
	FPS int
	// IdleFPS is used while the menu is still and empty. 0 disables it.
	IdleFPS int
	// MotionThreshold is the changed-pixel percentage counted as motion.
	MotionThreshold float64

	// Now overrides the clock in tests.
	Now func() time.Time
}

// App owns the game session and drives it one camera frame at a time.
type App struct {
	camera   capture.Camera
	detector detector.Detector
	engine   *game.Engine
	renderer *render.Renderer
	display  Display
	hub      *Hub
	log      zerolog.Logger
	metrics  *metrics
	motion   *capture.MotionDetector
	now      func() time.Time

	activeFPS int
	idleFPS   int

	// Loop state, owned by the Run goroutine.
	sess       game.Session
	fps        FPSMeter
	idle       bool
	lastActive time.Time

	mu      sync.Mutex
	running bool
}

// New creates an App from config.
func New(config Config) (*App, error) {
	if config.Camera == nil {
		return nil, errors.New("app: camera is required")
	}
	if config.Detector == nil {
		return nil, errors.New("app: detector is required")
	}
	if config.Engine == nil {
		return nil, errors.New("app: engine is required")
	}

	m, err := newMetrics()
	if err != nil {
		return nil, fmt.Errorf("app: create metrics: %w", err)
	}

	if config.FPS <= 0 {
		config.FPS = DefaultFPS
	}
	if config.IdleFPS < 0 || config.IdleFPS >= config.FPS {
		config.IdleFPS = 0
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Hub == nil {
		config.Hub = NewHub()
	}
	if config.Renderer == nil {
		config.Renderer = render.New(config.Engine.Layout())
	}

	a := &App{
		camera:    config.Camera,
		detector:  config.Detector,
		engine:    config.Engine,
		renderer:  config.Renderer,
		display:   config.Display,
		hub:       config.Hub,
		log:       config.Logger.With().Str("component", "app").Logger(),
		metrics:   m,
		now:       config.Now,
		activeFPS: config.FPS,
		idleFPS:   config.IdleFPS,
		sess:      game.NewSession(),
	}
	if a.idleFPS > 0 {
		a.motion = capture.NewMotionDetector(config.MotionThreshold)
	}

	a.hub.Publish(a.engine.Snapshot(a.sess, a.now()))
	return a, nil
}

// Hub returns the hub the app publishes to.
func (a *App) Hub() *Hub {
	return a.hub
}

// Engine returns the game engine.
func (a *App) Engine() *game.Engine {
	return a.engine
}

// Session returns a copy of the current session. Only safe once Run has
// returned.
func (a *App) Session() game.Session {
	return a.sess
}
