// Package config loads runtime settings from an optional JSON file and
// RPS_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RPS_"

// Score backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level" env:"LEVEL"`
	Pretty bool   `json:"pretty" mapstructure:"pretty" env:"PRETTY"`
}

// CameraConfig selects and sizes the capture device.
type CameraConfig struct {
	Device int  `json:"device" mapstructure:"device" env:"DEVICE"`
	Width  int  `json:"width" mapstructure:"width" env:"WIDTH"`
	Height int  `json:"height" mapstructure:"height" env:"HEIGHT"`
	FPS    int  `json:"fps" mapstructure:"fps" env:"FPS"`
	Mirror bool `json:"mirror" mapstructure:"mirror" env:"MIRROR"`
	// IdleFPS is used on the menu while nothing moves. 0 disables throttling.
	IdleFPS int `json:"idleFps" mapstructure:"idleFps" env:"IDLE_FPS"`
	// MotionThreshold is the percentage of changed pixels counted as motion.
	MotionThreshold float64 `json:"motionThreshold" mapstructure:"motionThreshold" env:"MOTION_THRESHOLD"`
}

// DetectorConfig tunes the hand landmark model.
type DetectorConfig struct {
	MaxHands        int     `json:"maxHands" mapstructure:"maxHands" env:"MAX_HANDS"`
	MinConfidence   float64 `json:"minConfidence" mapstructure:"minConfidence" env:"MIN_CONFIDENCE"`
	MinTrackingConf float64 `json:"minTrackingConfidence" mapstructure:"minTrackingConfidence" env:"MIN_TRACKING_CONFIDENCE"`
	// Mock uses the scripted detector instead of MediaPipe.
	Mock bool `json:"mock" mapstructure:"mock" env:"MOCK"`
}

// ScoreConfig selects where the score record lives.
type ScoreConfig struct {
	Backend  string `json:"backend" mapstructure:"backend" env:"BACKEND"`
	JSONPath string `json:"jsonPath" mapstructure:"jsonPath" env:"JSON_PATH"`
	DBPath   string `json:"dbPath" mapstructure:"dbPath" env:"DB_PATH"`
}

// ServerConfig controls the local HTTP API.
type ServerConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled" env:"ENABLED"`
	Addr    string `json:"addr" mapstructure:"addr" env:"ADDR"`
}

// WindowConfig controls the on-screen preview window.
type WindowConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled" env:"ENABLED"`
	Title   string `json:"title" mapstructure:"title" env:"TITLE"`
}

// TrayConfig controls the system tray icon.
type TrayConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled" env:"ENABLED"`
}

// Config is the full runtime configuration.
type Config struct {
	Log      LogConfig      `json:"log" mapstructure:"log" envPrefix:"LOG_"`
	Camera   CameraConfig   `json:"camera" mapstructure:"camera" envPrefix:"CAMERA_"`
	Detector DetectorConfig `json:"detector" mapstructure:"detector" envPrefix:"DETECTOR_"`
	Score    ScoreConfig    `json:"score" mapstructure:"score" envPrefix:"SCORE_"`
	Server   ServerConfig   `json:"server" mapstructure:"server" envPrefix:"SERVER_"`
	Window   WindowConfig   `json:"window" mapstructure:"window" envPrefix:"WINDOW_"`
	Tray     TrayConfig     `json:"tray" mapstructure:"tray" envPrefix:"TRAY_"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: "info", Pretty: true},
		Camera: CameraConfig{
			Device:          0,
			Width:           1280,
			Height:          720,
			FPS:             30,
			Mirror:          true,
			IdleFPS:         5,
			MotionThreshold: 1.0,
		},
		Detector: DetectorConfig{
			MaxHands:        1,
			MinConfidence:   0.5,
			MinTrackingConf: 0.3,
		},
		Score: ScoreConfig{
			Backend:  BackendJSON,
			JSONPath: "rps_stats.json",
			DBPath:   "rpsworld.db",
		},
		Server: ServerConfig{Enabled: false, Addr: "127.0.0.1:8080"},
		Window: WindowConfig{Enabled: true, Title: "Rock Paper Scissors World"},
		Tray:   TrayConfig{Enabled: false},
	}
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)

	v.SetDefault("camera.device", d.Camera.Device)
	v.SetDefault("camera.width", d.Camera.Width)
	v.SetDefault("camera.height", d.Camera.Height)
	v.SetDefault("camera.fps", d.Camera.FPS)
	v.SetDefault("camera.mirror", d.Camera.Mirror)
	v.SetDefault("camera.idleFps", d.Camera.IdleFPS)
	v.SetDefault("camera.motionThreshold", d.Camera.MotionThreshold)

	v.SetDefault("detector.maxHands", d.Detector.MaxHands)
	v.SetDefault("detector.minConfidence", d.Detector.MinConfidence)
	v.SetDefault("detector.minTrackingConfidence", d.Detector.MinTrackingConf)
	v.SetDefault("detector.mock", d.Detector.Mock)

	v.SetDefault("score.backend", d.Score.Backend)
	v.SetDefault("score.jsonPath", d.Score.JSONPath)
	v.SetDefault("score.dbPath", d.Score.DBPath)

	v.SetDefault("server.enabled", d.Server.Enabled)
	v.SetDefault("server.addr", d.Server.Addr)

	v.SetDefault("window.enabled", d.Window.Enabled)
	v.SetDefault("window.title", d.Window.Title)

	v.SetDefault("tray.enabled", d.Tray.Enabled)
}

// Load builds the configuration from defaults, then the JSON file at path
// (skipped when path is empty), then environment variables.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		errs = append(errs, fmt.Errorf("camera size %dx%d must be positive", c.Camera.Width, c.Camera.Height))
	}
	if c.Camera.FPS <= 0 {
		errs = append(errs, fmt.Errorf("camera fps %d must be positive", c.Camera.FPS))
	}
	if c.Camera.IdleFPS < 0 || c.Camera.IdleFPS > c.Camera.FPS {
		errs = append(errs, fmt.Errorf("camera idle fps %d must be between 0 and %d", c.Camera.IdleFPS, c.Camera.FPS))
	}
	if c.Detector.MaxHands < 1 {
		errs = append(errs, fmt.Errorf("detector max hands %d must be at least 1", c.Detector.MaxHands))
	}
	switch c.Score.Backend {
	case BackendJSON:
		if c.Score.JSONPath == "" {
			errs = append(errs, errors.New("score json path is empty"))
		}
	case BackendSQLite:
		if c.Score.DBPath == "" {
			errs = append(errs, errors.New("score db path is empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown score backend %q", c.Score.Backend))
	}
	if c.Server.Enabled && c.Server.Addr == "" {
		errs = append(errs, errors.New("server address is empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
