package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth           = 800.0
	DefaultHeight          = 600.0
	DefaultStepRate        = 60
	DefaultFrameRate       = 30
	DefaultTimeScale       = 0.3
	DefaultPixelsPerMeter  = 30.0
	DefaultForceConversion = 10.0
	DefaultDataDir         = "./runs"
	DefaultAddr            = ":8080"
	DefaultTelemetryRate   = 20.0
	DefaultDuration        = 10.0
)

type Config struct {
	Canvas          CanvasConfig `yaml:"canvas"`
	StepRate        int          `yaml:"step_rate"`
	FrameRate       int          `yaml:"frame_rate"`
	TimeScale       float64      `yaml:"time_scale"`
	PixelsPerMeter  float64      `yaml:"pixels_per_meter"`
	ForceConversion float64      `yaml:"force_conversion"`
	Primary         string       `yaml:"primary"`
	Duration        float64      `yaml:"duration"`
	DataDir         string       `yaml:"data_dir"`
	Server          ServerConfig `yaml:"server"`
}

type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`

	// TelemetryRate caps websocket telemetry messages per second.
	TelemetryRate float64 `yaml:"telemetry_rate"`
}

func DefaultConfig() *Config {
	return &Config{
		Canvas:          CanvasConfig{Width: DefaultWidth, Height: DefaultHeight},
		StepRate:        DefaultStepRate,
		FrameRate:       DefaultFrameRate,
		TimeScale:       DefaultTimeScale,
		PixelsPerMeter:  DefaultPixelsPerMeter,
		ForceConversion: DefaultForceConversion,
		Duration:        DefaultDuration,
		DataDir:         DefaultDataDir,
		Server: ServerConfig{
			Addr:          DefaultAddr,
			TelemetryRate: DefaultTelemetryRate,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas must be positive, got %gx%g", c.Canvas.Width, c.Canvas.Height)
	}
	if c.StepRate <= 0 {
		return fmt.Errorf("step_rate must be positive, got %d", c.StepRate)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame_rate must be positive, got %d", c.FrameRate)
	}
	if c.PixelsPerMeter <= 0 {
		return fmt.Errorf("pixels_per_meter must be positive, got %g", c.PixelsPerMeter)
	}
	return nil
}

func (c *Config) StepInterval() time.Duration {
	return time.Second / time.Duration(max(c.StepRate, 1))
}

func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(max(c.FrameRate, 1))
}
