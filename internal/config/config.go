package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/san-kum/algoviz/internal/playback"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAlgorithm  = "merge"
	DefaultSpeed      = "normal"
	DefaultSlowMs     = 1000
	DefaultNormalMs   = 500
	DefaultFastMs     = 150
	DefaultKnightSize = 5
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultTutorAddr  = "127.0.0.1:8787"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Algorithm   string            `yaml:"algorithm"`
	Speed       string            `yaml:"speed"`
	Playback    PlaybackConfig    `yaml:"playback"`
	Merge       MergeConfig       `yaml:"merge"`
	Knight      KnightConfig      `yaml:"knight"`
	ClosestPair ClosestPairConfig `yaml:"closest_pair"`
	Bubble      BubbleConfig      `yaml:"bubble"`
	Log         LogConfig         `yaml:"log"`
	Tutor       TutorConfig       `yaml:"tutor"`
}

type PlaybackConfig struct {
	SlowMs   int `yaml:"slow_ms"`
	NormalMs int `yaml:"normal_ms"`
	FastMs   int `yaml:"fast_ms"`
}

type MergeConfig struct {
	Sizes []int `yaml:"sizes"`
}

type KnightConfig struct {
	Size     int `yaml:"size"`
	StartRow int `yaml:"start_row"`
	StartCol int `yaml:"start_col"`
	MaxSteps int `yaml:"max_steps"`
}

type PointConfig struct {
	Label string  `yaml:"label"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

type ClosestPairConfig struct {
	Points []PointConfig `yaml:"points"`
}

type BubbleConfig struct {
	Values []int `yaml:"values"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TutorConfig struct {
	Addr     string `yaml:"addr"`
	Endpoint string `yaml:"endpoint"`
}

func DefaultConfig() *Config {
	return &Config{
		Algorithm: DefaultAlgorithm,
		Speed:     DefaultSpeed,
		Playback: PlaybackConfig{
			SlowMs:   DefaultSlowMs,
			NormalMs: DefaultNormalMs,
			FastMs:   DefaultFastMs,
		},
		Merge:  MergeConfig{Sizes: []int{20, 30, 10, 5, 30}},
		Knight: KnightConfig{Size: DefaultKnightSize},
		ClosestPair: ClosestPairConfig{Points: []PointConfig{
			{Label: "A", X: 20, Y: 30},
			{Label: "B", X: 80, Y: 20},
			{Label: "C", X: 50, Y: 50},
			{Label: "D", X: 30, Y: 70},
			{Label: "E", X: 60, Y: 80},
			{Label: "F", X: 75, Y: 60},
			{Label: "G", X: 25, Y: 35},
		}},
		Bubble: BubbleConfig{Values: []int{50, 30, 40, 10, 20}},
		Log:    LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Tutor:  TutorConfig{Addr: DefaultTutorAddr},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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

// Validate checks the fields shared by every algorithm. Algorithm inputs
// are validated by the generators themselves.
func (c *Config) Validate() error {
	if _, err := playback.ParseSpeed(c.Speed); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	p := c.Playback
	if p.SlowMs <= 0 || p.NormalMs <= 0 || p.FastMs <= 0 {
		return fmt.Errorf("%w: playback delays must be positive", ErrInvalid)
	}
	if c.Knight.MaxSteps < 0 {
		return fmt.Errorf("%w: knight max_steps must not be negative", ErrInvalid)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

func (c *Config) Delays() playback.Delays {
	return playback.Delays{
		Slow:   time.Duration(c.Playback.SlowMs) * time.Millisecond,
		Normal: time.Duration(c.Playback.NormalMs) * time.Millisecond,
		Fast:   time.Duration(c.Playback.FastMs) * time.Millisecond,
	}
}

// PlaybackSpeed returns the configured speed, falling back to normal.
func (c *Config) PlaybackSpeed() playback.Speed {
	s, err := playback.ParseSpeed(c.Speed)
	if err != nil {
		return playback.Normal
	}
	return s
}
