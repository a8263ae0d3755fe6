// Package config loads arrange's TOML configuration. There is no global
// configuration: the loaded Config is passed to whatever needs it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mj1618/arrange/internal/arrange"
	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/replay"
	"github.com/mj1618/arrange/internal/resize"
	"github.com/mj1618/arrange/internal/rewrite"
)

// APIKeyEnv overrides the stored rewriter credential.
const APIKeyEnv = "ARRANGE_API_KEY"

type Config struct {
	Gutter          float64 `toml:"gutter"`
	ColumnMinRatio  float64 `toml:"column_min_ratio"`
	SlotMinRatio    float64 `toml:"slot_min_ratio"`
	HistoryCapacity int     `toml:"history_capacity"`
	ClampTolerance  int     `toml:"clamp_tolerance"`

	Replay   Replay   `toml:"replay"`
	Rewriter Rewriter `toml:"rewriter"`
	Store    Store    `toml:"store"`
	Log      Log      `toml:"log"`
}

type Replay struct {
	LaunchSettleSeconds float64 `toml:"launch_settle_seconds"`
	IdleSettleSeconds   float64 `toml:"idle_settle_seconds"`
}

type Rewriter struct {
	Endpoint       string  `toml:"endpoint"`
	Model          string  `toml:"model"`
	MaxTokens      int     `toml:"max_tokens"`
	TimeoutSeconds float64 `toml:"timeout_seconds"`
}

type Store struct {
	// Backend is "file" or "redis".
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	RedisKey  string `toml:"redis_key"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Gutter:          layout.DefaultGutter,
		ColumnMinRatio:  resize.DefaultColumnMinRatio,
		SlotMinRatio:    resize.DefaultSlotMinRatio,
		HistoryCapacity: 50,
		ClampTolerance:  1,
		Replay: Replay{
			LaunchSettleSeconds: 3.0,
			IdleSettleSeconds:   0.2,
		},
		Rewriter: Rewriter{
			Endpoint:       rewrite.DefaultEndpoint,
			Model:          rewrite.DefaultModel,
			MaxTokens:      rewrite.DefaultMaxTokens,
			TimeoutSeconds: rewrite.DefaultTimeout.Seconds(),
		},
		Store: Store{
			Backend:   "file",
			RedisAddr: "localhost:6379",
			RedisKey:  "arrange:layouts",
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath returns ~/.config/arrange/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "arrange", "config.toml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults;
// unknown keys are an error so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges.
func (c Config) Validate() error {
	if c.Gutter <= 0 {
		return fmt.Errorf("gutter must be positive, got %v", c.Gutter)
	}
	if c.ColumnMinRatio <= 0 || c.ColumnMinRatio >= 0.5 {
		return fmt.Errorf("column_min_ratio must be in (0, 0.5), got %v", c.ColumnMinRatio)
	}
	if c.SlotMinRatio <= 0 || c.SlotMinRatio >= 0.5 {
		return fmt.Errorf("slot_min_ratio must be in (0, 0.5), got %v", c.SlotMinRatio)
	}
	if c.HistoryCapacity <= 0 {
		return fmt.Errorf("history_capacity must be positive, got %d", c.HistoryCapacity)
	}
	if c.ClampTolerance < 0 {
		return fmt.Errorf("clamp_tolerance must not be negative, got %d", c.ClampTolerance)
	}
	if c.Replay.LaunchSettleSeconds < 0 || c.Replay.IdleSettleSeconds < 0 {
		return fmt.Errorf("replay settle delays must not be negative")
	}
	switch c.Store.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("store backend must be file or redis, got %q", c.Store.Backend)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// ReplayPolicy converts the replay delays.
func (c Config) ReplayPolicy() replay.Policy {
	return replay.Policy{
		LaunchSettle: seconds(c.Replay.LaunchSettleSeconds),
		IdleSettle:   seconds(c.Replay.IdleSettleSeconds),
	}
}

// SessionOptions builds session options from the configuration. The caller
// adds the logger, layout store and API key.
func (c Config) SessionOptions() arrange.Options {
	tolerance := c.ClampTolerance
	policy := c.ReplayPolicy()
	return arrange.Options{
		Gutter:          c.Gutter,
		Limits:          resize.Limits{ColumnMinRatio: c.ColumnMinRatio, SlotMinRatio: c.SlotMinRatio},
		HistoryCapacity: c.HistoryCapacity,
		ClampTolerance:  &tolerance,
		Replay:          &policy,
	}
}

// RewriteConfig builds the rewriter client configuration.
func (c Config) RewriteConfig(apiKey string) rewrite.Config {
	return rewrite.Config{
		Endpoint:  c.Rewriter.Endpoint,
		Model:     c.Rewriter.Model,
		MaxTokens: c.Rewriter.MaxTokens,
		Timeout:   seconds(c.Rewriter.TimeoutSeconds),
		APIKey:    apiKey,
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
