package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/crops/errors"
	"github.com/wippyai/crops/host"
)

// Config is the crops.toml file.
type Config struct {
	Runtime RuntimeConfig `toml:"runtime"`
	Debug   DebugConfig   `toml:"debug"`
	Log     LogConfig     `toml:"log"`
	Guest   GuestConfig   `toml:"guest"`
}

// RuntimeConfig configures the wazero runtime and the host module.
type RuntimeConfig struct {
	// MemoryLimitPages caps each guest memory in 64KiB pages. 0 keeps the
	// wazero default.
	MemoryLimitPages uint32 `toml:"memory_limit_pages"`
	// MaxHandles caps live handles. 0 is unlimited.
	MaxHandles     int  `toml:"max_handles"`
	SerializeCalls bool `toml:"serialize_calls"`
}

// DebugConfig selects where *_debug output goes: stdout, stderr or discard.
type DebugConfig struct {
	Output string `toml:"output"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// GuestConfig shapes the shim used by demo and the interactive console.
type GuestConfig struct {
	MemoryPages uint32 `toml:"memory_pages"`
	HeapBase    uint32 `toml:"heap_base"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Debug: DebugConfig{Output: "stdout"},
		Log:   LogConfig{Level: "info"},
		Guest: GuestConfig{MemoryPages: 1, HeapBase: 1024},
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "load "+path)
	}
	return finish(cfg, meta)
}

// Parse decodes TOML text over the defaults.
func Parse(text string) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse")
	}
	return finish(cfg, meta)
}

func finish(cfg Config, meta toml.MetaData) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.InvalidInput(errors.PhaseConfig, "unknown keys: "+strings.Join(keys, ", "))
	}
	cfg.Debug.Output = strings.ToLower(strings.TrimSpace(cfg.Debug.Output))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Debug.Output {
	case "stdout", "stderr", "discard":
	default:
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("debug.output %q: want stdout, stderr or discard", c.Debug.Output))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log.level")
	}
	if c.Runtime.MaxHandles < 0 {
		return errors.InvalidInput(errors.PhaseConfig, "runtime.max_handles must not be negative")
	}
	if c.Guest.MemoryPages == 0 {
		return errors.InvalidInput(errors.PhaseConfig, "guest.memory_pages must be at least 1")
	}
	if c.Runtime.MemoryLimitPages > 0 && c.Guest.MemoryPages > c.Runtime.MemoryLimitPages {
		return errors.InvalidInput(errors.PhaseConfig, "guest.memory_pages exceeds runtime.memory_limit_pages")
	}
	if uint64(c.Guest.HeapBase) >= uint64(c.Guest.MemoryPages)*65536 {
		return errors.InvalidInput(errors.PhaseConfig, "guest.heap_base lies outside guest memory")
	}
	if c.Guest.HeapBase == 0 {
		return errors.InvalidInput(errors.PhaseConfig, "guest.heap_base must not be 0")
	}
	return nil
}

// DebugWriter resolves Debug.Output.
func (c Config) DebugWriter() io.Writer {
	switch c.Debug.Output {
	case "stderr":
		return os.Stderr
	case "discard":
		return io.Discard
	default:
		return os.Stdout
	}
}

// HostOptions maps the configuration onto host options.
func (c Config) HostOptions() host.Options {
	return host.Options{
		Debug:      c.DebugWriter(),
		MaxHandles: c.Runtime.MaxHandles,
		Serialize:  c.Runtime.SerializeCalls,
	}
}

// Logger builds the zap logger described by Log.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log.level")
	}
	var zc zap.Config
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
