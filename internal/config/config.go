// Package config loads lrubench settings from defaults, an optional config
// file, LRUBENCH_* environment variables and command-line flags (in
// increasing precedence), using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/IvanBrykalov/lrucache/cache"
	"github.com/IvanBrykalov/lrucache/internal/logging"
	"github.com/IvanBrykalov/lrucache/internal/workload"
)

// EnvPrefix is the environment variable prefix, e.g. LRUBENCH_CAPACITY.
const EnvPrefix = "LRUBENCH"

// Config is the full lrubench configuration.
type Config struct {
	Capacity    int            `mapstructure:"capacity"`
	MetricsAddr string         `mapstructure:"metrics_addr"`
	Workload    WorkloadConfig `mapstructure:"workload"`
	Log         LogConfig      `mapstructure:"log"`
}

// WorkloadConfig mirrors workload.Config.
type WorkloadConfig struct {
	Keys    uint64  `mapstructure:"keys"`
	Reads   int     `mapstructure:"reads"`
	ZipfS   float64 `mapstructure:"zipf_s"`
	ZipfV   float64 `mapstructure:"zipf_v"`
	Seed    int64   `mapstructure:"seed"`
	Ops     int     `mapstructure:"ops"`
	Preload int     `mapstructure:"preload"`
}

// LogConfig selects the zerolog level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the built-in configuration.
// Preload 0 is replaced by capacity/2 in Load.
func Default() Config {
	return Config{
		Capacity:    100_000,
		MetricsAddr: "",
		Workload: WorkloadConfig{
			Keys:  1_000_000,
			Reads: 80,
			ZipfS: 1.1,
			ZipfV: 1.0,
			Seed:  1,
			Ops:   5_000_000,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// New returns a viper instance with defaults and environment lookup set up.
// Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("capacity", d.Capacity)
	v.SetDefault("metrics_addr", d.MetricsAddr)
	v.SetDefault("workload.keys", d.Workload.Keys)
	v.SetDefault("workload.reads", d.Workload.Reads)
	v.SetDefault("workload.zipf_s", d.Workload.ZipfS)
	v.SetDefault("workload.zipf_v", d.Workload.ZipfV)
	v.SetDefault("workload.seed", d.Workload.Seed)
	v.SetDefault("workload.ops", d.Workload.Ops)
	v.SetDefault("workload.preload", d.Workload.Preload)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	return v
}

// Load reads file (if non-empty), unmarshals v and validates the result.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Workload.Preload == 0 {
		cfg.Workload.Preload = cfg.Capacity / 2
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Capacity < 1 || c.Capacity > cache.MaxCapacity {
		return fmt.Errorf("%w: got %d", cache.ErrInvalidCapacity, c.Capacity)
	}
	if err := c.RunConfig().Validate(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	return nil
}

// RunConfig converts the workload section for workload.Run.
func (c Config) RunConfig() workload.Config {
	return workload.Config{
		Keys:    c.Workload.Keys,
		ReadPct: c.Workload.Reads,
		ZipfS:   c.Workload.ZipfS,
		ZipfV:   c.Workload.ZipfV,
		Seed:    c.Workload.Seed,
		Ops:     c.Workload.Ops,
		Preload: c.Workload.Preload,
	}
}

// LoggingConfig converts the log section for logging.New.
// Call it only on a validated Config.
func (c Config) LoggingConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level, _ = logging.ParseLevel(c.Log.Level)
	lc.Format = c.Log.Format
	return lc
}
