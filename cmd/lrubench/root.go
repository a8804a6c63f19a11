package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IvanBrykalov/lrucache/internal/config"
)

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"capacity":     "capacity",
	"metrics-addr": "metrics_addr",
	"keys":         "workload.keys",
	"reads":        "workload.reads",
	"zipf-s":       "workload.zipf_s",
	"zipf-v":       "workload.zipf_v",
	"seed":         "workload.seed",
	"ops":          "workload.ops",
	"preload":      "workload.preload",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "lrubench",
		Short: "Drive a Zipf read/write workload through the LRU cache",
		Long: `lrubench preloads an LRU cache, replays a skewed (Zipf) mix of reads and
writes from a single goroutine and reports hits, misses and throughput.

Settings come from flags, LRUBENCH_* environment variables (for example
LRUBENCH_WORKLOAD_READS=90) and an optional TOML/YAML/JSON file given with
--config. With --metrics-addr set, Prometheus metrics are served on
/metrics for the duration of the run.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.ErrOrStderr())
		},
	}

	d := config.Default()
	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "config file (toml, yaml or json)")
	f.Int("capacity", d.Capacity, "cache capacity (entries)")
	f.String("metrics-addr", d.MetricsAddr, "serve Prometheus metrics at addr (e.g. :8080); empty = disabled")
	f.Uint64("keys", d.Workload.Keys, "keyspace size")
	f.Int("reads", d.Workload.Reads, "read percentage [0..100]")
	f.Float64("zipf-s", d.Workload.ZipfS, "Zipf s > 1 (skew)")
	f.Float64("zipf-v", d.Workload.ZipfV, "Zipf v >= 1")
	f.Int64("seed", d.Workload.Seed, "random seed")
	f.Int("ops", d.Workload.Ops, "operations to run after preload (0 = until interrupted)")
	f.Int("preload", d.Workload.Preload, "entries written before measuring (0 = capacity/2)")
	f.String("log-level", d.Log.Level, "log level: trace|debug|info|warn|error")
	f.String("log-format", d.Log.Format, "log format: console|json")

	bindFlags(v, cmd)
	return cmd
}

// bindFlags lets explicitly set flags override file and environment values.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			// Only possible with a nil flag, i.e. a typo in flagKeys.
			panic(err)
		}
	}
}
