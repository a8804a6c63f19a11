// Package workload drives a synthetic Zipf-distributed read/write mix
// against a cache.Cache and reports hit statistics.
package workload

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/IvanBrykalov/lrucache/cache"
)

// Config describes one workload run.
type Config struct {
	Keys    uint64  // keyspace size
	ReadPct int     // read percentage [0..100]
	ZipfS   float64 // Zipf s > 1 (skew)
	ZipfV   float64 // Zipf v >= 1
	Seed    int64
	Ops     int // operations after preload; 0 = run until ctx is done
	Preload int // entries written before measuring
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Keys == 0:
		return errors.New("workload: keys must be > 0")
	case c.ReadPct < 0 || c.ReadPct > 100:
		return fmt.Errorf("workload: reads must be in [0,100], got %d", c.ReadPct)
	case c.ZipfS <= 1:
		return fmt.Errorf("workload: zipf s must be > 1, got %v", c.ZipfS)
	case c.ZipfV < 1:
		return fmt.Errorf("workload: zipf v must be >= 1, got %v", c.ZipfV)
	case c.Ops < 0 || c.Preload < 0:
		return errors.New("workload: ops and preload must be >= 0")
	}
	return nil
}

// Result holds counters for the measured part of a run.
type Result struct {
	Reads   uint64
	Writes  uint64
	Hits    uint64
	Misses  uint64
	Elapsed time.Duration
}

// Ops returns the number of measured operations.
func (r Result) Ops() uint64 { return r.Reads + r.Writes }

// HitRate returns hits/reads in percent, or 0 when there were no reads.
func (r Result) HitRate() float64 {
	if r.Reads == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Reads) * 100
}

// checkEvery bounds how often Run polls ctx when Ops == 0.
const checkEvery = 1024

// Run preloads c and then issues cfg.Ops operations from the calling
// goroutine, which must be the cache's only user for the duration.
// A cancelled ctx stops the run early; the partial Result is returned with
// ctx.Err() only when Ops > 0 (an open-ended run is expected to be stopped).
func Run(ctx context.Context, c *cache.Cache[string, string], cfg Config, log zerolog.Logger) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	for i := 0; i < cfg.Preload; i++ {
		c.Put(Key(uint64(i)), "v"+strconv.Itoa(i))
	}
	log.Debug().Int("preload", cfg.Preload).Int("len", c.Len()).Msg("preload done")

	r := rand.New(rand.NewSource(cfg.Seed))
	zipf := rand.NewZipf(r, cfg.ZipfS, cfg.ZipfV, cfg.Keys-1)

	var res Result
	start := time.Now()

	for i := 0; cfg.Ops == 0 || i < cfg.Ops; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				res.Elapsed = time.Since(start)
				if cfg.Ops == 0 {
					return res, nil
				}
				return res, err
			}
		}

		k := Key(zipf.Uint64())
		if r.Intn(100) < cfg.ReadPct {
			res.Reads++
			if _, ok := c.Get(k); ok {
				res.Hits++
			} else {
				res.Misses++
			}
			continue
		}
		res.Writes++
		c.Put(k, "v"+strconv.Itoa(r.Int()))
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

// Key formats the i-th key of the keyspace.
func Key(i uint64) string { return "k:" + strconv.FormatUint(i, 10) }
