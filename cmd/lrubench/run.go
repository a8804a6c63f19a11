package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/lrucache/cache"
	"github.com/IvanBrykalov/lrucache/internal/config"
	"github.com/IvanBrykalov/lrucache/internal/logging"
	"github.com/IvanBrykalov/lrucache/internal/workload"
	pmet "github.com/IvanBrykalov/lrucache/metrics/prom"
)

const shutdownTimeout = 5 * time.Second

// run builds the cache, starts the optional metrics server and drives the
// workload. The workload goroutine is the cache's only user; the HTTP
// server only reads Prometheus collectors.
func run(ctx context.Context, cfg config.Config, out io.Writer) error {
	lc := cfg.LoggingConfig()
	lc.Out = out
	log := logging.New(lc)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := pmet.New(reg, "lru", "bench", nil)

	var evictions uint64
	c, err := cache.NewChecked(cache.Options[string, string]{
		Capacity: cfg.Capacity,
		Metrics:  metrics,
		OnEvict:  func(string, string) { evictions++ },
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	var srv *http.Server
	if cfg.MetricsAddr != "" {
		ln, err := net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.MetricsAddr, err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		log.Info().Str("addr", ln.Addr().String()).Msg("metrics: serving /metrics")
		g.Go(func() error {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		if srv != nil {
			defer shutdown(srv, log)
		}

		wc := cfg.RunConfig()
		log.Info().
			Int("capacity", c.Cap()).
			Uint64("keys", wc.Keys).
			Int("reads_pct", wc.ReadPct).
			Int("ops", wc.Ops).
			Int64("seed", wc.Seed).
			Msg("workload starting")

		res, err := workload.Run(gctx, c, wc, log)
		report(log, res, c.Len(), evictions)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, context.Canceled) && ctx.Err() != nil:
			// Interrupted by the caller (e.g. SIGINT): the partial report stands.
			log.Warn().Int("ops_requested", wc.Ops).Msg("workload interrupted")
			return nil
		default:
			return fmt.Errorf("workload: %w", err)
		}
	})

	return g.Wait()
}

func shutdown(srv *http.Server, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("metrics: shutdown")
	}
}

func report(log zerolog.Logger, res workload.Result, size int, evictions uint64) {
	opsPerSec := 0.0
	if s := res.Elapsed.Seconds(); s > 0 {
		opsPerSec = float64(res.Ops()) / s
	}
	log.Info().
		Uint64("ops", res.Ops()).
		Float64("ops_per_sec", opsPerSec).
		Uint64("reads", res.Reads).
		Uint64("writes", res.Writes).
		Uint64("hits", res.Hits).
		Uint64("misses", res.Misses).
		Float64("hit_rate_pct", res.HitRate()).
		Uint64("evictions", evictions).
		Int("len", size).
		Dur("elapsed", res.Elapsed).
		Msg("workload done")
}
