// README: Smoke and load runner against a deployed API; checks Postgres, Redis and the calculator endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	results := NewRunner(cfg).RunAll(ctx)

	fmt.Println("\n== Summary ==")
	counts := map[string]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", counts[statusPass], counts[statusFail], counts[statusSkip])

	if counts[statusFail] > 0 {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL     string
	DSN         string
	RedisAddr   string
	TourID      int64
	VehicleID   int64
	Timeout     time.Duration
	Concurrency int
	Duration    time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("TOURQUOTE_BENCH_BASE_URL", "http://localhost:8080"), "API base URL")
	flag.StringVar(&cfg.DSN, "dsn", envOrDefault("TOURQUOTE_DB_DSN", ""), "Postgres DSN (empty skips DB checks)")
	flag.StringVar(&cfg.RedisAddr, "redis", envOrDefault("TOURQUOTE_REDIS_ADDR", ""), "Redis address (empty skips Redis checks)")
	flag.Int64Var(&cfg.TourID, "tour", int64(envOrDefaultInt("TOURQUOTE_BENCH_TOUR", 1)), "Tour id used in calculator cases")
	flag.Int64Var(&cfg.VehicleID, "vehicle", int64(envOrDefaultInt("TOURQUOTE_BENCH_VEHICLE", 1)), "Vehicle id used in calculator cases")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("TOURQUOTE_BENCH_TIMEOUT", 60*time.Second), "Total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", envOrDefaultInt("TOURQUOTE_BENCH_CONCURRENCY", 10), "Concurrency for the load case")
	flag.DurationVar(&cfg.Duration, "duration", envOrDefaultDuration("TOURQUOTE_BENCH_DURATION", 0), "Duration of the load case (0 skips it)")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		if n > 0 {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
