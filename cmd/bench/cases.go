// README: Bench cases; environment probes, calculator/quote HTTP checks and a concurrent load loop.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
			defer db.Close()
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
		defer r.redis.Close()
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

func (r *Runner) calcPayload(extra map[string]any) map[string]any {
	p := map[string]any{
		"tourId":       r.cfg.TourID,
		"vehicleId":    r.cfg.VehicleID,
		"startDate":    "2026-06-01",
		"endDate":      "2026-06-02",
		"participants": 2,
	}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "dsn not set"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Env: catalog seeded",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "dsn not set"}
				}
				var n int
				if err := r.db.QueryRow(ctx, "SELECT count(*) FROM tours").Scan(&n); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if n == 0 {
					return Result{Status: statusFail, Note: "no tours"}
				}
				return Result{Status: statusPass, Note: fmt.Sprintf("tours=%d", n)}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not set"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		httpCase("API: health", http.MethodGet, base+"/health", nil, 200),
		httpCase("API: tours list", http.MethodGet, base+"/api/tours", nil, 200),
		httpCase("API: currency rates", http.MethodGet, base+"/api/currency/rates", nil, 200),
		httpCase("Calculator: single day JPY", http.MethodPost, base+"/api/calculator", r.calcPayload(nil), 200),
		httpCase("Calculator: star hotel in USD", http.MethodPost, base+"/api/calculator", r.calcPayload(map[string]any{
			"endDate":          "2026-06-04",
			"hotelStars":       4,
			"roomType":         "double",
			"includeBreakfast": true,
			"currency":         "USD",
		}), 200),
		httpCase("Calculator: missing fields -> 400", http.MethodPost, base+"/api/calculator", map[string]any{}, 400),
		httpCase("Calculator: end before start -> 400", http.MethodPost, base+"/api/calculator", r.calcPayload(map[string]any{
			"startDate": "2026-06-05",
			"endDate":   "2026-06-01",
		}), 400),
		httpCase("Calculator: unknown tour -> 404", http.MethodPost, base+"/api/calculator", r.calcPayload(map[string]any{
			"tourId": 987654321,
		}), 404),
		httpCase("Quote: create", http.MethodPost, base+"/api/quotes", r.calcPayload(nil), 201),
		httpCase("Quote: bad id -> 400", http.MethodGet, base+"/api/quotes/not-a-uuid", nil, 400),
		{
			Name: "Perf: calculator load",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.cfg.Duration <= 0 {
					return Result{Status: statusSkip, Note: "duration=0"}
				}
				return perfLoad(ctx, r, base+"/api/calculator", r.calcPayload(nil))
			},
		},
	}
}

func httpCase(name, method, url string, body any, wantStatus int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				b, err := json.Marshal(body)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				reader = bytes.NewReader(b)
			}
			req, err := http.NewRequestWithContext(ctx, method, url, reader)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			latency := time.Since(start)

			note := fmt.Sprintf("status=%d", resp.StatusCode)
			if resp.StatusCode != wantStatus {
				return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("%s want=%d", note, wantStatus)}
			}
			return Result{Status: statusPass, Latency: latency, Note: note}
		},
	}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, err := json.Marshal(payload)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Concurrency; i++ {
		g.Go(func() error {
			for time.Now().Before(end) && gctx.Err() == nil {
				req, err := http.NewRequestWithContext(gctx, http.MethodPost, url, bytes.NewReader(b))
				if err != nil {
					return err
				}
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}

	if count.Load() == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}
