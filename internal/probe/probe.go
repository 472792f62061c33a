// Package probe checks that the backend and frontend endpoints answer.
package probe

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTimeout bounds each request.
	DefaultTimeout = 2 * time.Second
	// SnippetLimit is the number of body bytes kept per result.
	SnippetLimit = 200
)

// DefaultTargets are the local backend and frontend addresses on IPv4 and IPv6.
var DefaultTargets = []string{
	"127.0.0.1:4000/api/hello",
	"[::1]:4000/api/hello",
	"127.0.0.1:3001/",
	"[::1]:3001/",
}

// Result is the outcome of probing one target.
type Result struct {
	Target  string        `json:"target"`
	URL     string        `json:"url"`
	Status  int           `json:"status,omitempty"`
	Snippet string        `json:"snippet,omitempty"`
	Err     string        `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// OK reports whether the target answered with a 2xx status.
func (r Result) OK() bool {
	return r.Err == "" && r.Status >= 200 && r.Status < 300
}

// Report is the outcome of one probe run.
type Report struct {
	RunID   string   `json:"run_id"`
	Results []Result `json:"results"`
}

// Failed returns the number of targets that did not answer with 2xx.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.OK() {
			n++
		}
	}
	return n
}

// Prober issues one GET per target. Each target gets a single attempt.
type Prober struct {
	client  *http.Client
	timeout time.Duration
}

// New creates a Prober. A nil client uses a fresh http.Client; a
// non-positive timeout uses DefaultTimeout.
func New(client *http.Client, timeout time.Duration) *Prober {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{client: client, timeout: timeout}
}

// Run probes every target concurrently and returns results in input order.
// Per-target failures are recorded in the result, never returned.
func (p *Prober) Run(ctx context.Context, targets []string) Report {
	report := Report{
		RunID:   uuid.NewString(),
		Results: make([]Result, len(targets)),
	}
	log := zap.L().With(zap.String("component", "probe"), zap.String("run_id", report.RunID))

	g, gctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		g.Go(func() error {
			res := p.probe(gctx, target)
			report.Results[i] = res
			if res.OK() {
				log.Debug("probe: target ok", zap.String("url", res.URL), zap.Int("status", res.Status))
			} else {
				log.Warn("probe: target failed",
					zap.String("url", res.URL),
					zap.Int("status", res.Status),
					zap.String("error", res.Err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func (p *Prober) probe(ctx context.Context, target string) Result {
	res := Result{Target: target, URL: TargetURL(target)}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL, nil)
	if err != nil {
		res.Err = eris.Wrap(err, "probe: build request").Error()
		res.Elapsed = time.Since(start)
		return res
	}

	resp, err := p.client.Do(req)
	if err != nil {
		res.Err = eris.Wrapf(err, "probe: get %s", res.URL).Error()
		res.Elapsed = time.Since(start)
		return res
	}
	defer resp.Body.Close() //nolint:errcheck

	res.Status = resp.StatusCode
	body, err := io.ReadAll(io.LimitReader(resp.Body, SnippetLimit))
	if err != nil {
		res.Err = eris.Wrap(err, "probe: read body").Error()
	}
	res.Snippet = string(body)
	res.Elapsed = time.Since(start)
	return res
}

// TargetURL turns a host:port/path target into an http URL. Targets that
// already carry a scheme are returned unchanged.
func TargetURL(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	if !strings.Contains(target, "/") {
		target += "/"
	}
	return "http://" + target
}
