package probe

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/foomo/sitecheck/pkg/metrics"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout     = 5 * time.Second
	DefaultConcurrency = 8
)

// Kind what is being probed, used for logging and metrics only
type Kind string

const (
	KindImage Kind = "image"
	KindLink  Kind = "link"
)

type (
	// Checker issues HEAD requests to find out whether urls resolve. Probes of
	// all concurrent Check calls share one concurrency limit.
	Checker struct {
		l          *zap.Logger
		httpClient *http.Client
		timeout    time.Duration
		sem        *semaphore.Weighted
		limiter    *rate.Limiter
		userAgent  string
	}
	Option func(*Checker)
)

// Result of a single probe
type Result struct {
	URL         string
	StatusCode  int
	ContentType string
	Err         error
	Duration    time.Duration
}

// OK the probe got a 2xx response
func (r Result) OK() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// IsImage the response announced an image content type
func (r Result) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(r.ContentType)), "image/")
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, opts ...Option) *Checker {
	inst := &Checker{
		l:          l.Named("probe"),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		sem:        semaphore.NewWeighted(DefaultConcurrency),
		limiter:    rate.NewLimiter(rate.Inf, 0),
		userAgent:  "sitecheck",
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *Checker) {
		if v != nil {
			o.httpClient = v
		}
	}
}

func WithTimeout(v time.Duration) Option {
	return func(o *Checker) {
		if v > 0 {
			o.timeout = v
		}
	}
}

func WithConcurrency(v int) Option {
	return func(o *Checker) {
		if v > 0 {
			o.sem = semaphore.NewWeighted(int64(v))
		}
	}
}

// WithRateLimit limits the number of probes per second, v <= 0 disables the limit
func WithRateLimit(v float64, burst int) Option {
	return func(o *Checker) {
		if v <= 0 {
			o.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(v), burst)
	}
}

func WithUserAgent(v string) Option {
	return func(o *Checker) {
		o.userAgent = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Check probes every url exactly once. Results are returned in the order of
// urls, failures are reported in Result.Err and never abort other probes.
func (c *Checker) Check(ctx context.Context, kind Kind, urls []string) []Result {
	results := make([]Result, len(urls))
	var g errgroup.Group
	for i, u := range urls {
		g.Go(func() error {
			results[i] = c.probe(ctx, kind, u)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (c *Checker) probe(ctx context.Context, kind Kind, u string) (res Result) {
	res.URL = u
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		outcome := "ok"
		switch {
		case res.Err != nil:
			outcome = "error"
		case !res.OK():
			outcome = strconv.Itoa(res.StatusCode)
		}
		metrics.ProbeCounter.WithLabelValues(string(kind), outcome).Inc()
		metrics.ProbeDuration.WithLabelValues(string(kind)).Observe(res.Duration.Seconds())
	}()

	if err := c.sem.Acquire(ctx, 1); err != nil {
		res.Err = errors.Wrap(err, "probe canceled while waiting")
		return res
	}
	defer c.sem.Release(1)

	if err := c.limiter.Wait(ctx); err != nil {
		res.Err = errors.Wrap(err, "probe canceled by rate limit")
		return res
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, u, nil)
	if err != nil {
		res.Err = errors.Wrap(err, "failed to create probe request")
		return res
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.l.Debug("probe failed", zap.String("kind", string(kind)), zap.String("url", u), zap.Error(err))
		res.Err = errors.Wrap(err, "probe failed")
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	res.ContentType = resp.Header.Get("Content-Type")
	c.l.Debug("probe done",
		zap.String("kind", string(kind)),
		zap.String("url", u),
		zap.Int("status", res.StatusCode),
		zap.String("content_type", res.ContentType),
	)
	return res
}
