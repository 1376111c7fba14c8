package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/foomo/sitecheck/pkg/metrics"
	"github.com/foomo/sitecheck/pkg/repo"
	"github.com/foomo/sitecheck/pkg/validator"
)

const DefaultInterval = 5 * time.Minute

var (
	ErrValidationInProgress = errors.New("validation already in progress")
	ErrNoSnapshot           = errors.New("no bundle loaded yet")
)

type (
	// Source provides the snapshot to validate
	Source interface {
		Snapshot() *repo.Snapshot
	}
	// Validator runs a full validation pass
	Validator interface {
		Validate(ctx context.Context, raw interface{}) validator.Result
	}
	// Monitor validates the current snapshot periodically and on demand and
	// keeps the latest result. Only one validation runs at a time.
	Monitor struct {
		l         *zap.Logger
		source    Source
		validator Validator
		interval  time.Duration
		running   atomic.Bool
		last      atomic.Pointer[validator.Result]
	}
	Option func(*Monitor)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, source Source, v Validator, opts ...Option) *Monitor {
	inst := &Monitor{
		l:         l.Named("monitor"),
		source:    source,
		validator: v,
		interval:  DefaultInterval,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithInterval(v time.Duration) Option {
	return func(o *Monitor) {
		if v > 0 {
			o.interval = v
		}
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

// Last result, nil before the first run
func (m *Monitor) Last() *validator.Result {
	return m.last.Load()
}

func (m *Monitor) Running() bool {
	return m.running.Load()
}

func (m *Monitor) HealthScore() int {
	return validator.HealthScore(m.Last())
}

func (m *Monitor) Status() validator.Status {
	return validator.StatusOf(m.Last())
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Run validates the current snapshot. Calls made while a run is in flight
// return ErrValidationInProgress.
func (m *Monitor) Run(ctx context.Context) (*validator.Result, error) {
	if !m.running.CompareAndSwap(false, true) {
		return nil, ErrValidationInProgress
	}
	defer m.running.Store(false)

	s := m.source.Snapshot()
	if s == nil {
		return nil, ErrNoSnapshot
	}

	start := time.Now()
	res := m.validator.Validate(ctx, s.Raw)
	m.last.Store(&res)

	status := validator.StatusOf(&res)
	score := validator.HealthScore(&res)
	metrics.ValidationRunCounter.WithLabelValues(string(status)).Inc()
	metrics.ValidationIssuesGauge.WithLabelValues("error").Set(float64(len(res.Errors)))
	metrics.ValidationIssuesGauge.WithLabelValues("warning").Set(float64(len(res.Warnings)))
	metrics.ValidationHealthScoreGauge.WithLabelValues().Set(float64(score))

	m.l.Info("validation done",
		zap.String("status", string(status)),
		zap.Int("health_score", score),
		zap.Int("errors", len(res.Errors)),
		zap.Int("warnings", len(res.Warnings)),
		zap.Duration("duration", time.Since(start)),
	)
	return &res, nil
}

// Trigger runs a validation in the background, it is a no-op while a run is
// in flight
func (m *Monitor) Trigger(ctx context.Context) {
	go func() {
		if _, err := m.Run(ctx); err != nil {
			m.l.Debug("triggered validation skipped", zap.Error(err))
		}
	}()
}

// Start validates on every interval until ctx is done
func (m *Monitor) Start(ctx context.Context) error {
	l := m.l.Named("routine")
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			if _, err := m.Run(ctx); errors.Is(err, ErrValidationInProgress) {
				l.Debug("skipping validation, previous run still in progress")
			} else if err != nil {
				l.Warn("validation skipped", zap.Error(err))
			}
		}
	}
}
