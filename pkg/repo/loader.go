package repo

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/foomo/sitecheck/pkg/metrics"
)

var ErrUpdateRejected = errors.New("update rejected: update in progress")

type updateResponse struct {
	repoRuntime int64
	err         error
}

func (r *Repo) PollRoutine(ctx context.Context) error {
	l := r.l.Named("routine.poll")
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			chanResponse := make(chan updateResponse)
			select {
			case r.updateInProgressChannel <- chanResponse:
			case <-ctx.Done():
				return nil
			}
			if response := <-chanResponse; response.err != nil {
				l.Error("update failed", zap.Error(response.err))
			} else {
				l.Debug("update success")
			}
		}
	}
}

func (r *Repo) UpdateRoutine(ctx context.Context) error {
	l := r.l.Named("routine.update")
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case resChan := <-r.updateInProgressChannel:
			start := time.Now()
			l := l.With(zap.String("run_id", uuid.New().String()))

			l.Info("update started")

			repoRuntime, err := r.update(context.WithoutCancel(ctx), l)
			if err != nil {
				l.Error("update failed", zap.Error(err))
				metrics.UpdatesFailedCounter.WithLabelValues().Inc()
			} else {
				l.Info("update success")
				metrics.UpdatesCompletedCounter.WithLabelValues().Inc()
			}

			resChan <- updateResponse{
				repoRuntime: repoRuntime,
				err:         err,
			}

			metrics.UpdateDuration.WithLabelValues().Observe(time.Since(start).Seconds())
		}
	}
}

// do not call directly, but only through the update routine
func (r *Repo) update(ctx context.Context, l *zap.Logger) (repoRuntime int64, err error) {
	start := time.Now()

	data, err := Fetch(ctx, r.httpClient, r.source)
	repoRuntime = time.Since(start).Nanoseconds()
	if err != nil {
		return repoRuntime, err
	}

	if current := r.Snapshot(); current != nil && bytes.Equal(current.Bytes, data) {
		l.Info("bundle is up to date")
		return repoRuntime, nil
	}

	l.Debug("decoding bundle", zap.String("source", r.source), zap.Int("length", len(data)))
	s, err := NewSnapshot(data)
	if err != nil {
		return repoRuntime, err
	}

	if s.Problems != nil {
		if r.strict {
			return repoRuntime, errors.Wrap(s.Problems, "bundle failed ingestion checks")
		}
		l.Warn("bundle has ingestion problems", zap.Error(s.Problems))
	}

	if err := r.history.Add(ctx, data); err != nil {
		l.Error("could not persist current bundle in history", zap.Error(err))
		metrics.HistoryPersistFailedCounter.WithLabelValues().Inc()
	} else {
		l.Debug("persisted current bundle to history")
	}

	r.setSnapshot(s)

	return repoRuntime, nil
}

// limit ressources and allow only one update request at once
func (r *Repo) tryUpdate(ctx context.Context) (repoRuntime int64, err error) {
	c := make(chan updateResponse)
	select {
	case r.updateInProgressChannel <- c:
		r.l.Debug("update request added to queue")
		ur := <-c
		return ur.repoRuntime, ur.err
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
		r.l.Info("update request rejected, an update is in progress")
		return 0, ErrUpdateRejected
	}
}
