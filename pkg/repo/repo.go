package repo

import (
	"context"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/foomo/sitecheck/pkg/metrics"
	"github.com/foomo/sitecheck/responses"
)

// Repo content bundle repository
type (
	Repo struct {
		l                       *zap.Logger
		source                  string
		poll                    bool
		pollInterval            time.Duration
		strict                  bool
		onLoaded                func()
		onUpdated               func(*Snapshot)
		hooksLock               sync.RWMutex
		loaded                  *atomic.Bool
		history                 *History
		httpClient              *http.Client
		updateInProgressChannel chan chan updateResponse
		snapshot                atomic.Pointer[Snapshot]
	}
	Option func(*Repo)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// New repository for the bundle at source, either an http(s) url or a file
func New(l *zap.Logger, source string, history *History, opts ...Option) *Repo {
	inst := &Repo{
		l:                       l.Named("repo"),
		source:                  source,
		loaded:                  &atomic.Bool{},
		pollInterval:            time.Minute,
		history:                 history,
		httpClient:              http.DefaultClient,
		updateInProgressChannel: make(chan chan updateResponse),
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
	return func(o *Repo) {
		o.httpClient = v
	}
}

func WithPoll(v bool) Option {
	return func(o *Repo) {
		o.poll = v
	}
}

func WithPollInterval(v time.Duration) Option {
	return func(o *Repo) {
		o.pollInterval = v
	}
}

// WithStrict rejects bundles that fail the ingestion checks
func WithStrict(v bool) Option {
	return func(o *Repo) {
		o.strict = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

func (r *Repo) Loaded() bool {
	return r.loaded.Load()
}

func (r *Repo) Source() string {
	return r.source
}

// Snapshot the current snapshot, nil until the first bundle was loaded
func (r *Repo) Snapshot() *Snapshot {
	return r.snapshot.Load()
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// OnLoaded is called once, after the first successful update
func (r *Repo) OnLoaded(fn func()) {
	r.hooksLock.Lock()
	defer r.hooksLock.Unlock()
	r.onLoaded = fn
}

// OnUpdated is called after every update that changed the snapshot
func (r *Repo) OnUpdated(fn func(*Snapshot)) {
	r.hooksLock.Lock()
	defer r.hooksLock.Unlock()
	r.onUpdated = fn
}

// WriteBundle writes the raw bundle of the current snapshot, falling back to
// the history when nothing has been loaded yet
func (r *Repo) WriteBundle(ctx context.Context, w io.Writer) error {
	var data []byte
	if s := r.Snapshot(); s != nil {
		data = s.Bytes
	}

	if len(data) == 0 {
		current, err := r.history.Current(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to read bundle from storage")
		}
		data = current
	}

	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write bundle")
	}
	return nil
}

func (r *Repo) Update(ctx context.Context) (updateResponse *responses.Update) {
	floatSeconds := func(nanoSeconds int64) float64 {
		return float64(nanoSeconds) / float64(time.Second)
	}

	r.l.Info("update triggered")

	start := time.Now()
	updateRepotime, err := r.tryUpdate(ctx)
	updateResponse = &responses.Update{Source: r.source}
	updateResponse.Stats.RepoRuntime = floatSeconds(updateRepotime)

	if err != nil {
		updateResponse.Success = false
		updateResponse.Stats.NumberOfNodes = -1
		updateResponse.ErrorMessage = err.Error()

		if !errors.Is(err, ErrUpdateRejected) {
			r.l.Error("failed to update repository", zap.Error(err))

			// only fall back to the history when there is nothing to serve
			if !r.Loaded() {
				if restoreErr := r.tryToRestoreCurrent(ctx); restoreErr != nil {
					r.l.Error("failed to restore preceding bundle", zap.Error(restoreErr))
				} else {
					r.l.Info("restored current bundle from history")
				}
			}
		}
	} else {
		updateResponse.Success = true
		if s := r.Snapshot(); s != nil {
			updateResponse.Stats = responses.NewStats(s.Bundle)
			updateResponse.Stats.RepoRuntime = floatSeconds(updateRepotime)
		}
	}
	updateResponse.Stats.OwnRuntime = floatSeconds(time.Since(start).Nanoseconds()) - updateResponse.Stats.RepoRuntime
	return updateResponse
}

func (r *Repo) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	l := r.l.Named("start")

	up := make(chan bool, 1)
	g.Go(func() error {
		l.Debug("starting update routine")
		up <- true
		return r.UpdateRoutine(gCtx)
	})
	l.Debug("waiting for UpdateRoutine")
	<-up

	l.Debug("trying to restore previous bundle")
	if err := r.tryToRestoreCurrent(ctx); errors.Is(err, os.ErrNotExist) {
		l.Info("previous bundle does not exist")
	} else if err != nil {
		l.Warn("could not restore previous bundle", zap.Error(err))
	} else {
		l.Info("restored previous bundle")
	}

	if r.poll {
		g.Go(func() error {
			l.Debug("starting poll routine")
			return r.PollRoutine(gCtx)
		})
	}

	l.Debug("trying to update initial state")
	if resp := r.Update(ctx); !resp.Success {
		l.Error("failed to update initial state",
			zap.String("error", resp.ErrorMessage),
			zap.Float64("own_runtime", resp.Stats.OwnRuntime),
			zap.Float64("repo_runtime", resp.Stats.RepoRuntime),
		)
	}

	return g.Wait()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (r *Repo) setSnapshot(s *Snapshot) {
	r.snapshot.Store(s)

	r.hooksLock.RLock()
	onLoaded, onUpdated := r.onLoaded, r.onUpdated
	r.hooksLock.RUnlock()

	if r.loaded.CompareAndSwap(false, true) {
		r.l.Info("initial bundle loaded")
		if onLoaded != nil {
			onLoaded()
		}
	}
	if onUpdated != nil {
		onUpdated(s)
	}
	metrics.SnapshotNodesGauge.WithLabelValues().Set(float64(len(s.Bundle.Nodes())))
}

func (r *Repo) tryToRestoreCurrent(ctx context.Context) error {
	s, err := r.history.Restore(ctx)
	if err != nil {
		return err
	}
	r.setSnapshot(s)
	return nil
}
