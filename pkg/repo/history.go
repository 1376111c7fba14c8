package repo

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	HistoryBundlePrefix = "sitecheck-bundle-"
	HistoryBundleSuffix = ".json"
	CurrentKey          = HistoryBundlePrefix + "current" + HistoryBundleSuffix

	// lexically sortable, newest last
	historyTimeLayout = "20060102T150405.000000000Z"
)

type (
	// History keeps the current bundle plus a limited number of backups
	History struct {
		l            *zap.Logger
		storage      Storage
		historyDir   string
		historyLimit int
		now          func() time.Time
		mu           sync.RWMutex
	}
	HistoryOption func(*History)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func HistoryWithHistoryLimit(v int) HistoryOption {
	return func(o *History) {
		o.historyLimit = v
	}
}

// HistoryWithHistoryDir directory of the default filesystem storage
func HistoryWithHistoryDir(v string) HistoryOption {
	return func(o *History) {
		o.historyDir = v
	}
}

func HistoryWithStorage(s Storage) HistoryOption {
	return func(o *History) {
		o.storage = s
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewHistory(l *zap.Logger, opts ...HistoryOption) (*History, error) {
	inst := &History{
		l:            l.Named("history"),
		historyDir:   "/var/lib/sitecheck",
		historyLimit: 2,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(inst)
	}

	if inst.storage == nil {
		storage, err := NewFilesystemStorage(inst.historyDir)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create default filesystem storage")
		}
		inst.storage = storage
	}

	return inst, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Add stores data as a timestamped backup and as the current bundle, then
// drops backups beyond the limit
func (h *History) Add(ctx context.Context, data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	backupKey := HistoryBundlePrefix + h.now().UTC().Format(historyTimeLayout) + HistoryBundleSuffix

	h.l.Debug("writing bundle",
		zap.String("backup", backupKey),
		zap.String("current", CurrentKey),
	)

	if err := h.storage.Write(ctx, backupKey, data); err != nil {
		return errors.Wrap(err, "failed to write backup")
	}

	if err := h.storage.Write(ctx, CurrentKey, data); err != nil {
		return errors.Wrap(err, "failed to write current bundle")
	}

	return errors.Wrap(h.cleanup(ctx), "failed to clean up history")
}

// Current the bytes of the last persisted bundle, os.ErrNotExist when the
// history is empty
func (h *History) Current(ctx context.Context) ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.storage.Read(ctx, CurrentKey)
}

// Restore decodes the newest bundle of the history. A current bundle that no
// longer decodes is passed over in favour of the newest usable backup.
func (h *History) Restore(ctx context.Context) (*Snapshot, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	keys, err := h.backups(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not list backups")
	}
	keys = append([]string{CurrentKey}, keys...)

	var errs error
	for _, key := range keys {
		data, err := h.storage.Read(ctx, key)
		if errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "failed to read %s", key))
			continue
		}
		s, err := NewSnapshot(data)
		if err != nil {
			h.l.Warn("skipping undecodable bundle", zap.String("key", key), zap.Error(err))
			errs = multierr.Append(errs, errors.Wrapf(err, "failed to decode %s", key))
			continue
		}
		h.l.Debug("restored bundle", zap.String("key", key))
		return s, nil
	}
	if errs != nil {
		return nil, errs
	}
	return nil, errors.Wrap(os.ErrNotExist, "history is empty")
}

// Close releases the underlying storage
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.storage != nil {
		return h.storage.Close()
	}
	return nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

// backups newest first
func (h *History) backups(ctx context.Context) ([]string, error) {
	keys, err := h.storage.List(ctx, HistoryBundlePrefix)
	if err != nil {
		return nil, err
	}

	var ret []string
	for _, key := range keys {
		if key != CurrentKey && strings.HasSuffix(key, HistoryBundleSuffix) {
			ret = append(ret, key)
		}
	}
	return ret, nil
}

func (h *History) cleanup(ctx context.Context) error {
	keys, err := h.outdated(ctx, h.historyLimit)
	if err != nil {
		return err
	}

	for _, key := range keys {
		h.l.Debug("removing outdated backup", zap.String("key", key))
		if err := h.storage.Delete(ctx, key); err != nil {
			return errors.Wrapf(err, "could not remove %s", key)
		}
	}

	return nil
}

func (h *History) outdated(ctx context.Context, limit int) ([]string, error) {
	keys, err := h.backups(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not list backups")
	}
	if len(keys) <= limit {
		return nil, nil
	}
	return keys[limit:], nil
}
