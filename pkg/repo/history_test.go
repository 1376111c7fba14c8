package repo

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gocloud.dev/blob"
)

func TestHistoryCurrent(t *testing.T) {
	h := testHistory(t)

	_, err := h.Current(t.Context())
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, h.Add(t.Context(), []byte("test")))
	current, err := h.Current(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "test", string(current))
}

func TestHistoryCleanup(t *testing.T) {
	h := testHistory(t)
	tick := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	h.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	for i := range 20 {
		require.NoError(t, h.Add(t.Context(), []byte(fmt.Sprint(i))))
	}

	keys, err := h.backups(t.Context())
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "sitecheck-bundle-20261016T080020.000000000Z.json", keys[0])
	assert.Equal(t, "sitecheck-bundle-20261016T080019.000000000Z.json", keys[1])

	current, err := h.Current(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "19", string(current))
}

func TestHistoryOrder(t *testing.T) {
	h := testHistoryWithTestdata(t)

	keys, err := h.backups(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"sitecheck-bundle-20171023T100000.000000000Z.json",
		"sitecheck-bundle-20171022T100000.000000000Z.json",
		"sitecheck-bundle-20171021T100000.000000000Z.json",
	}, keys)
}

func TestHistoryOutdated(t *testing.T) {
	h := testHistoryWithTestdata(t)

	keys, err := h.outdated(t.Context(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"sitecheck-bundle-20171021T100000.000000000Z.json"}, keys)

	keys, err = h.outdated(t.Context(), 5)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestHistoryWithBlobStorage(t *testing.T) {
	ctx := t.Context()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	require.NoError(t, err)

	h, err := NewHistory(zaptest.NewLogger(t),
		HistoryWithStorage(NewBlobStorageFromBucket(bucket, "history")),
		HistoryWithHistoryLimit(2),
	)
	require.NoError(t, err)
	defer h.Close()

	for i := range 5 {
		time.Sleep(time.Millisecond)
		require.NoError(t, h.Add(ctx, []byte(fmt.Sprintf("data-%d", i))))
	}

	current, err := h.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "data-4", string(current))

	keys, err := h.backups(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestHistoryRestore(t *testing.T) {
	h := testHistory(t)
	tick := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	h.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	_, err := h.Restore(t.Context())
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, h.Add(t.Context(), []byte(`{"metadata": {"title": "first"}}`)))
	require.NoError(t, h.Add(t.Context(), []byte(`{"metadata": {"title": "second"}}`)))

	s, err := h.Restore(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "second", s.Bundle.Metadata.Title)

	// a broken current bundle falls back to the newest backup that decodes
	require.NoError(t, h.storage.Write(t.Context(), CurrentKey, []byte(`{"metadata":`)))
	require.NoError(t, h.storage.Write(t.Context(), HistoryBundlePrefix+"20261016T080003.000000000Z"+HistoryBundleSuffix, []byte(`[]`)))

	s, err = h.Restore(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "second", s.Bundle.Metadata.Title)
}

func TestHistoryRestoreNothingUsable(t *testing.T) {
	h := testHistory(t)
	require.NoError(t, h.storage.Write(t.Context(), CurrentKey, []byte(`broken`)))

	_, err := h.Restore(t.Context())
	require.Error(t, err)
	assert.NotErrorIs(t, err, os.ErrNotExist)
}

func testHistory(t *testing.T) *History {
	t.Helper()
	h, err := NewHistory(zaptest.NewLogger(t), HistoryWithHistoryLimit(2), HistoryWithHistoryDir(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func testHistoryWithTestdata(t *testing.T) *History {
	t.Helper()
	storage, err := NewFilesystemStorage("testdata/order")
	require.NoError(t, err)
	h, err := NewHistory(zaptest.NewLogger(t), HistoryWithStorage(storage), HistoryWithHistoryLimit(2))
	require.NoError(t, err)
	return h
}
