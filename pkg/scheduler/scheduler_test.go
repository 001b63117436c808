package scheduler

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yleoer/lrc/pkg/database"
	"github.com/yleoer/lrc/pkg/scanner"
)

func newTestScheduler(t *testing.T, delay time.Duration) (*TaskScheduler, database.LyricStore) {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	store, err := database.NewSQLiteStore(filepath.Join(t.TempDir(), "lyrics.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewTaskScheduler(delay, store, scanner.NewLyricScanner(nil, true, logger), logger), store
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestTaskScheduler_InitialScan(t *testing.T) {
	ts, store := newTestScheduler(t, time.Hour)
	root := t.TempDir()
	good := filepath.Join(root, "artist", "good.lrc")
	bad := filepath.Join(root, "bad.lrc")
	writeFile(t, good, "[ti:good][0:1]one[0:2]two[0:3]three")
	writeFile(t, bad, "not lyrics")
	writeFile(t, filepath.Join(root, "cover.jpg"), "jpeg")

	ts.InitialScan(root)

	record, err := store.GetLyric(good)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "good", record.Title)
	assert.Equal(t, 3, record.LineCount)

	record, err = store.GetLyric(bad)
	require.NoError(t, err)
	assert.Nil(t, record)

	line, ok := ts.LineAt(good, 2500*time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, "two", line.Content)

	_, ok = ts.LineAt(good, 500*time.Millisecond)
	assert.False(t, ok)
	_, ok = ts.LineAt(bad, time.Second)
	assert.False(t, ok)
}

func TestTaskScheduler_RescanAndRemove(t *testing.T) {
	ts, store := newTestScheduler(t, time.Hour)
	path := filepath.Join(t.TempDir(), "song.lrc")
	writeFile(t, path, "[0:1]one")
	ts.performScan(path)

	f, ok := ts.Lyric(path)
	require.True(t, ok)
	assert.Equal(t, 1, f.Len())

	writeFile(t, path, "[0:1]one[0:2]two")
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	ts.performScan(path)

	f, ok = ts.Lyric(path)
	require.True(t, ok)
	assert.Equal(t, 2, f.Len())

	require.NoError(t, os.Remove(path))
	ts.performScan(path)
	_, ok = ts.Lyric(path)
	assert.False(t, ok)
	record, err := store.GetLyric(path)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestTaskScheduler_TriggerScanDebounce(t *testing.T) {
	ts, store := newTestScheduler(t, 20*time.Millisecond)
	path := filepath.Join(t.TempDir(), "song.lrc")
	writeFile(t, path, "[ti:debounced][0:1]one")

	ts.TriggerScan(path)
	ts.TriggerScan(path)
	assert.Equal(t, 1, ts.Pending())

	assert.Eventually(t, func() bool {
		record, err := store.GetLyric(path)
		return err == nil && record != nil && ts.Pending() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

// failingStore 模拟索引写入失败
type failingStore struct {
	database.LyricStore
}

func (failingStore) SaveLyric(*database.LyricRecord) error {
	return errors.New("disk full")
}

func TestTaskScheduler_SaveFailureKeepsCacheFresh(t *testing.T) {
	base, store := newTestScheduler(t, time.Hour)
	ts := NewTaskScheduler(time.Hour, failingStore{store}, base.lyricScanner, base.logger)
	path := filepath.Join(t.TempDir(), "song.lrc")

	writeFile(t, path, "[0:1]one")
	ts.performScan(path)
	f, ok := ts.Lyric(path)
	require.True(t, ok)
	assert.Equal(t, 1, f.Len())

	writeFile(t, path, "[0:1]one[0:2]two")
	ts.performScan(path)
	f, ok = ts.Lyric(path)
	require.True(t, ok)
	assert.Equal(t, 2, f.Len())

	line, ok := ts.LineAt(path, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, "two", line.Content)

	record, err := store.GetLyric(path)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestTaskScheduler_RemoveCancelsPendingScan(t *testing.T) {
	ts, store := newTestScheduler(t, time.Hour)
	path := filepath.Join(t.TempDir(), "song.lrc")
	writeFile(t, path, "[0:1]one")
	ts.performScan(path)

	ts.TriggerScan(path)
	require.Equal(t, 1, ts.Pending())

	ts.Remove(path)
	assert.Equal(t, 0, ts.Pending())
	_, ok := ts.Lyric(path)
	assert.False(t, ok)
	record, err := store.GetLyric(path)
	require.NoError(t, err)
	assert.Nil(t, record)

	// 重复删除不报错
	ts.Remove(path)
	assert.Equal(t, 0, ts.Pending())
}

func TestTaskScheduler_FinishScanKeepsNewerTimer(t *testing.T) {
	ts, _ := newTestScheduler(t, time.Hour)
	path := filepath.Join(t.TempDir(), "song.lrc")

	ts.TriggerScan(path)
	ts.pendingScansMutex.Lock()
	first := ts.pendingScans[path]
	ts.pendingScansMutex.Unlock()

	ts.TriggerScan(path)
	ts.pendingScansMutex.Lock()
	second := ts.pendingScans[path]
	ts.pendingScansMutex.Unlock()
	require.NotSame(t, first, second)
	t.Cleanup(func() { second.Stop() })

	// 旧计时器的回调结束时不能清掉新排队的任务
	ts.finishScan(path, first)
	assert.Equal(t, 1, ts.Pending())

	ts.finishScan(path, second)
	assert.Equal(t, 0, ts.Pending())
}
