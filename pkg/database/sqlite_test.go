package database

import (
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) LyricStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "lyrics.db"), log.New(io.Discard, "", 0))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	modTime := time.Unix(1700000000, 123)

	record := &LyricRecord{
		Path:      "/lyrics/song.lrc",
		ModTime:   modTime,
		Title:     "title",
		Artist:    "artist",
		Offset:    -250 * time.Millisecond,
		LineCount: 3,
		FirstLine: time.Second,
		LastLine:  3 * time.Minute,
	}
	require.NoError(t, store.SaveLyric(record))

	got, err := store.GetLyric(record.Path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, modTime.Equal(got.ModTime))
	got.ModTime = record.ModTime
	assert.Equal(t, record, got)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetLyric("/nope.lrc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_Upsert(t *testing.T) {
	store := newTestStore(t)
	first := time.Unix(100, 0)
	second := time.Unix(200, 0)

	require.NoError(t, store.SaveLyric(&LyricRecord{Path: "a.lrc", ModTime: first, LineCount: 1}))
	indexed, err := store.IsLyricIndexed("a.lrc", first)
	require.NoError(t, err)
	assert.True(t, indexed)

	indexed, err = store.IsLyricIndexed("a.lrc", second)
	require.NoError(t, err)
	assert.False(t, indexed)

	require.NoError(t, store.SaveLyric(&LyricRecord{Path: "a.lrc", ModTime: second, LineCount: 5}))
	got, err := store.GetLyric("a.lrc")
	require.NoError(t, err)
	assert.Equal(t, 5, got.LineCount)

	indexed, err = store.IsLyricIndexed("a.lrc", second)
	require.NoError(t, err)
	assert.True(t, indexed)
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveLyric(&LyricRecord{Path: "a.lrc", ModTime: time.Unix(1, 0)}))

	require.NoError(t, store.DeleteLyric("a.lrc"))
	got, err := store.GetLyric("a.lrc")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.DeleteLyric("a.lrc"))
}
