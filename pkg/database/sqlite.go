package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// sqliteStore 是 LyricStore 接口的 SQLite 实现
type sqliteStore struct {
	db     *sql.DB
	logger *log.Logger
}

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS lyrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		mod_time INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		artist TEXT NOT NULL DEFAULT '',
		album TEXT NOT NULL DEFAULT '',
		maker TEXT NOT NULL DEFAULT '',
		offset_ns INTEGER NOT NULL DEFAULT 0,
		line_count INTEGER NOT NULL DEFAULT 0,
		first_line_ns INTEGER NOT NULL DEFAULT 0,
		last_line_ns INTEGER NOT NULL DEFAULT 0,
		indexed_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

const upsertLyricSQL = `
	INSERT INTO lyrics (path, mod_time, title, artist, album, maker, offset_ns, line_count, first_line_ns, last_line_ns, indexed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		mod_time = excluded.mod_time,
		title = excluded.title,
		artist = excluded.artist,
		album = excluded.album,
		maker = excluded.maker,
		offset_ns = excluded.offset_ns,
		line_count = excluded.line_count,
		first_line_ns = excluded.first_line_ns,
		last_line_ns = excluded.last_line_ns,
		indexed_at = excluded.indexed_at
	`

// NewSQLiteStore 初始化 SQLite 数据库并返回 LyricStore 接口实例
func NewSQLiteStore(dataSourceName string, logger *log.Logger) (LyricStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close() // 创建表失败也要关闭连接
		return nil, fmt.Errorf("failed to create lyrics table: %w", err)
	}
	logger.Printf("SQLite database initialized at: %s", dataSourceName)
	return &sqliteStore{db: db, logger: logger}, nil
}

// Close 关闭数据库连接
func (s *sqliteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.logger.Println("SQLite database connection closed.")
		return err
	}
	return nil
}

// SaveLyric 新增或更新歌词记录
func (s *sqliteStore) SaveLyric(r *LyricRecord) error {
	_, err := s.db.Exec(upsertLyricSQL,
		r.Path, r.ModTime.UnixNano(), r.Title, r.Artist, r.Album, r.Maker,
		int64(r.Offset), r.LineCount, int64(r.FirstLine), int64(r.LastLine), time.Now())
	if err != nil {
		s.logger.Printf("ERROR: Failed to save lyric %s: %v", r.Path, err)
		return fmt.Errorf("failed to save lyric %s: %w", r.Path, err)
	}
	s.logger.Printf("Lyric %s indexed (%d lines).", r.Path, r.LineCount)
	return nil
}

// GetLyric 按路径查询歌词记录
func (s *sqliteStore) GetLyric(path string) (*LyricRecord, error) {
	r := &LyricRecord{Path: path}
	var modTime, offset, first, last int64
	err := s.db.QueryRow(
		"SELECT mod_time, title, artist, album, maker, offset_ns, line_count, first_line_ns, last_line_ns FROM lyrics WHERE path = ?",
		path,
	).Scan(&modTime, &r.Title, &r.Artist, &r.Album, &r.Maker, &offset, &r.LineCount, &first, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query lyric %s: %w", path, err)
	}
	r.ModTime = time.Unix(0, modTime)
	r.Offset = time.Duration(offset)
	r.FirstLine = time.Duration(first)
	r.LastLine = time.Duration(last)
	return r, nil
}

// IsLyricIndexed 检查路径是否已以相同的修改时间索引过
func (s *sqliteStore) IsLyricIndexed(path string, modTime time.Time) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM lyrics WHERE path = ? AND mod_time = ?", path, modTime.UnixNano()).Scan(&count)
	if err != nil {
		s.logger.Printf("ERROR: Failed to check if lyric %s is indexed: %v", path, err)
		return false, fmt.Errorf("failed to check indexed status for %s: %w", path, err)
	}
	return count > 0, nil
}

// DeleteLyric 删除歌词记录，记录不存在时不报错
func (s *sqliteStore) DeleteLyric(path string) error {
	if _, err := s.db.Exec("DELETE FROM lyrics WHERE path = ?", path); err != nil {
		return fmt.Errorf("failed to delete lyric %s: %w", path, err)
	}
	s.logger.Printf("Lyric %s removed from index.", path)
	return nil
}
