package database

import "time"

// LyricRecord 是一份已解析歌词文件的索引记录
type LyricRecord struct {
	Path      string
	ModTime   time.Time
	Title     string
	Artist    string
	Album     string
	Maker     string
	Offset    time.Duration
	LineCount int
	FirstLine time.Duration // 第一行歌词的时间戳
	LastLine  time.Duration // 最后一行歌词的时间戳
}

// LyricStore 定义歌词索引存储接口
type LyricStore interface {
	SaveLyric(record *LyricRecord) error                         // 新增或更新歌词记录
	GetLyric(path string) (*LyricRecord, error)                  // 按路径查询，不存在时返回 nil
	IsLyricIndexed(path string, modTime time.Time) (bool, error) // 检查该版本的文件是否已索引
	DeleteLyric(path string) error                               // 删除歌词记录
	Close() error                                                // 关闭数据库连接
}
