package scanner

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yleoer/lrc/pkg/converter"
	"github.com/yleoer/lrc/pkg/database"
	"github.com/yleoer/lrc/pkg/lrc"
	"github.com/yleoer/lrc/pkg/util"
)

// Lyric 是从磁盘读取并解析的一份歌词文件
type Lyric struct {
	Path    string
	ModTime time.Time
	File    *lrc.File
}

// LyricScanner 负责读取、解码并解析 LRC 文件
type LyricScanner struct {
	converter   converter.TextConverter // 为 nil 时不做繁简转换
	applyOffset bool
	logger      *log.Logger
}

// NewLyricScanner 创建一个新的 LyricScanner 实例
func NewLyricScanner(tc converter.TextConverter, applyOffset bool, logger *log.Logger) *LyricScanner {
	return &LyricScanner{
		converter:   tc,
		applyOffset: applyOffset,
		logger:      logger,
	}
}

// ScanFile 读取并解析单个 LRC 文件
func (s *LyricScanner) ScanFile(path string) (*Lyric, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	content, err := util.ReadTextFileContent(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lyric file: %w", err)
	}
	f, err := lrc.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if !s.applyOffset {
		if f, err = withoutOffset(f); err != nil {
			return nil, fmt.Errorf("failed to restore timestamps of %s: %w", path, err)
		}
	}
	if s.converter != nil {
		if f, err = converter.ConvertFile(s.converter, f); err != nil {
			return nil, err
		}
	}
	s.logger.Printf("  Parsed %s: %d lines", path, f.Len())
	return &Lyric{Path: path, ModTime: info.ModTime(), File: f}, nil
}

// withoutOffset 撤销解析时应用的 offset，还原文件中书写的原始时间戳
func withoutOffset(f *lrc.File) (*lrc.File, error) {
	meta := f.Metadata()
	if meta.Offset == nil {
		return f, nil
	}
	lines := f.Lines()
	for i := range lines {
		lines[i].Timestamp += *meta.Offset
	}
	return lrc.NewFile(&meta, lines, false)
}

// Record 将解析结果转换为数据库索引记录
func (l *Lyric) Record() *database.LyricRecord {
	meta := l.File.Metadata()
	r := &database.LyricRecord{
		Path:      l.Path,
		ModTime:   l.ModTime,
		Title:     deref(meta.Title),
		Artist:    deref(meta.Artist),
		Album:     deref(meta.Album),
		Maker:     deref(meta.Maker),
		LineCount: l.File.Len(),
	}
	if meta.Offset != nil {
		r.Offset = *meta.Offset
	}
	if n := l.File.Len(); n > 0 {
		r.FirstLine = l.File.At(0).Timestamp
		r.LastLine = l.File.At(n - 1).Timestamp
	}
	return r
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
