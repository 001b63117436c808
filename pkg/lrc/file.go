package lrc

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// File 是解析后的 LRC 文件：一份元数据和按时间戳严格递增的歌词行。
// 构造后不可修改，可在多个 goroutine 间共享读取。
type File struct {
	metadata Metadata
	lines    []Line
}

// NewFile 由元数据和歌词行构造 File。
// applyOffset 为 true 且元数据带有 offset 时，每行时间戳减去 offset。
// 排序后出现重复时间戳返回 *DuplicateTimestampError。
func NewFile(metadata *Metadata, lines []Line, applyOffset bool) (*File, error) {
	if metadata == nil {
		return nil, fmt.Errorf("%w: metadata is nil", ErrInvalidArgument)
	}
	if lines == nil {
		return nil, fmt.Errorf("%w: lines is nil", ErrInvalidArgument)
	}

	sorted := make([]Line, len(lines))
	copy(sorted, lines)
	if applyOffset && metadata.Offset != nil {
		for i := range sorted {
			shifted, ok := sorted[i].subtract(*metadata.Offset)
			if !ok {
				return nil, &FormatError{
					Input:  fmt.Sprintf("%v - %v", sorted[i].Timestamp, *metadata.Offset),
					Reason: "timestamp out of range",
				}
			}
			sorted[i] = shifted
		}
	}
	slices.SortStableFunc(sorted, func(a, b Line) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Timestamp == sorted[i-1].Timestamp {
			return nil, &DuplicateTimestampError{
				Timestamp: sorted[i].Timestamp,
				First:     sorted[i-1].Content,
				Second:    sorted[i].Content,
			}
		}
	}
	return &File{metadata: metadata.clone(), lines: sorted}, nil
}

// Metadata 返回元数据的副本
func (f *File) Metadata() Metadata {
	return f.metadata.clone()
}

// Lines 返回全部歌词行的副本
func (f *File) Lines() []Line {
	return slices.Clone(f.lines)
}

func (f *File) Len() int {
	return len(f.lines)
}

// At 返回第 i 行，越界时 panic
func (f *File) At(i int) Line {
	return f.lines[i]
}

// Search 二分查找时间戳 t。
// 找到时返回其下标和 true，否则返回插入位置（严格小于 t 的行数）和 false。
func (f *File) Search(t time.Duration) (int, bool) {
	return slices.BinarySearchFunc(f.lines, t, func(l Line, t time.Duration) int {
		return cmp.Compare(l.Timestamp, t)
	})
}

// Exact 返回时间戳恰好为 t 的歌词内容
func (f *File) Exact(t time.Duration) (string, bool) {
	i, found := f.Search(t)
	if !found {
		return "", false
	}
	return f.lines[i].Content, true
}

// Before 返回时间戳严格早于 t 的最后一行
func (f *File) Before(t time.Duration) (Line, bool) {
	i, _ := f.Search(t)
	return f.lineAt(i - 1)
}

// BeforeOrAt 返回时间戳不晚于 t 的最后一行
func (f *File) BeforeOrAt(t time.Duration) (Line, bool) {
	i, found := f.Search(t)
	if found {
		return f.lines[i], true
	}
	return f.lineAt(i - 1)
}

// After 返回时间戳严格晚于 t 的第一行
func (f *File) After(t time.Duration) (Line, bool) {
	i, found := f.Search(t)
	if found {
		i++
	}
	return f.lineAt(i)
}

// AfterOrAt 返回时间戳不早于 t 的第一行
func (f *File) AfterOrAt(t time.Duration) (Line, bool) {
	i, _ := f.Search(t)
	return f.lineAt(i)
}

func (f *File) lineAt(i int) (Line, bool) {
	if i < 0 || i >= len(f.lines) {
		return Line{}, false
	}
	return f.lines[i], true
}
