package lrc

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidArgument 调用方传入了缺失的参数（nil 元数据、nil 歌词行、nil reader）
	ErrInvalidArgument = errors.New("lrc: invalid argument")
	// ErrFormat 文本或歌词行不符合 LRC 语法或语义规则
	ErrFormat = errors.New("lrc: invalid format")
)

// FormatError 描述一处无法解析的输入
type FormatError struct {
	Input  string // 出错的原始片段
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("lrc: %s: %q", e.Reason, e.Input)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// MetadataConflictError 同一元数据标签出现了不同的值
type MetadataConflictError struct {
	Key string
	Old string
	New string
}

func (e *MetadataConflictError) Error() string {
	return fmt.Sprintf("lrc: duplicate metadata %q with values %q and %q", e.Key, e.Old, e.New)
}

func (e *MetadataConflictError) Unwrap() error { return ErrFormat }

// DuplicateTimestampError 应用偏移后两行歌词的时间戳相同
type DuplicateTimestampError struct {
	Timestamp time.Duration
	First     string
	Second    string
}

func (e *DuplicateTimestampError) Error() string {
	return fmt.Sprintf("lrc: duplicate timestamp %v with lyrics %q and %q", e.Timestamp, e.First, e.Second)
}

func (e *DuplicateTimestampError) Unwrap() error { return ErrFormat }
