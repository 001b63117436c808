package lrc

import (
	"fmt"
	"io"
	"strings"
)

// Parse 解析完整的 LRC 文本。
// 任一行不符合语法、元数据冲突或时间戳重复都会使整个解析失败，不会返回部分结果。
func Parse(text string) (*File, error) {
	text = strings.ReplaceAll(text, `\'`, "'")

	builder := newMetadataBuilder()
	lines := make([]Line, 0)
	tagCount := 0
	for _, raw := range splitLines(text) {
		groups, err := tokenizeLine(raw)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			for _, body := range g.tags {
				tagCount++
				t, err := classifyTag(body)
				if err != nil {
					return nil, err
				}
				switch t.kind {
				case tagTimestamp:
					lines = append(lines, Line{Timestamp: t.timestamp, Content: g.content})
				case tagMetadata:
					if err := builder.set(t.key, t.value); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	if tagCount == 0 {
		return nil, &FormatError{Input: text, Reason: "no LRC tags found"}
	}
	return NewFile(builder.build(), lines, true)
}

// Read 读取 r 的全部内容并解析
func Read(r io.Reader) (*File, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: reader is nil", ErrInvalidArgument)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read LRC text: %w", err)
	}
	return Parse(string(data))
}
