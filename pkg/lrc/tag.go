package lrc

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// 标签体：时间戳 mm:ss(.xx) 或 key:value 形式的元数据
const tagBodyPattern = `\d+:\d+(?:\.\d+)?|[A-Za-z][A-Za-z0-9_-]*:[^\]]*`

var (
	tagPattern = `\[(?:` + tagBodyPattern + `)\]`

	// 一行必须完全由“若干标签 + 一段不含方括号的内容”组成
	lineRegex  = regexp.MustCompile(`^(?:(?:` + tagPattern + `)+[^\[\]]*)+$`)
	groupRegex = regexp.MustCompile(`((?:` + tagPattern + `)+)([^\[\]]*)`)
	tagRegex   = regexp.MustCompile(`\[(` + tagBodyPattern + `)\]`)

	timestampRegex = regexp.MustCompile(`^(\d+):(\d+(?:\.\d+)?)$`)
)

const (
	keyTitle  = "ti"
	keyArtist = "ar"
	keyAlbum  = "al"
	keyMaker  = "by"
	keyOffset = "offset"
)

type tagKind int

const (
	tagIgnored tagKind = iota
	tagTimestamp
	tagMetadata
)

// tag 是分类后的单个标签
type tag struct {
	kind      tagKind
	timestamp time.Duration
	key       string
	value     string
}

// tagGroup 是一串相邻标签以及它们共享的歌词内容
type tagGroup struct {
	tags    []string
	content string
}

// splitLines 按 CR/LF 切分文本，丢弃空行
func splitLines(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '\r' || r == '\n'
	})
}

// tokenizeLine 将一行拆分为若干 tagGroup，任何不符合标签语法的方括号都会导致失败
func tokenizeLine(line string) ([]tagGroup, error) {
	if !lineRegex.MatchString(line) {
		return nil, &FormatError{Input: line, Reason: "malformed line"}
	}
	matches := groupRegex.FindAllStringSubmatch(line, -1)
	groups := make([]tagGroup, 0, len(matches))
	for _, m := range matches {
		g := tagGroup{content: m[2]}
		for _, t := range tagRegex.FindAllStringSubmatch(m[1], -1) {
			g.tags = append(g.tags, t[1])
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// classifyTag 判断标签体是时间戳、已知元数据还是可忽略的未知标签
func classifyTag(body string) (tag, error) {
	if m := timestampRegex.FindStringSubmatch(body); m != nil {
		ts, err := parseTimestamp(m[1], m[2])
		if err != nil {
			return tag{}, err
		}
		return tag{kind: tagTimestamp, timestamp: ts}, nil
	}

	key, value, ok := strings.Cut(body, ":")
	if !ok {
		return tag{}, &FormatError{Input: body, Reason: "malformed tag"}
	}
	key = strings.ToLower(key)
	switch key {
	case keyTitle, keyArtist, keyAlbum, keyMaker, keyOffset:
		return tag{kind: tagMetadata, key: key, value: value}, nil
	}
	return tag{kind: tagIgnored, key: key, value: value}, nil
}

// parseTimestamp 将分钟和秒（可带小数）精确转换为 time.Duration，超出范围视为格式错误
func parseTimestamp(minutes, seconds string) (time.Duration, error) {
	input := minutes + ":" + seconds
	overflow := &FormatError{Input: input, Reason: "timestamp out of range"}

	m, err := strconv.ParseInt(minutes, 10, 64)
	if err != nil {
		return 0, overflow
	}
	whole, frac, _ := strings.Cut(seconds, ".")
	s, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, overflow
	}
	// 纳秒精度，多余的小数位截断
	if len(frac) > 9 {
		frac = frac[:9]
	}
	var ns int64
	if frac != "" {
		ns, err = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return 0, &FormatError{Input: input, Reason: "invalid fractional seconds"}
		}
	}

	if m > math.MaxInt64/int64(time.Minute) || s > math.MaxInt64/int64(time.Second) {
		return 0, overflow
	}
	secPart := s*int64(time.Second) + ns
	if secPart < 0 {
		return 0, overflow
	}
	minPart := m * int64(time.Minute)
	if minPart > math.MaxInt64-secPart {
		return 0, overflow
	}
	return time.Duration(minPart + secPart), nil
}

// parseOffset 解析 offset 标签内容（毫秒，可为负数或小数，允许首尾空白）
func parseOffset(value string) (time.Duration, error) {
	ms, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return 0, &FormatError{Input: value, Reason: "invalid offset"}
	}
	ns := math.Round(ms * float64(time.Millisecond))
	if ns >= math.MaxInt64 || ns < math.MinInt64 {
		return 0, &FormatError{Input: value, Reason: "offset out of range"}
	}
	return time.Duration(ns), nil
}
