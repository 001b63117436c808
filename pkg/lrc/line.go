package lrc

import (
	"math"
	"time"
)

// Line 是一行带时间戳的歌词
type Line struct {
	Timestamp time.Duration
	Content   string
}

// subtract 返回时间戳减去 d 后的新行，结果超出 time.Duration 范围时 ok 为 false
func (l Line) subtract(d time.Duration) (Line, bool) {
	ts, off := int64(l.Timestamp), int64(d)
	if (off < 0 && ts > math.MaxInt64+off) || (off > 0 && ts < math.MinInt64+off) {
		return l, false
	}
	return Line{Timestamp: l.Timestamp - d, Content: l.Content}, true
}
