package metadata

import (
	"errors"

	"github.com/yleoer/lrc/pkg/lrc"
)

const (
	neteaseSearchPath = "/api/search/get/web"
	neteaseLyricPath  = "/api/song/lyric"
)

// ErrNotFound 在线搜索没有匹配的歌曲或歌曲没有歌词
var ErrNotFound = errors.New("lyrics not found")

// Fetcher 定义在线获取歌词的接口
type Fetcher interface {
	FetchLyrics(title, artist string) (*lrc.File, error)
}
