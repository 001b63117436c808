package metadata

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yleoer/lrc/pkg/lrc"
)

type NeteaseSearchResult struct {
	Result struct {
		Songs []struct {
			ID      int    `json:"id"`
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Name string `json:"name"`
			} `json:"album"`
		} `json:"songs"`
	} `json:"result"`
}

type NeteaseLyricResult struct {
	Lrc struct {
		Lyric string `json:"lyric"`
	} `json:"lrc"`
}

// NeteaseClient 是 Fetcher 的网易云音乐实现
type NeteaseClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewNeteaseClient 创建一个新的 NeteaseClient 实例
func NewNeteaseClient(baseURL string, timeout time.Duration, logger *log.Logger) Fetcher {
	if baseURL == "" {
		baseURL = "http://music.163.com"
	}
	return &NeteaseClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchLyrics 搜索歌曲并下载、解析其 LRC 歌词
func (c *NeteaseClient) FetchLyrics(title, artist string) (*lrc.File, error) {
	c.logger.Printf("    -> Searching online for: [%s - %s]", artist, title)

	query := strings.TrimSpace(fmt.Sprintf("%s %s", title, artist))
	params := url.Values{}
	params.Add("s", query)
	params.Add("type", "1") // 1 for songs
	params.Add("limit", "5")

	var result NeteaseSearchResult
	if err := c.getJSON(neteaseSearchPath+"?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", query, err)
	}
	if len(result.Result.Songs) == 0 {
		return nil, fmt.Errorf("no results for %q: %w", query, ErrNotFound)
	}

	// 简单匹配：选择第一个结果
	bestMatch := result.Result.Songs[0]
	c.logger.Printf("    -> Matched song: %s (ID: %d)", bestMatch.Name, bestMatch.ID)
	return c.fetchLyrics(bestMatch.ID)
}

func (c *NeteaseClient) fetchLyrics(id int) (*lrc.File, error) {
	params := url.Values{}
	params.Add("id", strconv.Itoa(id))
	params.Add("lv", "1")
	params.Add("kv", "1")
	params.Add("tv", "-1")

	var lyricResult NeteaseLyricResult
	if err := c.getJSON(neteaseLyricPath+"?"+params.Encode(), &lyricResult); err != nil {
		return nil, fmt.Errorf("failed to get lyrics for song %d: %w", id, err)
	}
	if strings.TrimSpace(lyricResult.Lrc.Lyric) == "" {
		return nil, fmt.Errorf("song %d has no lyrics: %w", id, ErrNotFound)
	}
	f, err := lrc.Parse(lyricResult.Lrc.Lyric)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lyrics for song %d: %w", id, err)
	}
	c.logger.Printf("    -> Lyrics downloaded successfully (%d lines).", f.Len())
	return f, nil
}

func (c *NeteaseClient) getJSON(path string, v any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
