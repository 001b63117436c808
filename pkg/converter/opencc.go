package converter

import (
	"fmt"
	"log"
	"sync"

	"github.com/liuzl/gocc"
)

// 日志中歌词片段的最大字符数
const excerptRunes = 24

// openCCConverter 基于 OpenCC t2s 词典转换歌词文本。
// 副歌等重复行很常见，转换结果按原文缓存。
type openCCConverter struct {
	convert func(string) (string, error)
	logger  *log.Logger

	mu    sync.Mutex
	cache map[string]string
}

// NewOpenCCConverter 加载 OpenCC 繁体到简体词典
func NewOpenCCConverter(logger *log.Logger) (TextConverter, error) {
	cc, err := gocc.New("t2s")
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenCC t2s dictionary: %w", err)
	}
	logger.Println("OpenCC t2s converter ready for lyrics.")
	return newOpenCCConverter(cc.Convert, logger), nil
}

func newOpenCCConverter(convert func(string) (string, error), logger *log.Logger) *openCCConverter {
	return &openCCConverter{convert: convert, logger: logger, cache: make(map[string]string)}
}

// TradToSim 将一行歌词或一个元数据值转为简体，失败时原样返回且不缓存
func (c *openCCConverter) TradToSim(text string) string {
	if text == "" {
		return text
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if out, ok := c.cache[text]; ok {
		return out
	}
	out, err := c.convert(text)
	if err != nil {
		c.logger.Printf("WARN: Keeping lyric text %q unconverted: %v", excerpt(text), err)
		return text
	}
	c.cache[text] = out
	return out
}

// excerpt 截取文本开头用于日志
func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptRunes {
		return text
	}
	return string(runes[:excerptRunes]) + "…"
}
