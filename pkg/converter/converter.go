package converter

import (
	"fmt"

	"github.com/yleoer/lrc/pkg/lrc"
)

// TextConverter 定义文本转换器接口
type TextConverter interface {
	TradToSim(text string) string // 将繁体中文转换为简体
}

// ConvertFile 转换歌词的元数据和每行内容，返回新的 File。
// 时间戳已在原 File 中应用过 offset，因此重建时不再应用。
func ConvertFile(tc TextConverter, f *lrc.File) (*lrc.File, error) {
	meta := f.Metadata()
	for _, field := range []*string{meta.Title, meta.Artist, meta.Album, meta.Maker} {
		if field != nil {
			*field = tc.TradToSim(*field)
		}
	}
	lines := f.Lines()
	for i := range lines {
		lines[i].Content = tc.TradToSim(lines[i].Content)
	}
	converted, err := lrc.NewFile(&meta, lines, false)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild converted lyrics: %w", err)
	}
	return converted, nil
}
