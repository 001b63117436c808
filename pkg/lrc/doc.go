// Package lrc 解析 LRC 歌词文本。
//
// 解析结果 File 按时间戳严格递增保存歌词行，并提供精确查找以及
// Before/BeforeOrAt/After/AfterOrAt 邻近查找，均基于同一次二分查找。
//
//	f, err := lrc.Parse("[ti:Song][00:01.50]first line[00:03]second line")
//	line, ok := f.BeforeOrAt(2 * time.Second) // "first line"
package lrc
