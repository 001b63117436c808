package lrc

import "time"

// Metadata 是 LRC 文件头部的元数据，nil 字段表示未设置
type Metadata struct {
	Title  *string        // [ti:]
	Artist *string        // [ar:]
	Album  *string        // [al:]
	Maker  *string        // [by:]
	Offset *time.Duration // [offset:]，从每个时间戳中减去
}

func (m Metadata) clone() Metadata {
	return Metadata{
		Title:  clonePtr(m.Title),
		Artist: clonePtr(m.Artist),
		Album:  clonePtr(m.Album),
		Maker:  clonePtr(m.Maker),
		Offset: clonePtr(m.Offset),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// metadataBuilder 在解析过程中累积元数据。
// 同一个 key 重复出现时，值相同则忽略，值不同则报错；offset 按原始文本比较。
type metadataBuilder struct {
	raw    map[string]string
	offset time.Duration
}

func newMetadataBuilder() *metadataBuilder {
	return &metadataBuilder{raw: make(map[string]string)}
}

func (b *metadataBuilder) set(key, value string) error {
	if old, ok := b.raw[key]; ok {
		if old != value {
			return &MetadataConflictError{Key: key, Old: old, New: value}
		}
		return nil
	}
	if key == keyOffset {
		offset, err := parseOffset(value)
		if err != nil {
			return err
		}
		b.offset = offset
	}
	b.raw[key] = value
	return nil
}

func (b *metadataBuilder) build() *Metadata {
	m := &Metadata{}
	get := func(key string) *string {
		if v, ok := b.raw[key]; ok {
			return &v
		}
		return nil
	}
	m.Title = get(keyTitle)
	m.Artist = get(keyArtist)
	m.Album = get(keyAlbum)
	m.Maker = get(keyMaker)
	if _, ok := b.raw[keyOffset]; ok {
		offset := b.offset
		m.Offset = &offset
	}
	return m
}
