package model

import "strings"

// MovieOrigin 电影数据来源
type MovieOrigin string

const (
	// OriginExternal 外部数据源（OMDb）
	OriginExternal MovieOrigin = "external"
	// OriginLocal 本地自建片库
	OriginLocal MovieOrigin = "local"
)

// LocalRefPrefix 本地电影引用前缀，OMDb 的 ID 均为 "tt" 开头，不会与之冲突
const LocalRefPrefix = "custom_"

// MovieRef 统一电影引用：来源 + 原始 ID
// 字符串形式只在 I/O 边界出现，内部一律使用该结构
type MovieRef struct {
	Origin MovieOrigin
	ID     string
}

// ParseMovieRef 解析电影引用字符串
// 解析永不失败：带本地前缀的按本地处理，其余一律视为外部 ID
func ParseMovieRef(s string) MovieRef {
	if strings.HasPrefix(s, LocalRefPrefix) {
		return MovieRef{Origin: OriginLocal, ID: strings.TrimPrefix(s, LocalRefPrefix)}
	}
	return MovieRef{Origin: OriginExternal, ID: s}
}

// NewLocalRef 构造本地电影引用
func NewLocalRef(id string) MovieRef {
	return MovieRef{Origin: OriginLocal, ID: id}
}

// NewExternalRef 构造外部电影引用
func NewExternalRef(id string) MovieRef {
	return MovieRef{Origin: OriginExternal, ID: id}
}

// String 编码为字符串形式
func (r MovieRef) String() string {
	if r.Origin == OriginLocal {
		return LocalRefPrefix + r.ID
	}
	return r.ID
}

// IsLocal 是否为本地电影
func (r MovieRef) IsLocal() bool {
	return r.Origin == OriginLocal
}
