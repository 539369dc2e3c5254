package cache

import "time"

// FileEntry 描述一个已读取的文件：正文 + 校验信息。每次回源都会整体替换。
type FileEntry struct {
	Content     string
	ETag        string
	ModTime     time.Time
	LastChecked time.Time
}

// DirEntry 描述一次目录列举结果，文件名顺序与数据源返回顺序一致。
type DirEntry struct {
	Files       []string
	ETag        string
	LastChecked time.Time
}

// Fresh 判断条目在 ttl 内是否仍可直接复用。ttl <= 0 时总是需要再验证。
func (e FileEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(e.LastChecked) < ttl
}

// Fresh 判断目录条目在 ttl 内是否仍可直接复用。
func (e DirEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(e.LastChecked) < ttl
}

// Stats 汇总当前快照中的条目数量，供诊断接口输出。
type Stats struct {
	Files       int `json:"files"`
	Directories int `json:"directories"`
}
