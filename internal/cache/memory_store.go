package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Store 持有当前缓存快照与按 key 的互斥锁，整个进程内由一个 ContentRepository 独占。
type Store struct {
	current atomic.Pointer[Snapshot]

	mu    sync.Mutex
	locks map[string]*entryLock
}

// Snapshot 是一代缓存数据。Clear 之后旧快照仍可被持有者写入，但不会再被读取。
type Snapshot struct {
	mu    sync.RWMutex
	files map[string]FileEntry
	dirs  map[string]DirEntry
}

type entryLock struct {
	mu   sync.Mutex
	refs int
}

// NewStore 创建一个空缓存。
func NewStore() *Store {
	s := &Store{locks: make(map[string]*entryLock)}
	s.current.Store(newSnapshot())
	return s
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		files: make(map[string]FileEntry),
		dirs:  make(map[string]DirEntry),
	}
}

// Current 返回当前代的快照。调用方应在一次操作开始时获取，并在整个操作中复用，
// 这样与 Clear 并发的回源结果只会落入被丢弃的旧快照。
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Clear 以一次原子替换丢弃全部文件与目录条目，可重复调用。
func (s *Store) Clear() {
	s.current.Store(newSnapshot())
}

// Stats 返回当前快照的条目数量。
func (s *Store) Stats() Stats {
	return s.Current().Stats()
}

// Lock 获取 key 对应的互斥锁，返回释放函数。不同 key 之间互不阻塞。
func (s *Store) Lock(key string) func() {
	s.mu.Lock()
	lock := s.locks[key]
	if lock == nil {
		lock = &entryLock{}
		s.locks[key] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}

// File 查找文件条目。
func (sn *Snapshot) File(key string) (FileEntry, bool) {
	sn.mu.RLock()
	defer sn.mu.RUnlock()
	entry, ok := sn.files[key]
	return entry, ok
}

// PutFile 整体替换文件条目。
func (sn *Snapshot) PutFile(key string, entry FileEntry) {
	sn.mu.Lock()
	sn.files[key] = entry
	sn.mu.Unlock()
}

// TouchFile 在 ETag 未变化时推进 LastChecked，返回更新后的条目。
// 条目不存在或已被其他写入者替换时返回 false。
func (sn *Snapshot) TouchFile(key, etag string, at time.Time) (FileEntry, bool) {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	entry, ok := sn.files[key]
	if !ok || entry.ETag != etag {
		return FileEntry{}, false
	}
	entry.LastChecked = at
	sn.files[key] = entry
	return entry, true
}

// DeleteFile 移除文件条目，条目不存在时什么也不做。
func (sn *Snapshot) DeleteFile(key string) {
	sn.mu.Lock()
	delete(sn.files, key)
	sn.mu.Unlock()
}

// Dir 查找目录条目，返回的文件名切片为副本。
func (sn *Snapshot) Dir(key string) (DirEntry, bool) {
	sn.mu.RLock()
	defer sn.mu.RUnlock()
	entry, ok := sn.dirs[key]
	if ok {
		entry.Files = append([]string(nil), entry.Files...)
	}
	return entry, ok
}

// PutDir 整体替换目录条目。
func (sn *Snapshot) PutDir(key string, entry DirEntry) {
	entry.Files = append([]string(nil), entry.Files...)
	sn.mu.Lock()
	sn.dirs[key] = entry
	sn.mu.Unlock()
}

// TouchDir 在 ETag 未变化时推进目录条目的 LastChecked。
func (sn *Snapshot) TouchDir(key, etag string, at time.Time) (DirEntry, bool) {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	entry, ok := sn.dirs[key]
	if !ok || entry.ETag != etag {
		return DirEntry{}, false
	}
	entry.LastChecked = at
	sn.dirs[key] = entry
	entry.Files = append([]string(nil), entry.Files...)
	return entry, true
}

// Stats 返回快照中的条目数量。
func (sn *Snapshot) Stats() Stats {
	sn.mu.RLock()
	defer sn.mu.RUnlock()
	return Stats{Files: len(sn.files), Directories: len(sn.dirs)}
}
