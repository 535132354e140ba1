package cache

import (
	"sort"
	"sync"
)

// Store 管理按解码后请求路径索引的元数据条目。一个站点持有一份实例，
// 启动时创建并随站点生命周期存在；条目不会过期也不会被淘汰。
type Store interface {
	// Lookup 返回已存在的共享条目，不会创建新条目。
	Lookup(key string) (*Entry, bool)

	// Ensure 在条目已存在或 policy 命中时返回共享条目（必要时创建）；
	// 否则返回一次性的临时条目，调用方用完即弃。
	Ensure(key string, policy Policy) *Entry

	// Keys 返回当前所有共享条目的键，按字典序排序，供诊断端使用。
	Keys() []string

	// Stats 返回条目数量与缓冲正文体积的快照。
	Stats() Stats

	// Reset 丢弃全部条目，仅供文件监听在根目录变化时调用。
	Reset()
}

// Stats 描述 Store 在某一时刻的占用情况。
type Stats struct {
	Entries   int   `json:"entries"`
	Bodies    int   `json:"bodies"`
	BodyBytes int64 `json:"body_bytes"`
}

// NewStore 构建内存元数据存储，每个站点一份。
func NewStore() Store {
	return &memoryStore{entries: make(map[string]*Entry)}
}

// memoryStore 只在访问 map 时持锁，探测文件系统期间不持有任何锁。
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func (s *memoryStore) Lookup(key string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok
}

func (s *memoryStore) Ensure(key string, policy Policy) *Entry {
	if entry, ok := s.Lookup(key); ok {
		return entry
	}
	if policy == nil || !policy.Match(key) {
		return newEntry(false)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[key]; ok {
		return entry
	}
	entry := newEntry(true)
	s.entries[key] = entry
	return entry
}

func (s *memoryStore) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

func (s *memoryStore) Stats() Stats {
	s.mu.RLock()
	entries := make([]*Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	stats := Stats{Entries: len(entries)}
	for _, entry := range entries {
		count, size := entry.bodyUsage()
		stats.Bodies += count
		stats.BodyBytes += size
	}
	return stats
}

func (s *memoryStore) Reset() {
	s.mu.Lock()
	s.entries = make(map[string]*Entry)
	s.mu.Unlock()
}
