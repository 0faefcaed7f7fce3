package liveness

import "sync"

// Key 被监控的玩家
type Key struct {
	Game   string
	Player string
}

// entry 时间轮中的一条记录，version 用于识别被心跳刷新过的旧记录
type entry struct {
	key     Key
	version uint64
}

// Slot 时间轮槽位
type Slot struct {
	mu      sync.Mutex
	entries map[Key]entry
}

// NewSlot 创建新槽位
func NewSlot() *Slot {
	return &Slot{
		entries: make(map[Key]entry),
	}
}

// Add 添加记录，同一玩家只保留最新一条
func (s *Slot) Add(e entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[e.key] = e
}

// Remove 删除记录
func (s *Slot) Remove(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; exists {
		delete(s.entries, key)
		return true
	}
	return false
}

// GetAndClear 取出全部记录并清空槽位
func (s *Slot) GetAndClear() []entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return nil
	}

	out := make([]entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.entries = make(map[Key]entry)

	return out
}

// Count 槽位记录数
func (s *Slot) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
