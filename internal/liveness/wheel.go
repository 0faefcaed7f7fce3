package liveness

import "sync"

const (
	// SlotCount 时间轮槽位数量，每秒一格
	SlotCount = 60
)

// TimeWheel 秒级时间轮，最长延迟 60 秒
type TimeWheel struct {
	slots       [SlotCount]*Slot
	currentSlot int
	slotMu      sync.RWMutex
}

// NewTimeWheel 创建时间轮
func NewTimeWheel() *TimeWheel {
	tw := &TimeWheel{}
	for i := range SlotCount {
		tw.slots[i] = NewSlot()
	}
	return tw
}

// clampDelay 延迟限制在 1-60 秒
func clampDelay(delay int) int {
	switch {
	case delay < 1:
		return 1
	case delay > SlotCount:
		return SlotCount
	}
	return delay
}

// add 放入 delay 秒后的槽位，返回槽位索引
func (tw *TimeWheel) add(e entry, delay int) int {
	tw.slotMu.RLock()
	target := (tw.currentSlot + clampDelay(delay)) % SlotCount
	tw.slotMu.RUnlock()

	tw.slots[target].Add(e)
	return target
}

// remove 从指定槽位删除
func (tw *TimeWheel) remove(key Key, slot int) bool {
	if slot < 0 || slot >= SlotCount {
		return false
	}
	return tw.slots[slot].Remove(key)
}

// Tick 推进一格，返回到期的记录
func (tw *TimeWheel) Tick() []entry {
	tw.slotMu.Lock()
	tw.currentSlot = (tw.currentSlot + 1) % SlotCount
	current := tw.currentSlot
	tw.slotMu.Unlock()

	return tw.slots[current].GetAndClear()
}

// TotalCount 所有槽位的记录总数
func (tw *TimeWheel) TotalCount() int {
	total := 0
	for _, s := range tw.slots {
		total += s.Count()
	}
	return total
}
