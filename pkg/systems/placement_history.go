package systems

// HistoryEntry 一次障碍物放置的 (x, lane) 记录
type HistoryEntry struct {
	X    float64
	Lane int
}

// PlacementHistory 多样性评分使用的有界 FIFO
//
// 只保存最近 size 次放置；同时跟踪上一次的行号和同行连续次数。
// 每次生成开始时新建，不跨生成保留。
type PlacementHistory struct {
	size     int
	entries  []HistoryEntry
	lastLane int
	streak   int
}

// NewPlacementHistory 创建窗口大小为 size 的历史，size ≤ 0 时不保留条目（仍跟踪连续次数）
func NewPlacementHistory(size int) *PlacementHistory {
	if size < 0 {
		size = 0
	}
	return &PlacementHistory{
		size:     size,
		entries:  make([]HistoryEntry, 0, size),
		lastLane: -1,
	}
}

// Record 记录一次放置并裁剪到窗口大小
func (h *PlacementHistory) Record(lane int, x float64) {
	if lane == h.lastLane {
		h.streak++
	} else {
		h.lastLane = lane
		h.streak = 1
	}

	if h.size == 0 {
		return
	}
	h.entries = append(h.entries, HistoryEntry{X: x, Lane: lane})
	if over := len(h.entries) - h.size; over > 0 {
		h.entries = append(h.entries[:0], h.entries[over:]...)
	}
}

// Entries 返回窗口内的记录，最旧的在前
func (h *PlacementHistory) Entries() []HistoryEntry {
	return h.entries
}

// Len 返回窗口内的记录数
func (h *PlacementHistory) Len() int {
	return len(h.entries)
}

// ContainsLane 行号是否出现在窗口内
func (h *PlacementHistory) ContainsLane(lane int) bool {
	for _, e := range h.entries {
		if e.Lane == lane {
			return true
		}
	}
	return false
}

// LastLane 上一次放置的行号，尚无放置时为 -1
func (h *PlacementHistory) LastLane() int {
	return h.lastLane
}

// Streak 上一次放置所在行的连续次数
func (h *PlacementHistory) Streak() int {
	return h.streak
}

