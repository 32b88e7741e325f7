package metrics

import (
	"sync"
	"time"
)

// Sample 單一請求的量測
type Sample struct {
	Route    string        `json:"route"`
	Method   string        `json:"method"`
	Status   int           `json:"status"`
	Duration time.Duration `json:"duration_ns"`
	At       time.Time     `json:"at"`
}

// Stats 快照的彙總
type Stats struct {
	Count         int            `json:"count"`
	AvgDurationMs float64        `json:"avg_duration_ms"`
	StatusCounts  map[int]int64  `json:"status_counts"`
	RouteCounts   map[string]int `json:"route_counts"`
}

// Buffer 固定容量的環形緩衝, 滿了淘汰最舊樣本
// 以明確的handle傳遞, 不做package level singleton
type Buffer struct {
	mu   sync.Mutex
	buf  []Sample
	head int // 下一個寫入位置
	size int
}

func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &Buffer{
		buf: make([]Sample, capacity),
	}
}

func (b *Buffer) Record(s Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf[b.head] = s
	b.head = (b.head + 1) % len(b.buf)
	if b.size < len(b.buf) {
		b.size++
	}
}

// Snapshot 由舊到新回傳目前保留的樣本
func (b *Buffer) Snapshot() []Sample {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Sample, 0, b.size)
	start := b.head - b.size
	if start < 0 {
		start += len(b.buf)
	}
	for i := 0; i < b.size; i++ {
		out = append(out, b.buf[(start+i)%len(b.buf)])
	}
	return out
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

func (b *Buffer) Cap() int {
	return len(b.buf)
}

func (b *Buffer) Stats() Stats {
	samples := b.Snapshot()
	stats := Stats{
		Count:        len(samples),
		StatusCounts: make(map[int]int64),
		RouteCounts:  make(map[string]int),
	}
	if len(samples) == 0 {
		return stats
	}

	var totalMs float64
	for _, s := range samples {
		totalMs += float64(s.Duration) / float64(time.Millisecond)
		stats.StatusCounts[s.Status]++
		stats.RouteCounts[s.Route]++
	}
	stats.AvgDurationMs = totalMs / float64(len(samples))
	return stats
}
