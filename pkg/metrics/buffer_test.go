package metrics

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sample(route string, status int, d time.Duration) Sample {
	return Sample{
		Route:    route,
		Method:   "GET",
		Status:   status,
		Duration: d,
		At:       time.Now(),
	}
}

func TestBuffer_RecordAndSnapshot(t *testing.T) {
	b := NewBuffer(5)
	require.Equal(t, 5, b.Cap())
	require.Equal(t, 0, b.Len())

	b.Record(sample("/a", 200, time.Millisecond))
	b.Record(sample("/b", 200, time.Millisecond))
	require.Equal(t, 2, b.Len())

	snap := b.Snapshot()
	require.Len(t, snap, 2)
	require.Equal(t, "/a", snap[0].Route)
	require.Equal(t, "/b", snap[1].Route)
}

func TestBuffer_EvictsOldestWhenFull(t *testing.T) {
	b := NewBuffer(3)
	for i := 1; i <= 5; i++ {
		b.Record(sample(fmt.Sprintf("/r%d", i), 200, time.Millisecond))
	}

	require.Equal(t, 3, b.Len())
	snap := b.Snapshot()
	require.Len(t, snap, 3)
	// 只剩最新三筆, 由舊到新
	require.Equal(t, "/r3", snap[0].Route)
	require.Equal(t, "/r4", snap[1].Route)
	require.Equal(t, "/r5", snap[2].Route)
}

func TestBuffer_ZeroCapacityFallsBackToOne(t *testing.T) {
	b := NewBuffer(0)
	require.Equal(t, 1, b.Cap())

	b.Record(sample("/a", 200, time.Millisecond))
	b.Record(sample("/b", 200, time.Millisecond))
	snap := b.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, "/b", snap[0].Route)
}

func TestBuffer_Stats(t *testing.T) {
	b := NewBuffer(10)
	b.Record(sample("/orders", 201, 10*time.Millisecond))
	b.Record(sample("/orders", 400, 20*time.Millisecond))
	b.Record(sample("/products", 200, 30*time.Millisecond))

	stats := b.Stats()
	require.Equal(t, 3, stats.Count)
	require.InDelta(t, 20.0, stats.AvgDurationMs, 0.001)
	require.EqualValues(t, 1, stats.StatusCounts[201])
	require.EqualValues(t, 1, stats.StatusCounts[400])
	require.EqualValues(t, 1, stats.StatusCounts[200])
	require.Equal(t, 2, stats.RouteCounts["/orders"])
}

func TestBuffer_StatsEmpty(t *testing.T) {
	b := NewBuffer(4)
	stats := b.Stats()
	require.Equal(t, 0, stats.Count)
	require.Zero(t, stats.AvgDurationMs)
}

func TestBuffer_ConcurrentRecord(t *testing.T) {
	b := NewBuffer(64)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Record(sample("/x", 200, time.Millisecond))
				b.Snapshot()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 64, b.Len())
}
