package diskusage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	topderrors "github.com/dverzolla/kubectl-topd/pkg/errors"
	"github.com/dverzolla/kubectl-topd/pkg/measurement"
)

type fakeSource struct {
	mu       sync.Mutex
	stats    map[string]measurement.FSStats
	fail     map[string]error
	delay    time.Duration
	calls    map[string]int
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *fakeSource) NodeFSStats(ctx context.Context, node string) (measurement.FSStats, error) {
	cur := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if cur <= p || s.peak.CompareAndSwap(p, cur) {
			break
		}
	}

	s.mu.Lock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[node]++
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return measurement.FSStats{}, ctx.Err()
		}
	}
	if err, ok := s.fail[node]; ok {
		return measurement.FSStats{}, err
	}
	st, ok := s.stats[node]
	if !ok {
		return measurement.FSStats{}, fmt.Errorf("no stats for %s", node)
	}
	return st, nil
}

func TestFetch_Basic(t *testing.T) {
	src := &fakeSource{stats: map[string]measurement.FSStats{
		"n1": {UsedBytes: 85, CapacityBytes: 100},
		"n2": {UsedBytes: 10, CapacityBytes: 100},
		"n3": {UsedBytes: 92, CapacityBytes: 100},
	}}
	f := &Fetcher{Source: src, Concurrency: 2}

	got, err := f.Fetch(context.Background(), []string{"n1", "n2", "n3"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 85.0, got["n1"].Percent, 1e-9)
	assert.InDelta(t, 10.0, got["n2"].Percent, 1e-9)
	assert.InDelta(t, 92.0, got["n3"].Percent, 1e-9)
	for _, r := range got {
		assert.False(t, r.Degraded)
	}
}

func TestFetch_Empty(t *testing.T) {
	f := &Fetcher{Source: &fakeSource{}}
	got, err := f.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetch_FailureDegradesToZero(t *testing.T) {
	src := &fakeSource{
		stats: map[string]measurement.FSStats{"ok": {UsedBytes: 50, CapacityBytes: 200}},
		fail:  map[string]error{"bad": errors.New("connection refused")},
	}
	errBefore := testutil.ToFloat64(diskFetchTotal.WithLabelValues("error"))

	got, err := (&Fetcher{Source: src}).Fetch(context.Background(), []string{"ok", "bad"})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got["ok"].Percent, 1e-9)
	assert.Equal(t, 0.0, got["bad"].Percent)
	assert.True(t, got["bad"].Degraded)
	assert.Error(t, got["bad"].Err)

	assert.Equal(t, errBefore+1, testutil.ToFloat64(diskFetchTotal.WithLabelValues("error")))
}

func TestFetch_ZeroCapacity(t *testing.T) {
	src := &fakeSource{stats: map[string]measurement.FSStats{"n1": {UsedBytes: 5}}}
	got, err := (&Fetcher{Source: src}).Fetch(context.Background(), []string{"n1"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got["n1"].Percent)
	assert.True(t, got["n1"].Degraded)
}

func TestFetch_StrictFails(t *testing.T) {
	src := &fakeSource{fail: map[string]error{"bad": errors.New("boom")}}
	_, err := (&Fetcher{Source: src, Strict: true}).Fetch(context.Background(), []string{"bad"})
	require.Error(t, err)
	assert.Equal(t, topderrors.ErrCodeDegraded, topderrors.CodeOf(err))
}

func TestFetch_OneRequestPerNodeWithinLimit(t *testing.T) {
	nodes := make([]string, 40)
	stats := map[string]measurement.FSStats{}
	for i := range nodes {
		nodes[i] = fmt.Sprintf("node-%02d", i)
		stats[nodes[i]] = measurement.FSStats{UsedBytes: uint64(i), CapacityBytes: 100}
	}
	src := &fakeSource{stats: stats, delay: 5 * time.Millisecond}

	got, err := (&Fetcher{Source: src, Concurrency: 4}).Fetch(context.Background(), nodes)
	require.NoError(t, err)
	require.Len(t, got, len(nodes))

	for i, n := range nodes {
		assert.Equal(t, 1, src.calls[n], n)
		assert.InDelta(t, float64(i), got[n].Percent, 1e-9)
	}
	assert.LessOrEqual(t, src.peak.Load(), int32(4))
}

func TestFetch_PerRequestTimeout(t *testing.T) {
	src := &fakeSource{
		stats: map[string]measurement.FSStats{"slow": {UsedBytes: 1, CapacityBytes: 2}},
		delay: time.Second,
	}
	f := &Fetcher{Source: src, Timeout: 10 * time.Millisecond}

	got, err := f.Fetch(context.Background(), []string{"slow"})
	require.NoError(t, err)
	assert.True(t, got["slow"].Degraded)
	assert.ErrorIs(t, got["slow"].Err, context.DeadlineExceeded)
}

func TestWorkers(t *testing.T) {
	tests := []struct {
		conc, n, want int
	}{
		{16, 3, 3},
		{2, 10, 2},
		{0, 100, 16},
		{-1, 1, 1},
		{5, 0, 1},
	}
	for _, tt := range tests {
		f := &Fetcher{Concurrency: tt.conc}
		assert.Equal(t, tt.want, f.workers(tt.n), "conc=%d n=%d", tt.conc, tt.n)
	}
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(0))
	l := NewLimiter(0.5)
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Burst())
	assert.Equal(t, 20, NewLimiter(20).Burst())
}
