package status

import (
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterIsCached(t *testing.T) {
	r := NewRegistry()
	c := r.Counter("physics.events")
	c.Add(3)

	assert.Same(t, c, r.Counter("physics.events"))
	assert.Equal(t, int64(3), r.Counter("physics.events").Load())
	assert.Equal(t, 1, r.TotalCount())
}

func TestNilRegistryYieldsDetachedMetrics(t *testing.T) {
	var r *Registry
	c := r.Counter("x")
	require.NotNil(t, c)
	c.Add(1)
	assert.Equal(t, int64(1), c.Load())
	r.Label("y").Store("ok")
}

func TestSummaryOrderAndShortKeys(t *testing.T) {
	r := NewRegistry()
	r.Counter("physics.dropped").Store(2)
	r.Counter("physics.events").Store(10)
	r.Label("game.session").Store("abc")

	got := r.Summary("physics.events", "physics.missing", "physics.dropped", "game.session")
	assert.Equal(t, "events=10 dropped=2 session=abc", got)
}

func TestDumpListsEveryMetric(t *testing.T) {
	r := NewRegistry()
	r.Counter("wraith.kills").Store(4)
	r.Counter("player.shots").Store(9)
	r.Label("game.session").Store("s1")

	assert.Equal(t, "player.shots=9 wraith.kills=4 game.session=s1", r.Dump())
	assert.Equal(t, 3, r.TotalCount())
	assert.Empty(t, NewRegistry().Dump())
}

func TestRangeSorted(t *testing.T) {
	r := NewRegistry()
	r.Counter("b")
	r.Counter("a")
	r.Counter("c")

	var keys []string
	r.Ints.Range(func(k string, _ *atomic.Int64) { keys = append(keys, k) })
	assert.Equal(t, "a,b,c", strings.Join(keys, ","))
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	assert.Equal(t, "", s.Load())
	s.Store(strings.Repeat("x", MaxStringLen+5))
	assert.Len(t, s.Load(), MaxStringLen)
}
