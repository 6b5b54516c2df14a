package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerMarginTransitions(t *testing.T) {
	sensor := ColliderHandle(newHandle(1, 1))
	other := ColliderHandle(newHandle(2, 1))
	inner := shapeTag{collider: sensor, sensor: true}
	ring := shapeTag{collider: sensor, sensor: true, outer: true}
	target := shapeTag{collider: other}

	tr := newProximityTracker()

	type step struct {
		ev      rawEvent
		prev    ProximityStatus
		curr    ProximityStatus
		changed bool
	}
	steps := []step{
		{rawEvent{begin: true, a: ring, b: target}, Disjoint, WithinMargin, true},
		{rawEvent{begin: true, a: target, b: inner}, WithinMargin, Intersecting, true},
		{rawEvent{begin: false, a: inner, b: target}, Intersecting, WithinMargin, true},
		{rawEvent{begin: false, a: ring, b: target}, WithinMargin, Disjoint, true},
	}
	for i, s := range steps {
		prev, curr, changed := tr.apply(s.ev)
		assert.Equal(t, s.prev, prev, "step %d prev", i)
		assert.Equal(t, s.curr, curr, "step %d curr", i)
		assert.Equal(t, s.changed, changed, "step %d changed", i)
	}
	assert.Equal(t, 0, tr.len())
}

func TestTrackerInnerWhileRingHeldIsSingleTransition(t *testing.T) {
	sensor := ColliderHandle(newHandle(1, 1))
	other := ColliderHandle(newHandle(2, 1))
	inner := shapeTag{collider: sensor, sensor: true}
	ring := shapeTag{collider: sensor, sensor: true, outer: true}
	target := shapeTag{collider: other}

	tr := newProximityTracker()
	tr.apply(rawEvent{begin: true, a: ring, b: target})
	tr.apply(rawEvent{begin: true, a: inner, b: target})

	// leaving the ring while still inside the inner shape changes nothing
	_, curr, changed := tr.apply(rawEvent{begin: false, a: ring, b: target})
	assert.False(t, changed)
	assert.Equal(t, Intersecting, curr)
}

func TestTrackerIgnoresUnknownSeparate(t *testing.T) {
	tr := newProximityTracker()
	_, _, changed := tr.apply(rawEvent{
		a: shapeTag{collider: ColliderHandle(newHandle(1, 1)), sensor: true},
		b: shapeTag{collider: ColliderHandle(newHandle(2, 1))},
	})
	assert.False(t, changed)
	assert.Equal(t, 0, tr.len())
}

func TestTrackerForget(t *testing.T) {
	a := ColliderHandle(newHandle(1, 1))
	b := ColliderHandle(newHandle(2, 1))
	c := ColliderHandle(newHandle(3, 1))

	tr := newProximityTracker()
	tr.apply(rawEvent{begin: true, a: shapeTag{collider: a, sensor: true}, b: shapeTag{collider: b}})
	tr.apply(rawEvent{begin: true, a: shapeTag{collider: a, sensor: true}, b: shapeTag{collider: c}})
	tr.apply(rawEvent{begin: true, a: shapeTag{collider: b, sensor: true}, b: shapeTag{collider: c}})
	assert.Equal(t, 3, tr.len())

	tr.forget(a)
	assert.Equal(t, 1, tr.len())
}
