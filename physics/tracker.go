package physics

// pairKey identifies an unordered collider pair
type pairKey struct {
	lo, hi ColliderHandle
}

func makePairKey(a, b ColliderHandle) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// overlap counts the shape overlaps currently active for one collider pair
// Sensors with a margin own two shapes, so a pair can overlap up to four
// shape combinations at once
type overlap struct {
	inner int
	outer int
}

func (o overlap) status() ProximityStatus {
	switch {
	case o.inner > 0:
		return Intersecting
	case o.outer > 0:
		return WithinMargin
	default:
		return Disjoint
	}
}

// proximityTracker derives proximity transitions from raw begin/separate
// callbacks so each status change is reported exactly once
type proximityTracker struct {
	pairs map[pairKey]overlap
}

func newProximityTracker() *proximityTracker {
	return &proximityTracker{pairs: make(map[pairKey]overlap)}
}

// apply records a raw event and returns the status transition it caused
// changed is false when the pair's status class did not move
func (t *proximityTracker) apply(ev rawEvent) (prev, curr ProximityStatus, changed bool) {
	key := makePairKey(ev.a.collider, ev.b.collider)
	o, known := t.pairs[key]
	if !known && !ev.begin {
		return Disjoint, Disjoint, false
	}
	prev = o.status()

	delta := 1
	if !ev.begin {
		delta = -1
	}
	if ev.ring() {
		o.outer = max(o.outer+delta, 0)
	} else {
		o.inner = max(o.inner+delta, 0)
	}

	curr = o.status()
	if curr == Disjoint {
		delete(t.pairs, key)
	} else {
		t.pairs[key] = o
	}
	return prev, curr, prev != curr
}

// forget drops every pair that involves c
func (t *proximityTracker) forget(c ColliderHandle) {
	for k := range t.pairs {
		if k.lo == c || k.hi == c {
			delete(t.pairs, k)
		}
	}
}

func (t *proximityTracker) len() int { return len(t.pairs) }
