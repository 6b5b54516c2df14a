package physics

import "github.com/j-rock/fortress-sub001/entity"

// ContactHandler reacts to a resolved contact event
// The handler pattern-matches the entity kinds it cares about and ignores
// everything else
type ContactHandler func(c Contact, view *WorldView)

// ProximityHandler reacts to a resolved proximity transition
type ProximityHandler func(p Proximity, view *WorldView)

// ContactMatcher is a named contact handler registered on a Simulation
type ContactMatcher struct {
	name    string
	handler ContactHandler
}

func NewContactMatcher(name string, fn ContactHandler) ContactMatcher {
	return ContactMatcher{name: name, handler: fn}
}

func (m ContactMatcher) Name() string { return m.name }

// TryApply hands the event to the handler
func (m ContactMatcher) TryApply(c Contact, view *WorldView) {
	if m.handler != nil {
		m.handler(c, view)
	}
}

// ProximityMatcher is a named proximity handler registered on a Simulation
type ProximityMatcher struct {
	name    string
	handler ProximityHandler
}

func NewProximityMatcher(name string, fn ProximityHandler) ProximityMatcher {
	return ProximityMatcher{name: name, handler: fn}
}

func (m ProximityMatcher) Name() string { return m.name }

func (m ProximityMatcher) TryApply(p Proximity, view *WorldView) {
	if m.handler != nil {
		m.handler(p, view)
	}
}

// ContactPair builds a matcher that only fires for a (kind a, kind b) pair
// fn always receives the a-kind entity first, whichever order the engine used
func ContactPair(name string, a, b entity.Kind, fn func(x, y entity.Entity, kind ContactKind, view *WorldView)) ContactMatcher {
	return NewContactMatcher(name, func(c Contact, view *WorldView) {
		if x, y, ok := entity.Order(c.Entity1, c.Entity2, a, b); ok {
			fn(x, y, c.Kind, view)
		}
	})
}

// ProximityPair is ContactPair for proximity transitions
func ProximityPair(name string, a, b entity.Kind, fn func(x, y entity.Entity, p Proximity, view *WorldView)) ProximityMatcher {
	return NewProximityMatcher(name, func(p Proximity, view *WorldView) {
		if x, y, ok := entity.Order(p.Entity1, p.Entity2, a, b); ok {
			fn(x, y, p, view)
		}
	})
}
