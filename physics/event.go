package physics

import (
	"fmt"

	"github.com/j-rock/fortress-sub001/entity"
)

// ContactKind is the transition a contact event reports
type ContactKind uint8

const (
	ContactStarted ContactKind = iota
	ContactStopped
)

func (k ContactKind) String() string {
	if k == ContactStarted {
		return "started"
	}
	return "stopped"
}

// Contact reports two solid colliders starting or stopping to touch
type Contact struct {
	Kind    ContactKind
	Entity1 entity.Entity
	Entity2 entity.Entity
}

func (c Contact) String() string {
	return fmt.Sprintf("contact %s %s/%s", c.Kind, c.Entity1, c.Entity2)
}

// ProximityStatus is the distance class between a sensor and another collider
type ProximityStatus uint8

const (
	Disjoint ProximityStatus = iota
	WithinMargin
	Intersecting
)

func (s ProximityStatus) String() string {
	switch s {
	case Intersecting:
		return "intersecting"
	case WithinMargin:
		return "within_margin"
	default:
		return "disjoint"
	}
}

// Proximity reports a sensor pair changing status from Prev to Curr
type Proximity struct {
	Entity1 entity.Entity
	Entity2 entity.Entity
	Prev    ProximityStatus
	Curr    ProximityStatus
}

// Entered reports a transition into Intersecting
func (p Proximity) Entered() bool { return p.Curr == Intersecting && p.Prev != Intersecting }

// Left reports a transition out of Intersecting
func (p Proximity) Left() bool { return p.Prev == Intersecting && p.Curr != Intersecting }

func (p Proximity) String() string {
	return fmt.Sprintf("proximity %s->%s %s/%s", p.Prev, p.Curr, p.Entity1, p.Entity2)
}

// shapeTag is stored in cp.Shape.UserData for every shape the simulation owns
type shapeTag struct {
	collider ColliderHandle
	body     BodyHandle
	sensor   bool
	outer    bool // margin ring of a sensor
}

// rawEvent is an engine callback captured during a step, before resolution
// Handles are copied at capture time because the shapes may be gone by the
// time the queue is drained
type rawEvent struct {
	begin bool
	a, b  shapeTag
}

func (ev rawEvent) proximity() bool { return ev.a.sensor || ev.b.sensor }

// ring reports whether the overlap involves a margin ring
func (ev rawEvent) ring() bool { return ev.a.outer || ev.b.outer }
