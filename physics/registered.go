package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/j-rock/fortress-sub001/entity"
)

// RegisteredBody owns a body and its registrar entry
// Close releases both; a body is never destroyed while still registered
type RegisteredBody struct {
	sim      *Simulation
	handle   BodyHandle
	entity   entity.Entity
	attached []*RegisteredCollider
	closed   bool
}

// NewRegisteredBody registers an existing body to e
// Panics with *DuplicateRegistrationError if the body is already registered
func NewRegisteredBody(sim *Simulation, h BodyHandle, e entity.Entity) *RegisteredBody {
	defer sim.borrow("register body")()
	sim.register(BodyID(h), e)
	return &RegisteredBody{sim: sim, handle: h, entity: e}
}

func (b *RegisteredBody) Handle() BodyHandle    { return b.handle }
func (b *RegisteredBody) Entity() entity.Entity { return b.entity }
func (b *RegisteredBody) Closed() bool          { return b.closed }

// Attach creates a collider on the body registered to its own entity
// The collider is closed together with the body
func (b *RegisteredBody) Attach(desc ColliderDesc, e entity.Entity) (*RegisteredCollider, error) {
	if b.closed {
		return nil, ErrStaleHandle
	}
	c, err := b.sim.SpawnCollider(b.handle, desc, e)
	if err != nil {
		return nil, err
	}
	b.attached = append(b.attached, c)
	return c, nil
}

func (b *RegisteredBody) Position() (cp.Vector, bool) { return b.sim.BodyPosition(b.handle) }
func (b *RegisteredBody) Velocity() (cp.Vector, bool) { return b.sim.BodyVelocity(b.handle) }

func (b *RegisteredBody) SetVelocity(v cp.Vector) bool { return b.sim.SetBodyVelocity(b.handle, v) }
func (b *RegisteredBody) SetPosition(p cp.Vector) bool { return b.sim.SetBodyPosition(b.handle, p) }

// Close unregisters the body and destroys it with every collider on it
// Calling Close more than once is a no-op
func (b *RegisteredBody) Close() {
	if b.closed {
		return
	}
	defer b.sim.borrow("release body")()
	b.closed = true

	for _, c := range b.attached {
		c.release()
	}
	b.attached = nil
	b.sim.unregister(BodyID(b.handle))
	b.sim.removeBody(b.handle)
}

// RegisteredCollider owns a collider and its registrar entry
type RegisteredCollider struct {
	sim    *Simulation
	handle ColliderHandle
	entity entity.Entity
	closed bool
}

// NewRegisteredCollider registers an existing collider to e
// Panics with *DuplicateRegistrationError if the collider is already registered
func NewRegisteredCollider(sim *Simulation, h ColliderHandle, e entity.Entity) *RegisteredCollider {
	defer sim.borrow("register collider")()
	sim.register(ColliderID(h), e)
	return &RegisteredCollider{sim: sim, handle: h, entity: e}
}

func (c *RegisteredCollider) Handle() ColliderHandle { return c.handle }
func (c *RegisteredCollider) Entity() entity.Entity  { return c.entity }
func (c *RegisteredCollider) Closed() bool           { return c.closed }

// Position is the center of the collider's bounding box
func (c *RegisteredCollider) Position() (cp.Vector, bool) {
	return c.sim.ColliderPosition(c.handle)
}

// Close unregisters and destroys the collider; repeated calls are no-ops
func (c *RegisteredCollider) Close() {
	if c.closed {
		return
	}
	defer c.sim.borrow("release collider")()
	c.release()
}

func (c *RegisteredCollider) release() {
	if c.closed {
		return
	}
	c.closed = true
	c.sim.unregister(ColliderID(c.handle))
	c.sim.removeCollider(c.handle)
}
