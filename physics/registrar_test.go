package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-rock/fortress-sub001/entity"
)

// panicValue runs fn and returns what it panicked with, or nil
func panicValue(fn func()) (v any) {
	defer func() { v = recover() }()
	fn()
	return nil
}

func TestRegistrarRoundTrip(t *testing.T) {
	r := NewRegistrar()
	id := ColliderID(ColliderHandle(newHandle(4, 1)))

	r.Register(id, entity.Bullet(1, 7))
	e, ok := r.Resolve(id)
	require.True(t, ok)
	assert.Equal(t, entity.Bullet(1, 7), e)

	_, ok = r.Resolve(BodyID(BodyHandle(newHandle(4, 1))))
	assert.False(t, ok, "body and collider ids with the same handle are distinct")

	r.Unregister(id)
	_, ok = r.Resolve(id)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRegistrarDuplicatePanics(t *testing.T) {
	r := NewRegistrar()
	id := BodyID(BodyHandle(newHandle(1, 1)))
	r.Register(id, entity.Player(0))

	v := panicValue(func() { r.Register(id, entity.Wraith(3)) })
	dup, ok := v.(*DuplicateRegistrationError)
	require.True(t, ok, "got %v", v)
	assert.Equal(t, entity.Player(0), dup.Existing)
	assert.Equal(t, entity.Wraith(3), dup.Incoming)

	e, _ := r.Resolve(id)
	assert.Equal(t, entity.Player(0), e, "failed registration leaves the original entry")
}

func TestRegistrarDoubleUnregister(t *testing.T) {
	r := NewRegistrar()
	id := ColliderID(ColliderHandle(newHandle(2, 1)))
	r.Register(id, entity.MapWall())

	r.Unregister(id)
	assert.NotPanics(t, func() { r.Unregister(id) })
	assert.Equal(t, 0, r.Len())
}

func TestRegistrarDigestOrderIndependent(t *testing.T) {
	ids := []EntityID{
		BodyID(BodyHandle(newHandle(1, 1))),
		ColliderID(ColliderHandle(newHandle(2, 1))),
		ColliderID(ColliderHandle(newHandle(3, 2))),
	}
	ents := []entity.Entity{entity.Player(0), entity.Bullet(1, 7), entity.BuffBox(4)}

	a, b := NewRegistrar(), NewRegistrar()
	for i := range ids {
		a.Register(ids[i], ents[i])
		b.Register(ids[len(ids)-1-i], ents[len(ids)-1-i])
	}
	assert.Equal(t, a.Digest(), b.Digest())

	b.Unregister(ids[1])
	assert.NotEqual(t, a.Digest(), b.Digest())
	assert.Equal(t, uint64(0), NewRegistrar().Digest())
}
