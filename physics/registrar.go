package physics

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/j-rock/fortress-sub001/entity"
)

// Registrar maps physics handles to the domain entity they belong to
// Entries are created by registered wrappers and removed when those wrappers
// are closed; nothing else writes to it
type Registrar struct {
	entries map[EntityID]entity.Entity
}

func NewRegistrar() *Registrar {
	return &Registrar{entries: make(map[EntityID]entity.Entity)}
}

// Register associates id with e
// Panics with *DuplicateRegistrationError if id is already present
func (r *Registrar) Register(id EntityID, e entity.Entity) {
	if existing, ok := r.entries[id]; ok {
		panic(&DuplicateRegistrationError{ID: id, Existing: existing, Incoming: e})
	}
	r.entries[id] = e
}

// Unregister removes id; an absent id is ignored
func (r *Registrar) Unregister(id EntityID) {
	delete(r.entries, id)
}

// Resolve returns the entity registered under id
// A miss means the id was never registered or has been released; event
// dispatch treats it as "ignore this event"
func (r *Registrar) Resolve(id EntityID) (entity.Entity, bool) {
	e, ok := r.entries[id]
	return e, ok
}

func (r *Registrar) Len() int { return len(r.entries) }

// Digest is an order-independent hash of every entry
// Two runs that registered the same objects produce the same digest
func (r *Registrar) Digest() uint64 {
	var sum uint64
	var buf [35]byte
	for id, e := range r.entries {
		buf[0] = byte(id.Kind)
		binary.LittleEndian.PutUint64(buf[1:], uint64(id.Handle))
		buf[9] = byte(e.Kind)
		buf[10] = byte(e.Player)
		binary.LittleEndian.PutUint32(buf[11:], uint32(e.Bullet))
		binary.LittleEndian.PutUint32(buf[15:], uint32(e.Wraith))
		binary.LittleEndian.PutUint32(buf[19:], uint32(e.Item))
		binary.LittleEndian.PutUint32(buf[23:], uint32(e.Barrel))
		binary.LittleEndian.PutUint32(buf[27:], uint32(e.BuffBox))
		binary.LittleEndian.PutUint32(buf[31:], uint32(e.BuffDrop))
		sum += xxhash.Sum64(buf[:])
	}
	return sum
}
