package physics

import "fmt"

// Handle encodes a 32-bit slot index in the lower bits and a 32-bit
// generation in the upper bits. A slot's generation advances when its object
// is removed, so a stale handle never resolves to a later occupant
type Handle uint64

func newHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }

func (h Handle) String() string {
	return fmt.Sprintf("%d@%d", h.Index(), h.Generation())
}

// BodyHandle identifies a rigid body in a Simulation
type BodyHandle Handle

// ColliderHandle identifies a collider in a Simulation
type ColliderHandle Handle

func (h BodyHandle) String() string     { return "body:" + Handle(h).String() }
func (h ColliderHandle) String() string { return "collider:" + Handle(h).String() }

type slot[T any] struct {
	generation uint32
	live       bool
	value      T
}

// arena stores values behind generational handles with slot reuse
// Generations start at 1 so the zero Handle is never live
type arena[T any] struct {
	slots    []slot[T]
	freeList []uint32
	live     int
}

func (a *arena[T]) insert(v T) Handle {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		s := &a.slots[idx]
		s.live = true
		s.value = v
		a.live++
		return newHandle(idx, s.generation)
	}
	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{generation: 1, live: true, value: v})
	a.live++
	return newHandle(idx, 1)
}

func (a *arena[T]) get(h Handle) (T, bool) {
	idx := h.Index()
	if int(idx) >= len(a.slots) {
		var zero T
		return zero, false
	}
	s := &a.slots[idx]
	if !s.live || s.generation != h.Generation() {
		var zero T
		return zero, false
	}
	return s.value, true
}

// remove frees the slot; removing a stale handle is a no-op
func (a *arena[T]) remove(h Handle) (T, bool) {
	var zero T
	idx := h.Index()
	if int(idx) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[idx]
	if !s.live || s.generation != h.Generation() {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.live = false
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	a.freeList = append(a.freeList, idx)
	a.live--
	return v, true
}

func (a *arena[T]) len() int { return a.live }

// each visits live values in slot order
func (a *arena[T]) each(fn func(Handle, T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.live {
			fn(newHandle(uint32(i), s.generation), s.value)
		}
	}
}
