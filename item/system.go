// Package item runs collectibles: item pickups, buff boxes and the buff
// drops they leave behind
package item

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/j-rock/fortress-sub001/core"
	"github.com/j-rock/fortress-sub001/data"
	"github.com/j-rock/fortress-sub001/entity"
	"github.com/j-rock/fortress-sub001/physics"
	"github.com/j-rock/fortress-sub001/player"
	"github.com/j-rock/fortress-sub001/script"
	"github.com/j-rock/fortress-sub001/status"
)

const (
	itemRadius = 0.7
	dropRadius = 0.6
)

// Players is the part of the player system that receives item effects
type Players interface {
	Pickups() []player.Pickup
	Strikes() []player.Strike
	Heal(id entity.PlayerID, amount int)
	AddAmmo(id entity.PlayerID, amount int)
	AddScore(id entity.PlayerID, amount int)
	GrantBuff(id entity.PlayerID, kind string, multiplier float64, d time.Duration)
}

// Kind of a collectible, for rendering
type Kind uint8

const (
	KindItem Kind = iota
	KindBox
	KindDrop
)

// Sprite is a collectible's position and label
type Sprite struct {
	Kind  Kind
	Label string
	Pos   cp.Vector
}

type pickup struct {
	label    string
	pos      cp.Vector
	collider *physics.RegisteredCollider
}

// System owns items, buff boxes and buff drops
type System struct {
	sim     *physics.Simulation
	world   *data.World
	players Players
	scripts *script.Engine
	audio   physics.AudioPlayer
	log     *zap.Logger

	items    map[entity.ItemID]*pickup
	boxes    map[entity.BuffBoxID]*pickup
	drops    map[entity.BuffDropID]*pickup
	nextDrop entity.BuffDropID
	claimed  map[entity.Entity]struct{}

	collected *atomic.Int64
	broken    *atomic.Int64
}

// NewSystem places the map's items and buff boxes
func NewSystem(sim *physics.Simulation, world *data.World, players Players, scripts *script.Engine,
	audio physics.AudioPlayer, log *zap.Logger, stats *status.Registry) (*System, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &System{
		sim:       sim,
		world:     world,
		players:   players,
		scripts:   scripts,
		audio:     audio,
		log:       log.Named("item"),
		items:     make(map[entity.ItemID]*pickup),
		boxes:     make(map[entity.BuffBoxID]*pickup),
		drops:     make(map[entity.BuffDropID]*pickup),
		claimed:   make(map[entity.Entity]struct{}),
		collected: stats.Counter("item.collected"),
		broken:    stats.Counter("item.boxes_broken"),
	}

	for i, spawn := range world.Map.Items {
		id := entity.ItemID(i)
		c, err := s.place(physics.Circle(itemRadius), spawn.Pos.CP(), true, physics.FilterPickup, entity.Item(id))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("place item %d: %w", i, err)
		}
		s.items[id] = &pickup{label: spawn.Kind, pos: spawn.Pos.CP(), collider: c}
	}
	for i, spawn := range world.Map.BuffBoxes {
		id := entity.BuffBoxID(i)
		c, err := s.place(physics.Box(spawn.Size, spawn.Size), spawn.Pos.CP(), false, physics.FilterBuffBox, entity.BuffBox(id))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("place buff box %d: %w", i, err)
		}
		s.boxes[id] = &pickup{label: spawn.Buff, pos: spawn.Pos.CP(), collider: c}
	}
	return s, nil
}

// place attaches a collider to the static body at pos
func (s *System) place(shape physics.ShapeDesc, pos cp.Vector, sensor bool, filter physics.Filter, e entity.Entity) (*physics.RegisteredCollider, error) {
	return s.sim.SpawnCollider(s.sim.StaticBody(), physics.ColliderDesc{
		Shape:  shape.At(pos),
		Sensor: sensor,
		Filter: filter,
	}, e)
}

func (s *System) play(st core.SoundType) {
	if s.audio != nil {
		s.audio.Play(st)
	}
}

// PreUpdate forgets last frame's claims
func (s *System) PreUpdate() {
	clear(s.claimed)
}

// PostUpdate applies this frame's pickups and breaks struck buff boxes
func (s *System) PostUpdate() {
	for _, pk := range s.players.Pickups() {
		if id, ok := pk.What.AsItem(); ok {
			s.collect(pk.Player, id)
		} else if id, ok := pk.What.AsBuffDrop(); ok {
			s.consume(pk.Player, id)
		}
	}

	for _, st := range s.players.Strikes() {
		if id, ok := st.Target.AsBuffBox(); ok {
			s.breakBox(id)
		}
	}
}

func (s *System) collect(pid entity.PlayerID, id entity.ItemID) {
	it, ok := s.items[id]
	if !ok {
		return
	}
	entry, _ := s.world.Item(it.label)
	switch entry.Kind {
	case "heal":
		s.players.Heal(pid, entry.Amount)
	case "ammo":
		s.players.AddAmmo(pid, entry.Amount)
	case "score":
		s.players.AddScore(pid, entry.Amount)
	default:
		s.log.Warn("item kind has no effect", zap.String("kind", entry.Kind))
	}
	it.collider.Close()
	delete(s.items, id)
	s.collected.Add(1)
	s.log.Debug("item collected", zap.Uint32("item", uint32(id)), zap.String("kind", it.label), zap.Uint8("player", uint8(pid)))
}

func (s *System) consume(pid entity.PlayerID, id entity.BuffDropID) {
	d, ok := s.drops[id]
	if !ok {
		return
	}
	entry, _ := s.world.Buff(d.label)
	dur := entry.Duration
	if s.scripts != nil {
		dur = s.scripts.BuffDuration(entry.Kind, entry.Duration)
	}
	s.players.GrantBuff(pid, entry.Kind, entry.Multiplier, dur)
	d.collider.Close()
	delete(s.drops, id)
	s.collected.Add(1)
}

func (s *System) breakBox(id entity.BuffBoxID) {
	b, ok := s.boxes[id]
	if !ok {
		return
	}
	b.collider.Close()
	delete(s.boxes, id)
	s.broken.Add(1)
	s.play(core.SoundBoxBreak)

	s.nextDrop++
	did := s.nextDrop
	c, err := s.place(physics.Circle(dropRadius), b.pos, true, physics.FilterPickup, entity.BuffDrop(did))
	if err != nil {
		s.log.Error("buff drop failed", zap.Uint32("box", uint32(id)), zap.Error(err))
		return
	}
	s.drops[did] = &pickup{label: b.label, pos: b.pos, collider: c}
}

// Sprites lists every live collectible
func (s *System) Sprites() []Sprite {
	out := make([]Sprite, 0, len(s.items)+len(s.boxes)+len(s.drops))
	for _, it := range s.items {
		out = append(out, Sprite{Kind: KindItem, Label: it.label, Pos: it.pos})
	}
	for _, b := range s.boxes {
		out = append(out, Sprite{Kind: KindBox, Label: b.label, Pos: b.pos})
	}
	for _, d := range s.drops {
		out = append(out, Sprite{Kind: KindDrop, Label: d.label, Pos: d.pos})
	}
	return out
}

// Counts reports live items, boxes and drops
func (s *System) Counts() (items, boxes, drops int) {
	return len(s.items), len(s.boxes), len(s.drops)
}

// Close releases every collider the system owns
func (s *System) Close() {
	for id, it := range s.items {
		it.collider.Close()
		delete(s.items, id)
	}
	for id, b := range s.boxes {
		b.collider.Close()
		delete(s.boxes, id)
	}
	for id, d := range s.drops {
		d.collider.Close()
		delete(s.drops, id)
	}
}
