// Package gamemap builds the arena: static walls and destructible barrels
package gamemap

import (
	"fmt"
	"sync/atomic"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/j-rock/fortress-sub001/core"
	"github.com/j-rock/fortress-sub001/data"
	"github.com/j-rock/fortress-sub001/entity"
	"github.com/j-rock/fortress-sub001/physics"
	"github.com/j-rock/fortress-sub001/player"
	"github.com/j-rock/fortress-sub001/status"
)

const barrelMass = 3

// Strikes is the strike log barrels are damaged from
type Strikes interface {
	Strikes() []player.Strike
}

type barrel struct {
	body *physics.RegisteredBody
	size float64
	hits int
}

// Map owns every wall collider and barrel body
type Map struct {
	sim     *physics.Simulation
	strikes Strikes
	audio   physics.AudioPlayer
	log     *zap.Logger

	width, height float64
	walls         []*physics.RegisteredCollider
	wallSegments  []data.Wall
	barrels       map[entity.BarrelID]*barrel

	destroyed *atomic.Int64
}

// New builds walls on the static body and spawns barrels
func New(sim *physics.Simulation, world *data.World, strikes Strikes, audio physics.AudioPlayer,
	log *zap.Logger, stats *status.Registry) (*Map, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Map{
		sim:          sim,
		strikes:      strikes,
		audio:        audio,
		log:          log.Named("map"),
		width:        world.Map.Width,
		height:       world.Map.Height,
		wallSegments: world.Map.Walls,
		barrels:      make(map[entity.BarrelID]*barrel),
		destroyed:    stats.Counter("map.barrels_destroyed"),
	}

	for i, w := range world.Map.Walls {
		c, err := sim.SpawnCollider(sim.StaticBody(), physics.ColliderDesc{
			Shape:    physics.Segment(w.A.CP(), w.B.CP(), w.Radius),
			Friction: 0.4,
			Filter:   physics.FilterBarrier,
		}, entity.MapWall())
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("wall %d: %w", i, err)
		}
		m.walls = append(m.walls, c)
	}

	for i, spawn := range world.Map.Barrels {
		id := entity.BarrelID(i)
		rb, err := sim.SpawnBody(
			physics.BodyDesc{Position: spawn.Pos.CP(), Mass: barrelMass},
			entity.Barrel(id),
			physics.ColliderDesc{Shape: physics.Box(spawn.Size, spawn.Size), Friction: 0.6, Filter: physics.FilterBarrel},
		)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("barrel %d: %w", i, err)
		}
		m.barrels[id] = &barrel{body: rb, size: spawn.Size, hits: max(spawn.Hits, 1)}
	}

	m.log.Debug("map built", zap.Int("walls", len(m.walls)), zap.Int("barrels", len(m.barrels)))
	return m, nil
}

// PostUpdate wears barrels down by this frame's strikes
func (m *Map) PostUpdate() {
	for _, st := range m.strikes.Strikes() {
		id, ok := st.Target.AsBarrel()
		if !ok {
			continue
		}
		b, ok := m.barrels[id]
		if !ok {
			continue
		}
		b.hits--
		if b.hits > 0 {
			continue
		}
		b.body.Close()
		delete(m.barrels, id)
		m.destroyed.Add(1)
		if m.audio != nil {
			m.audio.Play(core.SoundExplosion)
		}
		m.log.Debug("barrel destroyed", zap.Uint32("barrel", uint32(id)), zap.Uint8("by", uint8(st.Owner)))
	}
}

// Size is the arena extent in world units
func (m *Map) Size() (width, height float64) { return m.width, m.height }

// Walls returns the wall segments for rendering
func (m *Map) Walls() []data.Wall { return m.wallSegments }

// EachBarrel visits the position and size of every standing barrel
func (m *Map) EachBarrel(fn func(pos cp.Vector, size float64)) {
	for _, b := range m.barrels {
		if pos, ok := b.body.Position(); ok {
			fn(pos, b.size)
		}
	}
}

func (m *Map) Barrels() int { return len(m.barrels) }

// Close releases every wall and barrel
func (m *Map) Close() {
	for _, c := range m.walls {
		c.Close()
	}
	m.walls = nil
	for id, b := range m.barrels {
		b.body.Close()
		delete(m.barrels, id)
	}
}
