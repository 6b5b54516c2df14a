// Package wraith runs the hostile wanderers
//
// Wraiths wander until a player's reach sensor notices them, then chase the
// nearest player in sight. Touching a player hurts it and stuns the wraith;
// bullet strikes logged by the player system wear them down.
package wraith

import (
	"fmt"
	"math"
	"math/rand"
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

// Targets is the read side of the player system wraiths depend on
type Targets interface {
	Position(id entity.PlayerID) (cp.Vector, bool)
	Health(id entity.PlayerID) int
	Strikes() []player.Strike
	CreditKill(id entity.PlayerID)
}

// Wraith is one wraith; fields are only written by System
type Wraith struct {
	id       entity.WraithID
	state    State
	body     *physics.RegisteredBody
	spawn    cp.Vector
	health   int
	heading  cp.Vector
	turnIn   time.Duration
	stunLeft time.Duration
	deadFor  time.Duration
	sighted  map[entity.PlayerID]struct{}
}

func (w *Wraith) ID() entity.WraithID { return w.id }
func (w *Wraith) State() State        { return w.state }
func (w *Wraith) Health() int         { return w.health }

// Position is the body position; false while dead
func (w *Wraith) Position() (cp.Vector, bool) {
	if w.body == nil {
		return cp.Vector{}, false
	}
	return w.body.Position()
}

type sighting struct {
	wraith entity.WraithID
	player entity.PlayerID
	seen   bool
}

// System owns every wraith
type System struct {
	sim     *physics.Simulation
	table   data.WraithTable
	targets Targets
	scripts *script.Engine
	audio   physics.AudioPlayer
	rng     *rand.Rand
	log     *zap.Logger

	wraiths   []*Wraith
	sightings []sighting
	touched   []entity.WraithID

	kills   *atomic.Int64
	touches *atomic.Int64
}

// NewSystem spawns n wraiths, cycling through the map's wraith spawns
func NewSystem(sim *physics.Simulation, world *data.World, n int, targets Targets, scripts *script.Engine,
	audio physics.AudioPlayer, seed int64, log *zap.Logger, stats *status.Registry) (*System, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if n > 0 && len(world.Map.WraithSpawns) == 0 {
		return nil, fmt.Errorf("%d wraiths requested but the map has no wraith spawns", n)
	}

	s := &System{
		sim:     sim,
		table:   world.Wraith,
		targets: targets,
		scripts: scripts,
		audio:   audio,
		rng:     rand.New(rand.NewSource(seed)),
		log:     log.Named("wraith"),
		kills:   stats.Counter("wraith.kills"),
		touches: stats.Counter("wraith.touches"),
	}
	for i := 0; i < n; i++ {
		w := &Wraith{
			id:    entity.WraithID(i),
			spawn: world.Map.WraithSpawns[i%len(world.Map.WraithSpawns)].CP(),
		}
		if err := s.spawnBody(w); err != nil {
			s.Close()
			return nil, err
		}
		s.wraiths = append(s.wraiths, w)
	}
	return s, nil
}

func (s *System) spawnBody(w *Wraith) error {
	rb, err := s.sim.SpawnBody(
		physics.BodyDesc{Position: w.spawn, Mass: s.table.Mass, FixedRotation: true},
		entity.Wraith(w.id),
		physics.ColliderDesc{Shape: physics.Circle(s.table.Radius), Filter: physics.FilterWraith},
	)
	if err != nil {
		return fmt.Errorf("spawn wraith %d: %w", w.id, err)
	}
	w.body = rb
	w.health = s.table.Health
	w.deadFor = 0
	w.stunLeft = 0
	w.turnIn = 0
	w.sighted = make(map[entity.PlayerID]struct{})
	return nil
}

func (s *System) wraith(id entity.WraithID) *Wraith {
	if int(id) < len(s.wraiths) {
		return s.wraiths[id]
	}
	return nil
}

func (s *System) play(st core.SoundType) {
	if s.audio != nil {
		s.audio.Play(st)
	}
}

func (s *System) transition(w *Wraith, in Input) {
	prev := w.state
	w.state = next(w.state, in)
	if prev == w.state {
		return
	}
	s.log.Debug("wraith state",
		zap.Uint32("wraith", uint32(w.id)), zap.Stringer("from", prev), zap.Stringer("to", w.state))

	switch w.state {
	case Stunned:
		w.stunLeft = s.table.StunDuration
	case Dead:
		w.body.Close()
		w.body = nil
		w.sighted = nil
		s.kills.Add(1)
		s.play(core.SoundWraithDeath)
	}
}

// PreUpdate advances timers and steers every live wraith
func (s *System) PreUpdate(dt time.Duration) {
	s.sightings = nil
	s.touched = nil

	for _, w := range s.wraiths {
		if w.state == Dead {
			w.deadFor += dt
			if w.deadFor < s.table.RespawnDelay {
				continue
			}
			if err := s.spawnBody(w); err != nil {
				s.log.Error("respawn failed", zap.Uint32("wraith", uint32(w.id)), zap.Error(err))
				continue
			}
			s.transition(w, Input{RespawnDue: true})
		}

		w.stunLeft = max(w.stunLeft-dt, 0)
		target, hasTarget := s.nearest(w)
		s.transition(w, Input{Target: hasTarget, StunOver: w.stunLeft == 0})

		switch w.state {
		case Stunned:
			w.body.SetVelocity(cp.Vector{})
		case Chasing:
			pos, _ := w.body.Position()
			if d := target.Sub(pos); d.Length() > 1e-6 {
				w.body.SetVelocity(d.Normalize().Mult(s.table.ChaseSpeed))
			}
		case Wandering:
			w.turnIn -= dt
			if w.turnIn <= 0 || w.heading == (cp.Vector{}) {
				w.heading = cp.ForAngle(s.rng.Float64() * 2 * math.Pi)
				w.turnIn = s.table.WanderTurn
			}
			w.body.SetVelocity(w.heading.Mult(s.table.WanderSpeed))
		}
	}
}

// nearest is the position of the closest live player in sight
// Players that died while in sight are pruned here since their separate
// events arrive for colliders that no longer resolve
func (s *System) nearest(w *Wraith) (cp.Vector, bool) {
	pos, ok := w.body.Position()
	if !ok {
		return cp.Vector{}, false
	}
	var (
		best  cp.Vector
		found bool
		dist  = math.Inf(1)
	)
	for pid := range w.sighted {
		tp, alive := s.targets.Position(pid)
		if !alive {
			delete(w.sighted, pid)
			continue
		}
		if d := tp.DistanceSq(pos); d < dist {
			best, dist, found = tp, d, true
		}
	}
	return best, found
}

// PostUpdate applies sightings, touches and strikes recorded this frame
func (s *System) PostUpdate() {
	for _, sg := range s.sightings {
		w := s.wraith(sg.wraith)
		if w == nil || !w.state.Alive() {
			continue
		}
		if sg.seen {
			w.sighted[sg.player] = struct{}{}
		} else {
			delete(w.sighted, sg.player)
		}
	}

	for _, id := range s.touched {
		if w := s.wraith(id); w != nil && w.state.Alive() {
			s.transition(w, Input{Stun: true})
		}
	}

	for _, st := range s.targets.Strikes() {
		id, ok := st.Target.AsWraith()
		if !ok {
			continue
		}
		w := s.wraith(id)
		if w == nil || !w.state.Alive() {
			continue
		}
		w.health -= st.Damage
		if w.health <= 0 {
			s.transition(w, Input{Killed: true})
			s.targets.CreditKill(st.Owner)
			s.log.Info("wraith killed", zap.Uint32("wraith", uint32(id)), zap.Uint8("by", uint8(st.Owner)))
		}
	}
}

// Wraiths returns every wraith, dead ones included, indexed by id
func (s *System) Wraiths() []*Wraith { return s.wraiths }

// Close releases every wraith body
func (s *System) Close() {
	for _, w := range s.wraiths {
		if w.body != nil {
			w.body.Close()
			w.body = nil
		}
	}
}
