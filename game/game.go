// Package game wires the gameplay systems around one physics simulation and
// runs them in a fixed frame order
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/j-rock/fortress-sub001/config"
	"github.com/j-rock/fortress-sub001/data"
	"github.com/j-rock/fortress-sub001/gamemap"
	"github.com/j-rock/fortress-sub001/item"
	"github.com/j-rock/fortress-sub001/physics"
	"github.com/j-rock/fortress-sub001/player"
	"github.com/j-rock/fortress-sub001/script"
	"github.com/j-rock/fortress-sub001/status"
	"github.com/j-rock/fortress-sub001/wraith"
)

// Options collects what New needs; Scripts, Audio, Log and Stats may be nil
type Options struct {
	Game    config.GameConfig
	Physics config.PhysicsConfig
	World   *data.World
	Scripts *script.Engine
	Audio   physics.AudioPlayer
	Log     *zap.Logger
	Stats   *status.Registry
}

// Game is one match
type Game struct {
	id      uuid.UUID
	cfg     config.GameConfig
	sim     *physics.Simulation
	arena   *gamemap.Map
	players *player.System
	wraiths *wraith.System
	items   *item.System
	audio   physics.AudioPlayer
	log     *zap.Logger
	stats   *status.Registry
	frames  uint64
	elapsed time.Duration
	closed  bool
}

// New spawns the map, players, wraiths and collectibles and registers every
// collision matcher
func New(opts Options) (*Game, error) {
	if opts.World == nil {
		opts.World = data.Default()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	id := uuid.New()
	log := opts.Log.With(zap.String("session", id.String()))
	opts.Stats.Label("game.session").Store(id.String())

	seed := opts.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	wraiths := opts.Game.Wraiths
	if wraiths == 0 {
		wraiths = len(opts.World.Map.WraithSpawns)
	}

	sim := physics.NewSimulation(physics.Config{
		Gravity:    cp.Vector{X: opts.Physics.GravityX, Y: opts.Physics.GravityY},
		Damping:    opts.Physics.Damping,
		Iterations: opts.Physics.Iterations,
	}, log, opts.Stats)

	g := &Game{
		id:    id,
		cfg:   opts.Game,
		sim:   sim,
		audio: opts.Audio,
		log:   log,
		stats: opts.Stats,
	}

	var err error
	if g.players, err = player.NewSystem(sim, opts.World, opts.Game.Players, opts.Scripts, opts.Audio, log, opts.Stats); err != nil {
		return nil, fmt.Errorf("players: %w", err)
	}
	if g.arena, err = gamemap.New(sim, opts.World, g.players, opts.Audio, log, opts.Stats); err != nil {
		g.Close()
		return nil, fmt.Errorf("map: %w", err)
	}
	if g.wraiths, err = wraith.NewSystem(sim, opts.World, wraiths, g.players, opts.Scripts, opts.Audio, seed, log, opts.Stats); err != nil {
		g.Close()
		return nil, fmt.Errorf("wraiths: %w", err)
	}
	if g.items, err = item.NewSystem(sim, opts.World, g.players, opts.Scripts, opts.Audio, log, opts.Stats); err != nil {
		g.Close()
		return nil, fmt.Errorf("items: %w", err)
	}

	sim.AddContactMatchers(player.ContactMatchers()...)
	sim.AddContactMatchers(g.wraiths.ContactMatchers()...)
	sim.AddProximityMatchers(g.wraiths.ProximityMatchers()...)
	sim.AddProximityMatchers(g.items.ProximityMatchers()...)

	log.Info("game started",
		zap.Int("players", opts.Game.Players),
		zap.Int("wraiths", wraiths),
		zap.Int64("seed", seed),
		zap.Int("registered", sim.Registered()))
	return g, nil
}

// Update advances one frame
// Systems that create or move bodies run before the simulation; systems
// that react to this frame's collisions run after it, when no handler is
// active
func (g *Game) Update(dt time.Duration, controls []player.Controls) {
	g.players.PreUpdate(dt, controls)
	g.wraiths.PreUpdate(dt)
	g.items.PreUpdate()

	g.sim.Update(dt, g.audio, g.players)

	g.players.PostUpdate()
	g.wraiths.PostUpdate()
	g.items.PostUpdate()
	g.arena.PostUpdate()

	g.frames++
	g.elapsed += dt
}

// Over reports whether the configured match duration has run out
func (g *Game) Over() bool {
	return g.cfg.Duration > 0 && g.elapsed >= g.cfg.Duration
}

func (g *Game) ID() uuid.UUID                   { return g.id }
func (g *Game) Frames() uint64                  { return g.frames }
func (g *Game) Elapsed() time.Duration          { return g.elapsed }
func (g *Game) Players() []*player.Player       { return g.players.Players() }
func (g *Game) Wraiths() []*wraith.Wraith       { return g.wraiths.Wraiths() }
func (g *Game) Size() (w, h float64)            { return g.arena.Size() }
func (g *Game) Simulation() *physics.Simulation { return g.sim }

// Summary renders the match counters for the exit log
func (g *Game) Summary() string {
	if g.stats == nil {
		return ""
	}
	return g.stats.Summary(
		"player.shots", "player.hits", "player.deaths",
		"wraith.kills", "wraith.touches",
		"item.collected", "item.boxes_broken", "map.barrels_destroyed",
		"physics.steps", "physics.events", "physics.dropped")
}

// Close releases every registered object and checks nothing leaked
func (g *Game) Close() {
	if g.closed {
		return
	}
	g.closed = true

	if g.items != nil {
		g.items.Close()
	}
	if g.wraiths != nil {
		g.wraiths.Close()
	}
	if g.arena != nil {
		g.arena.Close()
	}
	if g.players != nil {
		g.players.Close()
	}

	fields := []zap.Field{
		zap.Uint64("frames", g.frames),
		zap.Duration("elapsed", g.elapsed),
		zap.Uint64("digest", g.sim.Digest()),
		zap.Int("registered", g.sim.Registered()),
	}
	if n := g.sim.Registered(); n != 0 {
		g.log.Warn("registrar not empty after close", fields...)
		return
	}
	g.log.Info("game closed", fields...)
}
