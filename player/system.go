// Package player owns player bodies, weapons and stats
//
// Collision handlers never touch physics objects directly: strikes and
// pickups are recorded in per-frame logs during dispatch and reconciled by
// PostUpdate of this and the other gameplay systems.
package player

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
	"github.com/j-rock/fortress-sub001/script"
	"github.com/j-rock/fortress-sub001/status"
)

const bulletMass = 0.05

// Strike records a bullet reaching a target during dispatch
type Strike struct {
	Owner  entity.PlayerID
	Bullet entity.BulletID
	Target entity.Entity
	Damage int
}

// Pickup records a player touching a collectible during dispatch
type Pickup struct {
	Player entity.PlayerID
	What   entity.Entity
}

// System implements physics.PlayerSystem
type System struct {
	sim     *physics.Simulation
	table   data.PlayerTable
	weapon  data.WeaponTable
	scripts *script.Engine
	audio   physics.AudioPlayer
	log     *zap.Logger

	players []*Player
	strikes []Strike
	pickups []Pickup

	shots  *atomic.Int64
	hits   *atomic.Int64
	deaths *atomic.Int64
}

// NewSystem spawns n players at the map's spawn points
// scripts and audio may be nil
func NewSystem(sim *physics.Simulation, world *data.World, n int, scripts *script.Engine,
	audio physics.AudioPlayer, log *zap.Logger, stats *status.Registry) (*System, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if n < 1 || n > len(world.Map.PlayerSpawns) {
		return nil, fmt.Errorf("player count %d outside 1-%d", n, len(world.Map.PlayerSpawns))
	}

	s := &System{
		sim:     sim,
		table:   world.Player,
		weapon:  world.Weapon,
		scripts: scripts,
		audio:   audio,
		log:     log.Named("player"),
		shots:   stats.Counter("player.shots"),
		hits:    stats.Counter("player.hits"),
		deaths:  stats.Counter("player.deaths"),
	}
	for i := 0; i < n; i++ {
		p := &Player{
			id:      entity.PlayerID(i),
			spawn:   world.Map.PlayerSpawns[i].CP(),
			aim:     cp.Vector{X: 1},
			bullets: make(map[entity.BulletID]*bullet),
		}
		if err := s.spawnBody(p); err != nil {
			s.Close()
			return nil, err
		}
		s.players = append(s.players, p)
	}
	return s, nil
}

func (s *System) spawnBody(p *Player) error {
	group := uint32(p.id) + 1
	rb, err := s.sim.SpawnBody(
		physics.BodyDesc{Position: p.spawn, Mass: s.table.Mass, FixedRotation: true},
		entity.Player(p.id),
		physics.ColliderDesc{Shape: physics.Circle(s.table.Radius), Filter: physics.PlayerBodyFilter(group)},
		physics.ColliderDesc{
			Shape:  physics.Circle(s.table.ReachRadius),
			Sensor: true,
			Margin: s.table.ReachMargin,
			Filter: physics.PlayerReachFilter(group),
		},
	)
	if err != nil {
		return fmt.Errorf("spawn player %d: %w", p.id, err)
	}
	p.body = rb
	p.health = s.table.Health
	p.ammo = s.table.Ammo
	p.deadFor = 0
	p.cooldown = 0
	return nil
}

func (s *System) despawn(p *Player) {
	if p.body != nil {
		p.body.Close()
		p.body = nil
	}
	p.buffs = nil
	p.deadFor = 0
}

func (s *System) player(id entity.PlayerID) *Player {
	if int(id) < len(s.players) {
		return s.players[id]
	}
	return nil
}

func (s *System) play(st core.SoundType) {
	if s.audio != nil {
		s.audio.Play(st)
	}
}

// PreUpdate clears last frame's logs, advances timers and state machines,
// and applies controls: movement and firing create or move bodies, so this
// runs before the simulation update
func (s *System) PreUpdate(dt time.Duration, controls []Controls) {
	s.strikes = nil
	s.pickups = nil

	for i, p := range s.players {
		var c Controls
		if i < len(controls) {
			c = controls[i]
		}

		p.tickBuffs(dt)
		p.cooldown = max(p.cooldown-dt, 0)
		for _, b := range p.bullets {
			b.age += dt
		}

		in := Input{Moving: c.Move != (cp.Vector{})}
		switch p.state {
		case Dead:
			p.deadFor += dt
			in.RespawnDue = p.deadFor >= s.table.RespawnDelay
		case Respawning:
			if err := s.spawnBody(p); err != nil {
				s.log.Error("respawn failed", zap.Uint8("player", uint8(p.id)), zap.Error(err))
			} else {
				in.Spawned = true
			}
		}

		prev := p.state
		p.state = next(p.state, in)
		if prev != p.state {
			s.log.Debug("player state",
				zap.Uint8("player", uint8(p.id)), zap.Stringer("from", prev), zap.Stringer("to", p.state))
		}

		if p.state.Alive() {
			s.steer(p, c)
			if c.Fire {
				s.fire(p)
			}
		}
	}
}

func (s *System) steer(p *Player, c Controls) {
	var v cp.Vector
	if c.Move != (cp.Vector{}) {
		dir := c.Move.Normalize()
		p.aim = dir
		v = dir.Mult(s.table.Speed * p.multiplier("speed"))
	}
	p.body.SetVelocity(v)
}

func (s *System) fire(p *Player) {
	if p.cooldown > 0 || p.ammo <= 0 {
		return
	}
	pos, ok := p.body.Position()
	if !ok {
		return
	}

	id := p.nextBullet + 1
	offset := s.table.Radius + s.weapon.BulletRadius + 0.1
	rb, err := s.sim.SpawnBody(
		physics.BodyDesc{
			Position:      pos.Add(p.aim.Mult(offset)),
			Velocity:      p.aim.Mult(s.weapon.BulletSpeed),
			Mass:          bulletMass,
			FixedRotation: true,
		},
		entity.Bullet(p.id, id),
		physics.ColliderDesc{Shape: physics.Circle(s.weapon.BulletRadius), Filter: physics.PlayerWeaponFilter(uint32(p.id) + 1)},
	)
	if err != nil {
		s.log.Error("fire failed", zap.Uint8("player", uint8(p.id)), zap.Error(err))
		return
	}

	p.nextBullet = id
	p.bullets[id] = &bullet{body: rb}
	p.ammo--
	p.cooldown = time.Duration(float64(s.weapon.Cooldown) * p.multiplier("rapid_fire"))
	s.shots.Add(1)
	s.play(core.SoundShot)
}

// PostUpdate retires struck and expired bullets, applies strike damage to
// players and kills players without health
func (s *System) PostUpdate() {
	for _, p := range s.players {
		for id, b := range p.bullets {
			if b.struck || b.age >= s.weapon.Lifetime {
				b.body.Close()
				delete(p.bullets, id)
			}
		}
	}

	for _, st := range s.strikes {
		if pid, ok := st.Target.AsPlayer(); ok {
			s.Damage(pid, st.Damage)
		}
	}

	for _, p := range s.players {
		if p.state.Alive() && p.health <= 0 {
			p.state = next(p.state, Input{Killed: true})
			s.despawn(p)
			s.deaths.Add(1)
			s.log.Info("player died", zap.Uint8("player", uint8(p.id)))
		}
	}
}

func (s *System) bulletDamage(p *Player) int {
	mult := p.multiplier("damage")
	if s.scripts == nil {
		return int(float64(s.weapon.Damage)*mult + 0.5)
	}
	return s.scripts.BulletDamage(s.weapon.Damage, mult)
}

// Strike implements physics.PlayerSystem
// Only the owner's state changes: the bullet is marked for retirement and
// the strike is logged for the systems owning the target
func (s *System) Strike(owner entity.PlayerID, id entity.BulletID, target entity.Entity) bool {
	p := s.player(owner)
	if p == nil {
		return false
	}
	b, ok := p.bullets[id]
	if !ok || b.struck {
		return false
	}
	b.struck = true

	if target.Kind == entity.KindPlayer || target.Kind == entity.KindWraith {
		p.hits++
		s.hits.Add(1)
	}
	s.strikes = append(s.strikes, Strike{Owner: owner, Bullet: id, Target: target, Damage: s.bulletDamage(p)})
	return true
}

// Damage implements physics.PlayerSystem
func (s *System) Damage(id entity.PlayerID, amount int) bool {
	p := s.player(id)
	if p == nil || !p.state.Alive() {
		return false
	}
	p.health -= amount
	return true
}

// Pickup implements physics.PlayerSystem
func (s *System) Pickup(id entity.PlayerID, what entity.Entity) bool {
	p := s.player(id)
	if p == nil || !p.state.Alive() {
		return false
	}
	p.items++
	s.pickups = append(s.pickups, Pickup{Player: id, What: what})
	return true
}

// Alive implements physics.PlayerSystem
func (s *System) Alive(id entity.PlayerID) bool {
	p := s.player(id)
	return p != nil && p.state.Alive()
}

// Strikes is this frame's strike log, valid until the next PreUpdate
func (s *System) Strikes() []Strike { return s.strikes }

// Pickups is this frame's pickup log, valid until the next PreUpdate
func (s *System) Pickups() []Pickup { return s.pickups }

// Position is the position of a live player
func (s *System) Position(id entity.PlayerID) (cp.Vector, bool) {
	p := s.player(id)
	if p == nil {
		return cp.Vector{}, false
	}
	return p.Position()
}

// Health is the current health of a player, zero while dead
func (s *System) Health(id entity.PlayerID) int {
	if p := s.player(id); p != nil && p.state.Alive() {
		return p.health
	}
	return 0
}

// Heal restores health up to the maximum
func (s *System) Heal(id entity.PlayerID, amount int) {
	if p := s.player(id); p != nil && p.state.Alive() {
		p.health = min(p.health+amount, s.table.Health)
	}
}

func (s *System) AddAmmo(id entity.PlayerID, amount int) {
	if p := s.player(id); p != nil {
		p.ammo += amount
	}
}

func (s *System) AddScore(id entity.PlayerID, amount int) {
	if p := s.player(id); p != nil {
		p.score += amount
	}
}

// CreditKill counts a kill made by the player's bullets
func (s *System) CreditKill(id entity.PlayerID) {
	if p := s.player(id); p != nil {
		p.kills++
	}
}

// GrantBuff adds a timed multiplier to a live player
func (s *System) GrantBuff(id entity.PlayerID, kind string, multiplier float64, d time.Duration) {
	if p := s.player(id); p != nil && p.state.Alive() {
		p.buffs = append(p.buffs, Buff{Kind: kind, Multiplier: multiplier, Left: d})
	}
}

// Players returns every player, dead ones included, indexed by id
func (s *System) Players() []*Player { return s.players }

// Close releases every body the system owns
func (s *System) Close() {
	for _, p := range s.players {
		for id, b := range p.bullets {
			b.body.Close()
			delete(p.bullets, id)
		}
		s.despawn(p)
	}
}
