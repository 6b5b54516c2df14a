package player

import (
	"time"

	"github.com/jakecoffman/cp"

	"github.com/j-rock/fortress-sub001/entity"
	"github.com/j-rock/fortress-sub001/physics"
)

// Controls is one frame of input for one player
type Controls struct {
	Move cp.Vector // direction; zero stands still
	Fire bool
}

// Buff is a timed multiplier on one player stat
type Buff struct {
	Kind       string
	Multiplier float64
	Left       time.Duration
}

type bullet struct {
	body   *physics.RegisteredBody
	age    time.Duration
	struck bool
}

// Player is one participant; its fields are only written by System
type Player struct {
	id         entity.PlayerID
	state      State
	body       *physics.RegisteredBody
	spawn      cp.Vector
	aim        cp.Vector
	health     int
	ammo       int
	score      int
	hits       int
	kills      int
	items      int
	deadFor    time.Duration
	cooldown   time.Duration
	bullets    map[entity.BulletID]*bullet
	nextBullet entity.BulletID
	buffs      []Buff
}

func (p *Player) ID() entity.PlayerID { return p.id }
func (p *Player) State() State        { return p.state }
func (p *Player) Health() int         { return p.health }
func (p *Player) Ammo() int           { return p.ammo }
func (p *Player) Score() int          { return p.score }
func (p *Player) Hits() int           { return p.hits }
func (p *Player) Kills() int          { return p.kills }
func (p *Player) Items() int          { return p.items }
func (p *Player) Bullets() int        { return len(p.bullets) }

func (p *Player) Buffs() []Buff { return append([]Buff(nil), p.buffs...) }

// Body is the player's body, nil while dead
func (p *Player) Body() *physics.RegisteredBody { return p.body }

// Position is the body position; false while dead
func (p *Player) Position() (cp.Vector, bool) {
	if p.body == nil {
		return cp.Vector{}, false
	}
	return p.body.Position()
}

// EachBullet visits the position of every bullet in flight
func (p *Player) EachBullet(fn func(cp.Vector)) {
	for _, b := range p.bullets {
		if pos, ok := b.body.Position(); ok {
			fn(pos)
		}
	}
}

// multiplier is the product of active buffs of kind
func (p *Player) multiplier(kind string) float64 {
	m := 1.0
	for _, b := range p.buffs {
		if b.Kind == kind {
			m *= b.Multiplier
		}
	}
	return m
}

func (p *Player) tickBuffs(dt time.Duration) {
	kept := p.buffs[:0]
	for _, b := range p.buffs {
		b.Left -= dt
		if b.Left > 0 {
			kept = append(kept, b)
		}
	}
	p.buffs = kept
}
