// Package data loads the YAML gameplay tables
package data

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"
)

//go:embed world.yaml
var defaultWorld []byte

// ErrInvalid wraps every table validation failure
var ErrInvalid = errors.New("invalid world table")

// Vec is a YAML point
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec) CP() cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }

type World struct {
	Player PlayerTable `yaml:"player"`
	Weapon WeaponTable `yaml:"weapon"`
	Wraith WraithTable `yaml:"wraith"`
	Items  []ItemEntry `yaml:"items"`
	Buffs  []BuffEntry `yaml:"buffs"`
	Map    MapTable    `yaml:"map"`
}

type PlayerTable struct {
	Radius       float64       `yaml:"radius"`
	Mass         float64       `yaml:"mass"`
	Speed        float64       `yaml:"speed"`
	Health       int           `yaml:"health"`
	Ammo         int           `yaml:"ammo"`
	ReachRadius  float64       `yaml:"reach_radius"` // wraiths inside start chasing
	ReachMargin  float64       `yaml:"reach_margin"` // wraiths inside the margin notice too
	RespawnDelay time.Duration `yaml:"respawn_delay"`
}

type WeaponTable struct {
	BulletRadius float64       `yaml:"bullet_radius"`
	BulletSpeed  float64       `yaml:"bullet_speed"`
	Cooldown     time.Duration `yaml:"cooldown"`
	Lifetime     time.Duration `yaml:"lifetime"`
	Damage       int           `yaml:"damage"`
}

type WraithTable struct {
	Radius        float64       `yaml:"radius"`
	Mass          float64       `yaml:"mass"`
	WanderSpeed   float64       `yaml:"wander_speed"`
	ChaseSpeed    float64       `yaml:"chase_speed"`
	Health        int           `yaml:"health"`
	ContactDamage int           `yaml:"contact_damage"`
	StunDuration  time.Duration `yaml:"stun_duration"`
	WanderTurn    time.Duration `yaml:"wander_turn"`
	RespawnDelay  time.Duration `yaml:"respawn_delay"`
}

// ItemEntry is what a pickup of Kind grants
type ItemEntry struct {
	Kind   string `yaml:"kind"`
	Amount int    `yaml:"amount"`
}

// BuffEntry is a timed modifier dropped by buff boxes
// Duration is the fallback when no script overrides it
type BuffEntry struct {
	Kind       string        `yaml:"kind"`
	Multiplier float64       `yaml:"multiplier"`
	Duration   time.Duration `yaml:"duration"`
}

type Wall struct {
	A      Vec     `yaml:"a"`
	B      Vec     `yaml:"b"`
	Radius float64 `yaml:"radius"`
}

type BarrelSpawn struct {
	Pos  Vec     `yaml:"pos"`
	Size float64 `yaml:"size"`
	Hits int     `yaml:"hits"`
}

type BuffBoxSpawn struct {
	Pos  Vec     `yaml:"pos"`
	Size float64 `yaml:"size"`
	Buff string  `yaml:"buff"`
}

type ItemSpawn struct {
	Pos  Vec    `yaml:"pos"`
	Kind string `yaml:"kind"`
}

type MapTable struct {
	Width        float64        `yaml:"width"`
	Height       float64        `yaml:"height"`
	Walls        []Wall         `yaml:"walls"`
	Barrels      []BarrelSpawn  `yaml:"barrels"`
	BuffBoxes    []BuffBoxSpawn `yaml:"buff_boxes"`
	Items        []ItemSpawn    `yaml:"items"`
	PlayerSpawns []Vec          `yaml:"player_spawns"`
	WraithSpawns []Vec          `yaml:"wraith_spawns"`
}

// Default returns the embedded tables
func Default() *World {
	w, err := Parse(defaultWorld, "embedded world.yaml")
	if err != nil {
		panic(err)
	}
	return w
}

// Load reads a world table; an empty path selects the embedded one
func Load(path string) (*World, error) {
	if path == "" {
		return Parse(defaultWorld, "embedded world.yaml")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world table: %w", err)
	}
	return Parse(raw, path)
}

func Parse(raw []byte, name string) (*World, error) {
	var w World
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("parse world table %s: %w", name, err)
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("world table %s: %w", name, err)
	}
	return &w, nil
}

func (w *World) Validate() error {
	switch {
	case w.Player.Radius <= 0 || w.Player.Speed <= 0 || w.Player.Health <= 0:
		return fmt.Errorf("%w: player radius, speed and health must be positive", ErrInvalid)
	case w.Weapon.BulletRadius <= 0 || w.Weapon.BulletSpeed <= 0 || w.Weapon.Lifetime <= 0:
		return fmt.Errorf("%w: weapon bullet radius, speed and lifetime must be positive", ErrInvalid)
	case w.Wraith.Radius <= 0 || w.Wraith.Health <= 0:
		return fmt.Errorf("%w: wraith radius and health must be positive", ErrInvalid)
	case w.Map.Width <= 0 || w.Map.Height <= 0:
		return fmt.Errorf("%w: map size must be positive", ErrInvalid)
	case len(w.Map.PlayerSpawns) == 0:
		return fmt.Errorf("%w: map needs at least one player spawn", ErrInvalid)
	}
	for _, s := range w.Map.Items {
		if _, ok := w.Item(s.Kind); !ok {
			return fmt.Errorf("%w: item spawn uses unknown kind %q", ErrInvalid, s.Kind)
		}
	}
	for _, b := range w.Map.BuffBoxes {
		if _, ok := w.Buff(b.Buff); !ok {
			return fmt.Errorf("%w: buff box uses unknown buff %q", ErrInvalid, b.Buff)
		}
	}
	return nil
}

// Item looks up an item kind
func (w *World) Item(kind string) (ItemEntry, bool) {
	for _, it := range w.Items {
		if it.Kind == kind {
			return it, true
		}
	}
	return ItemEntry{}, false
}

// Buff looks up a buff kind
func (w *World) Buff(kind string) (BuffEntry, bool) {
	for _, b := range w.Buffs {
		if b.Kind == kind {
			return b, true
		}
	}
	return BuffEntry{}, false
}
