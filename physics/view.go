package physics

import (
	"time"

	"github.com/j-rock/fortress-sub001/core"
	"github.com/j-rock/fortress-sub001/entity"
)

// AudioPlayer triggers sound effects from collision handlers
type AudioPlayer interface {
	Play(core.SoundType) bool
}

// PlayerSystem is the player-state mutation surface open to handlers
// Every method addresses one player by id and returns false when that player
// (or the referenced bullet) is no longer live
type PlayerSystem interface {
	// Strike retires a live bullet of owner and records what it hit in the
	// owner's strike log for this frame
	Strike(owner entity.PlayerID, bullet entity.BulletID, target entity.Entity) bool
	// Damage subtracts health from a live player
	Damage(id entity.PlayerID, amount int) bool
	// Pickup records that the player touched a collectible this frame
	Pickup(id entity.PlayerID, what entity.Entity) bool
	// Alive reports whether the player is live
	Alive(id entity.PlayerID) bool
}

// WorldView is the narrow facade handed to matcher handlers
// It is created once per Simulation.Update and expires when that call
// returns; handlers must not keep it
type WorldView struct {
	audio   AudioPlayer
	players PlayerSystem
	dt      time.Duration
	sim     *Simulation
	expired bool
}

func newWorldView(sim *Simulation, dt time.Duration, audio AudioPlayer, players PlayerSystem) *WorldView {
	if audio == nil {
		audio = silentAudio{}
	}
	if players == nil {
		players = noPlayers{}
	}
	return &WorldView{audio: audio, players: players, dt: dt, sim: sim}
}

func (v *WorldView) check(op string) {
	if v.expired {
		panic(&ExpiredViewError{Op: op})
	}
}

func (v *WorldView) Audio() AudioPlayer {
	v.check("audio")
	return v.audio
}

func (v *WorldView) Players() PlayerSystem {
	v.check("players")
	return v.players
}

func (v *WorldView) DT() time.Duration {
	v.check("dt")
	return v.dt
}

// Defer queues fn to run against the simulation after dispatch completes
// This is the only way a handler may create or release physics objects
func (v *WorldView) Defer(fn func(*Simulation)) {
	v.check("defer")
	v.sim.Defer(fn)
}

func (v *WorldView) expire() { v.expired = true }

type silentAudio struct{}

func (silentAudio) Play(core.SoundType) bool { return false }

type noPlayers struct{}

func (noPlayers) Strike(entity.PlayerID, entity.BulletID, entity.Entity) bool { return false }
func (noPlayers) Damage(entity.PlayerID, int) bool                            { return false }
func (noPlayers) Pickup(entity.PlayerID, entity.Entity) bool                  { return false }
func (noPlayers) Alive(entity.PlayerID) bool                                  { return false }
