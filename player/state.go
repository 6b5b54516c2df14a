package player

// State is the lifecycle phase of a player
type State uint8

const (
	Idle State = iota
	Moving
	Dead
	Respawning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case Dead:
		return "dead"
	case Respawning:
		return "respawning"
	}
	return "unknown"
}

// Alive reports whether the player has a body in the world
func (s State) Alive() bool { return s == Idle || s == Moving }

// Input holds the facts a transition depends on
type Input struct {
	Moving     bool
	Killed     bool
	RespawnDue bool
	Spawned    bool
}

func next(s State, in Input) State {
	switch s {
	case Idle, Moving:
		if in.Killed {
			return Dead
		}
		if in.Moving {
			return Moving
		}
		return Idle
	case Dead:
		if in.RespawnDue {
			return Respawning
		}
	case Respawning:
		if in.Spawned {
			return Idle
		}
	}
	return s
}
