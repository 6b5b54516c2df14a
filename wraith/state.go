package wraith

// State is the behavior phase of a wraith
type State uint8

const (
	Wandering State = iota
	Chasing
	Stunned
	Dead
)

func (s State) String() string {
	switch s {
	case Wandering:
		return "wandering"
	case Chasing:
		return "chasing"
	case Stunned:
		return "stunned"
	case Dead:
		return "dead"
	}
	return "unknown"
}

func (s State) Alive() bool { return s != Dead }

// Input holds the facts a transition depends on
type Input struct {
	Target     bool // some live player is in sight
	Stun       bool
	StunOver   bool
	Killed     bool
	RespawnDue bool
}

func next(s State, in Input) State {
	if s == Dead {
		if in.RespawnDue {
			return Wandering
		}
		return Dead
	}

	switch {
	case in.Killed:
		return Dead
	case in.Stun:
		return Stunned
	case s == Stunned && !in.StunOver:
		return Stunned
	case in.Target:
		return Chasing
	}
	return Wandering
}
