// Package input turns terminal key events into per-player controls
//
// Terminals report key presses and auto-repeat but no releases, so each
// press holds its effect for a short latch window.
package input

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"

	"github.com/j-rock/fortress-sub001/player"
)

// DefaultHold covers the gap between the first press and key auto-repeat
const DefaultHold = 180 * time.Millisecond

const maxPlayers = 4

type Action uint8

const (
	ActionNone Action = iota
	ActionMove
	ActionFire
	ActionQuit
	ActionMute
)

// Binding is what one key does
type Binding struct {
	Action Action
	Player int
	Dir    cp.Vector
}

var (
	up    = cp.Vector{Y: -1}
	down  = cp.Vector{Y: 1}
	left  = cp.Vector{X: -1}
	right = cp.Vector{X: 1}
)

var runeBindings = map[rune]Binding{
	'w': {Action: ActionMove, Player: 0, Dir: up},
	's': {Action: ActionMove, Player: 0, Dir: down},
	'a': {Action: ActionMove, Player: 0, Dir: left},
	'd': {Action: ActionMove, Player: 0, Dir: right},
	' ': {Action: ActionFire, Player: 0},
	'i': {Action: ActionMove, Player: 2, Dir: up},
	'k': {Action: ActionMove, Player: 2, Dir: down},
	'j': {Action: ActionMove, Player: 2, Dir: left},
	'l': {Action: ActionMove, Player: 2, Dir: right},
	'h': {Action: ActionFire, Player: 2},
	'q': {Action: ActionQuit},
	'm': {Action: ActionMute},
}

var keyBindings = map[tcell.Key]Binding{
	tcell.KeyUp:     {Action: ActionMove, Player: 1, Dir: up},
	tcell.KeyDown:   {Action: ActionMove, Player: 1, Dir: down},
	tcell.KeyLeft:   {Action: ActionMove, Player: 1, Dir: left},
	tcell.KeyRight:  {Action: ActionMove, Player: 1, Dir: right},
	tcell.KeyEnter:  {Action: ActionFire, Player: 1},
	tcell.KeyEscape: {Action: ActionQuit},
	tcell.KeyCtrlC:  {Action: ActionQuit},
}

// Lookup maps a key event to its binding
func Lookup(key tcell.Key, r rune) (Binding, bool) {
	if key == tcell.KeyRune {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		b, ok := runeBindings[r]
		return b, ok
	}
	b, ok := keyBindings[key]
	return b, ok
}

type latch struct {
	x, y   float64
	xUntil time.Time
	yUntil time.Time
	fire   time.Time
}

// Latch accumulates presses into held controls
type Latch struct {
	hold    time.Duration
	players [maxPlayers]latch
}

func NewLatch(hold time.Duration) *Latch {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Latch{hold: hold}
}

// Handle records a key event and returns the global action it asks for
// Player bindings return ActionMove or ActionFire after being latched
func (l *Latch) Handle(ev *tcell.EventKey, now time.Time) Action {
	b, ok := Lookup(ev.Key(), ev.Rune())
	if !ok {
		return ActionNone
	}
	if b.Player < 0 || b.Player >= maxPlayers {
		return ActionNone
	}
	p := &l.players[b.Player]
	until := now.Add(l.hold)

	switch b.Action {
	case ActionMove:
		if b.Dir.X != 0 {
			p.x, p.xUntil = b.Dir.X, until
		}
		if b.Dir.Y != 0 {
			p.y, p.yUntil = b.Dir.Y, until
		}
	case ActionFire:
		p.fire = until
	}
	return b.Action
}

// Controls returns the held controls of the first n players at now
func (l *Latch) Controls(now time.Time, n int) []player.Controls {
	n = min(n, maxPlayers)
	out := make([]player.Controls, n)
	for i := 0; i < n; i++ {
		p := &l.players[i]
		if now.Before(p.xUntil) {
			out[i].Move.X = p.x
		}
		if now.Before(p.yUntil) {
			out[i].Move.Y = p.y
		}
		out[i].Fire = now.Before(p.fire)
	}
	return out
}
