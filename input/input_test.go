package input

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
)

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }
func char(r rune) *tcell.EventKey     { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		key    tcell.Key
		r      rune
		want   Binding
		exists bool
	}{
		{"wasd up", tcell.KeyRune, 'w', Binding{Action: ActionMove, Player: 0, Dir: cp.Vector{Y: -1}}, true},
		{"caps lock", tcell.KeyRune, 'D', Binding{Action: ActionMove, Player: 0, Dir: cp.Vector{X: 1}}, true},
		{"arrow left", tcell.KeyLeft, 0, Binding{Action: ActionMove, Player: 1, Dir: cp.Vector{X: -1}}, true},
		{"enter fires", tcell.KeyEnter, 0, Binding{Action: ActionFire, Player: 1}, true},
		{"quit", tcell.KeyEscape, 0, Binding{Action: ActionQuit}, true},
		{"mute", tcell.KeyRune, 'm', Binding{Action: ActionMute}, true},
		{"unbound", tcell.KeyRune, 'z', Binding{}, false},
		{"unbound key", tcell.KeyF5, 0, Binding{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.key, tt.r)
			assert.Equal(t, tt.exists, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLatchHoldsAndCombinesAxes(t *testing.T) {
	l := NewLatch(100 * time.Millisecond)
	t0 := time.Unix(1000, 0)

	assert.Equal(t, ActionMove, l.Handle(char('w'), t0))
	assert.Equal(t, ActionMove, l.Handle(char('d'), t0.Add(50*time.Millisecond)))
	assert.Equal(t, ActionFire, l.Handle(key(tcell.KeyEnter), t0))

	c := l.Controls(t0.Add(60*time.Millisecond), 2)
	assert.Equal(t, cp.Vector{X: 1, Y: -1}, c[0].Move)
	assert.False(t, c[0].Fire)
	assert.True(t, c[1].Fire)

	c = l.Controls(t0.Add(120*time.Millisecond), 2)
	assert.Equal(t, cp.Vector{X: 1}, c[0].Move, "vertical press expired")
	assert.False(t, c[1].Fire)

	c = l.Controls(t0.Add(time.Second), 2)
	assert.Equal(t, cp.Vector{}, c[0].Move)
}

func TestLatchGlobalActions(t *testing.T) {
	l := NewLatch(0)
	assert.Equal(t, ActionQuit, l.Handle(key(tcell.KeyCtrlC), time.Now()))
	assert.Equal(t, ActionMute, l.Handle(char('M'), time.Now()))
	assert.Equal(t, ActionNone, l.Handle(char('z'), time.Now()))
	assert.Len(t, l.Controls(time.Now(), 9), maxPlayers)
}
