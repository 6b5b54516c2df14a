package terminal

import (
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestServiceForwardsEvents(t *testing.T) {
	svc, sim := NewSimulatedService(zaptest.NewLogger(t))
	require.NoError(t, svc.Init())
	require.NoError(t, svc.Start())

	sim.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)

	var got *tcell.EventKey
	deadline := time.After(2 * time.Second)
	for got == nil {
		select {
		case ev := <-svc.Events():
			if k, ok := ev.(*tcell.EventKey); ok {
				got = k
			}
		case <-deadline:
			t.Fatal("no key event forwarded")
		}
	}
	assert.Equal(t, 'w', got.Rune())

	require.NoError(t, svc.Stop())
	require.NoError(t, svc.Stop())
}

func TestStopWithoutStart(t *testing.T) {
	svc, _ := NewSimulatedService(nil)
	require.NoError(t, svc.Init())
	assert.NotPanics(t, func() { _ = svc.Stop() })
}

func TestInitFailure(t *testing.T) {
	boom := errors.New("no tty")
	svc := newService(nil, func() (tcell.Screen, error) { return nil, boom })
	assert.ErrorIs(t, svc.Init(), boom)
	assert.NoError(t, svc.Start())
	assert.NoError(t, svc.Stop())
}
