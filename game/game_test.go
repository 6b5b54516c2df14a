package game

import (
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/j-rock/fortress-sub001/config"
	"github.com/j-rock/fortress-sub001/data"
	"github.com/j-rock/fortress-sub001/player"
	"github.com/j-rock/fortress-sub001/status"
)

const frame = 16 * time.Millisecond

func newTestGame(t *testing.T) (*Game, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	cfg := config.Default()
	cfg.Game.Seed = 7

	g, err := New(Options{
		Game:    cfg.Game,
		Physics: cfg.Physics,
		World:   data.Default(),
		Log:     zap.New(core),
		Stats:   status.NewRegistry(),
	})
	require.NoError(t, err)
	return g, logs
}

func TestNewPopulatesWorld(t *testing.T) {
	g, logs := newTestGame(t)
	world := data.Default()

	want := 2 + len(world.Map.Walls) + len(world.Map.Barrels) + len(world.Map.WraithSpawns) +
		len(world.Map.Items) + len(world.Map.BuffBoxes)
	assert.Equal(t, want, g.Simulation().Registered())
	assert.Len(t, g.Sprites(), want)
	assert.Len(t, g.Players(), 2)
	assert.Len(t, g.Wraiths(), len(world.Map.WraithSpawns))

	started := logs.FilterMessage("game started").All()
	require.Len(t, started, 1)
	assert.Equal(t, g.ID().String(), started[0].ContextMap()["session"])

	g.Close()
}

func TestCloseEmptiesRegistrar(t *testing.T) {
	g, logs := newTestGame(t)

	controls := []player.Controls{
		{Move: cp.Vector{X: 1, Y: 1}, Fire: true},
		{Move: cp.Vector{X: -1}, Fire: true},
	}
	for i := 0; i < 120; i++ {
		g.Update(frame, controls)
	}
	assert.Equal(t, uint64(120), g.Frames())
	assert.False(t, g.Simulation().Borrowed())

	g.Close()
	g.Close()
	assert.Equal(t, 0, g.Simulation().Registered())
	assert.Equal(t, uint64(0), g.Simulation().Digest())
	assert.Equal(t, 1, logs.FilterMessage("game closed").Len())
	assert.Zero(t, logs.FilterMessage("registrar not empty after close").Len())
	assert.NotEmpty(t, g.Summary())
}

func TestConstructionDigestIsReproducible(t *testing.T) {
	a, _ := newTestGame(t)
	b, _ := newTestGame(t)
	defer a.Close()
	defer b.Close()

	assert.Equal(t, a.Simulation().Digest(), b.Simulation().Digest())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestMatchDuration(t *testing.T) {
	cfg := config.Default()
	cfg.Game.Duration = 100 * time.Millisecond
	g, err := New(Options{Game: cfg.Game, Physics: cfg.Physics})
	require.NoError(t, err)
	defer g.Close()

	for i := 0; i < 6; i++ {
		g.Update(frame, nil)
	}
	assert.False(t, g.Over())
	g.Update(frame, nil)
	assert.True(t, g.Over())
}

func TestTooManyPlayersFails(t *testing.T) {
	cfg := config.Default()
	cfg.Game.Players = 4
	world := data.Default()
	world.Map.PlayerSpawns = world.Map.PlayerSpawns[:2]

	_, err := New(Options{Game: cfg.Game, Physics: cfg.Physics, World: world})
	assert.Error(t, err)
}
