package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/j-rock/fortress-sub001/audio"
	"github.com/j-rock/fortress-sub001/config"
	"github.com/j-rock/fortress-sub001/game"
	"github.com/j-rock/fortress-sub001/input"
	"github.com/j-rock/fortress-sub001/service"
	"github.com/j-rock/fortress-sub001/terminal"
)

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fortress.toml")
	require.NoError(t, os.WriteFile(path, []byte("[game]\nplayers = 3\nseed = 5\n"), 0o644))

	o, err := parseFlags([]string{"-config", path, "-headless", "-seed", "9"})
	require.NoError(t, err)
	cfg, err := loadConfig(o)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Game.Players)
	assert.Equal(t, int64(9), cfg.Game.Seed)
	assert.True(t, cfg.Render.Headless)

	_, err = loadConfig(options{players: 7})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func newRunner(t *testing.T, frames uint64) *runner {
	t.Helper()
	cfg := config.Default()
	cfg.Game.Seed = 11
	match, err := game.New(game.Options{Game: cfg.Game, Physics: cfg.Physics, Log: zaptest.NewLogger(t)})
	require.NoError(t, err)
	t.Cleanup(match.Close)

	sound := audio.NewService(zaptest.NewLogger(t))
	require.NoError(t, sound.Init())
	return &runner{
		match:     match,
		latch:     input.NewLatch(0),
		sound:     sound,
		tick:      time.Millisecond,
		players:   cfg.Game.Players,
		maxFrames: frames,
		log:       zaptest.NewLogger(t),
	}
}

func TestHeadlessRunStopsAfterFrames(t *testing.T) {
	r := newRunner(t, 5)
	err := r.run(context.Background())
	assert.ErrorIs(t, err, errQuit)
	assert.Equal(t, uint64(5), r.match.Frames())
}

func TestQuitKeyEndsLoop(t *testing.T) {
	r := newRunner(t, 0)
	events := make(chan tcell.Event, 1)
	events <- tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)
	r.events = events

	assert.ErrorIs(t, r.run(context.Background()), errQuit)
}

func TestCancelledContextEndsLoop(t *testing.T) {
	r := newRunner(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, r.run(ctx))
}

func TestLookupServices(t *testing.T) {
	hub := service.NewHub(zaptest.NewLogger(t))
	require.NoError(t, hub.Register(audio.NewService(nil), config.AudioConfig{}))
	sound, term := lookupServices(hub)
	assert.NotNil(t, sound)
	assert.Nil(t, term, "headless hub has no terminal")

	svc, _ := terminal.NewSimulatedService(nil)
	require.NoError(t, hub.Register(svc))
	_, term = lookupServices(hub)
	assert.Same(t, svc, term)
}
