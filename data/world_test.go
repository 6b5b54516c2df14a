package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWorldParses(t *testing.T) {
	w := Default()

	assert.Equal(t, 100, w.Player.Health)
	assert.Equal(t, 200*time.Millisecond, w.Weapon.Cooldown)
	assert.Equal(t, 3*time.Second, w.Player.RespawnDelay)
	assert.Len(t, w.Map.PlayerSpawns, 4)
	assert.NotEmpty(t, w.Map.Walls)

	heal, ok := w.Item("heal")
	require.True(t, ok)
	assert.Equal(t, 25, heal.Amount)

	speed, ok := w.Buff("speed")
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, speed.Duration)

	_, ok = w.Buff("invisibility")
	assert.False(t, ok)
}

func TestLoadEmptyPathUsesEmbedded(t *testing.T) {
	w, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Map.Width, w.Map.Width)
}

func TestParseRejectsUnknownReferences(t *testing.T) {
	w := Default()
	w.Map.Items = append(w.Map.Items, ItemSpawn{Kind: "crown"})
	assert.ErrorIs(t, w.Validate(), ErrInvalid)

	w = Default()
	w.Map.BuffBoxes = append(w.Map.BuffBoxes, BuffBoxSpawn{Buff: "flight"})
	assert.ErrorIs(t, w.Validate(), ErrInvalid)

	w = Default()
	w.Map.PlayerSpawns = nil
	assert.ErrorIs(t, w.Validate(), ErrInvalid)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("player: [1, 2"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
