package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[game]
tick_rate = "10ms"
players = 3

[physics]
damping = 0.5

[logging]
level = "debug"
`), "inline")
	require.NoError(t, err)

	assert.Equal(t, 10*time.Millisecond, cfg.Game.TickRate)
	assert.Equal(t, 3, cfg.Game.Players)
	assert.Equal(t, 0.5, cfg.Physics.Damping)
	assert.Equal(t, 10, cfg.Physics.Iterations, "untouched keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"too many players", "[game]\nplayers = 9"},
		{"zero damping", "[physics]\ndamping = 0.0"},
		{"bad format", "[logging]\nformat = \"xml\""},
		{"negative wraiths", "[game]\nwraiths = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml), tt.name)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Parse([]byte("[game\n"), "broken")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fortress.toml")
	require.NoError(t, os.WriteFile(path, []byte("[audio]\nenabled = false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Audio.Enabled)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
