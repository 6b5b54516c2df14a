package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeTerminal struct{ finis int }

func (f *fakeTerminal) Fini() { f.finis++ }

func TestHandleCrashRestoresTerminalAndExits(t *testing.T) {
	term := &fakeTerminal{}
	obsCore, logs := observer.New(zapcore.ErrorLevel)

	exitCode := -1
	orig := crashExit
	crashExit = func(code int) { exitCode = code }
	t.Cleanup(func() {
		crashExit = orig
		RegisterCrashTerminal(nil)
		RegisterCrashLogger(nil)
	})

	RegisterCrashTerminal(term)
	RegisterCrashLogger(zap.New(obsCore))

	HandleCrash("registrar desync")

	assert.Equal(t, 1, term.finis)
	assert.Equal(t, 1, exitCode)
	assert.Equal(t, 1, logs.FilterMessage("crash detected").Len())
}

func TestHandleCrashNilIsNoop(t *testing.T) {
	called := false
	orig := crashExit
	crashExit = func(int) { called = true }
	t.Cleanup(func() { crashExit = orig })

	HandleCrash(nil)
	assert.False(t, called)
}

func TestSoundTypeString(t *testing.T) {
	assert.Equal(t, "shot", SoundShot.String())
	assert.Equal(t, "wraith_death", SoundWraithDeath.String())
	assert.Equal(t, "unknown", SoundTypeCount.String())
}
