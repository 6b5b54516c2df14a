package audio

import (
	"errors"
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-rock/fortress-sub001/config"
	"github.com/j-rock/fortress-sub001/core"
)

const testRate = beep.SampleRate(22050)

type recordingSink struct {
	streams []beep.Streamer
}

func (r *recordingSink) Play(s beep.Streamer) { r.streams = append(r.streams, s) }

func drain(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

func TestRecipesProduceExpectedLength(t *testing.T) {
	for st := core.SoundType(0); st < core.SoundTypeCount; st++ {
		t.Run(st.String(), func(t *testing.T) {
			want := length(st, testRate)
			require.Positive(t, want)
			assert.Equal(t, want, drain(render(st, testRate, 1)))
		})
	}
	assert.Nil(t, render(core.SoundTypeCount, testRate, 1))
}

func TestRenderedSamplesStayInRange(t *testing.T) {
	s := render(core.SoundExplosion, testRate, 1)
	buf := make([][2]float64, 1024)
	for {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			assert.LessOrEqual(t, smp[0], 1.5)
			assert.GreaterOrEqual(t, smp[0], -1.5)
		}
		if !ok {
			break
		}
	}
}

func TestEnginePlaysThroughSink(t *testing.T) {
	sink := &recordingSink{}
	e := NewEngine(testRate, 0.5, sink)

	assert.True(t, e.Play(core.SoundShot))
	assert.False(t, e.Play(core.SoundTypeCount))
	require.Len(t, sink.streams, 1)
	assert.Equal(t, length(core.SoundShot, testRate), drain(sink.streams[0]))

	assert.True(t, e.ToggleMute())
	assert.False(t, e.Play(core.SoundShot))
	assert.False(t, e.ToggleMute())
	assert.Equal(t, int64(1), e.Played())
}

func TestServiceDegradesToSilence(t *testing.T) {
	s := NewService(nil)
	s.open = func(beep.SampleRate) (Sink, func(), error) { return nil, nil, errors.New("no device") }

	require.NoError(t, s.Init(config.AudioConfig{Enabled: true, SampleRate: 44100, Volume: 1}))
	assert.True(t, s.IsDisabled())
	assert.False(t, s.Play(core.SoundShot))
	assert.Nil(t, s.Engine())
	require.NoError(t, s.Stop())
}

func TestServiceDisabledByConfig(t *testing.T) {
	s := NewService(nil)
	s.open = func(beep.SampleRate) (Sink, func(), error) {
		t.Fatal("device opened while disabled")
		return nil, nil, nil
	}
	require.NoError(t, s.Init(config.AudioConfig{Enabled: false, SampleRate: 44100}))
	assert.True(t, s.IsDisabled())
}

func TestServiceLifecycle(t *testing.T) {
	sink := &recordingSink{}
	closed := 0
	s := NewService(nil)
	s.open = func(beep.SampleRate) (Sink, func(), error) { return sink, func() { closed++ }, nil }

	require.NoError(t, s.Init(config.AudioConfig{Enabled: true, SampleRate: int(testRate), Volume: 0.8}))
	require.NoError(t, s.Start())
	assert.True(t, s.Play(core.SoundPickup))
	assert.Len(t, sink.streams, 1)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.Equal(t, 1, closed)
	assert.False(t, s.Play(core.SoundPickup))
}
