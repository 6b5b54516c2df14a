package audio

import (
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/j-rock/fortress-sub001/core"
)

// Sink receives streamers to play
type Sink interface {
	Play(beep.Streamer)
}

type speakerSink struct{}

func (speakerSink) Play(s beep.Streamer) { speaker.Play(s) }

// Engine turns sound ids into streamers and hands them to a sink
type Engine struct {
	cache  *soundCache
	sink   Sink
	muted  atomic.Bool
	played atomic.Int64
}

// NewEngine renders every effect up front at the given rate and volume
func NewEngine(rate beep.SampleRate, volume float64, sink Sink) *Engine {
	e := &Engine{
		cache: newSoundCache(rate, volume),
		sink:  sink,
	}
	e.cache.preload()
	return e
}

// Play starts st; reports false when muted or st is unknown
func (e *Engine) Play(st core.SoundType) bool {
	if e.muted.Load() {
		return false
	}
	s := e.cache.get(st)
	if s == nil {
		return false
	}
	e.sink.Play(s)
	e.played.Add(1)
	return true
}

// ToggleMute flips the mute state and returns the new state
func (e *Engine) ToggleMute() bool {
	for {
		old := e.muted.Load()
		if e.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (e *Engine) IsMuted() bool { return e.muted.Load() }

// Played is the number of effects handed to the sink
func (e *Engine) Played() int64 { return e.played.Load() }
