package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/j-rock/fortress-sub001/core"
)

// tone is one enveloped note of a sound effect
type tone struct {
	freq    float64
	length  time.Duration
	wave    WaveType
	attack  time.Duration
	release time.Duration
	gain    float64
}

// recipe is played as a sequence of tones, or all at once when layered
type recipe struct {
	tones   []tone
	layered bool
}

var recipes = [core.SoundTypeCount]recipe{
	core.SoundShot: {tones: []tone{
		{freq: 1200, length: 40 * time.Millisecond, wave: WaveSquare, attack: 2 * time.Millisecond, release: 30 * time.Millisecond, gain: 0.4},
		{freq: 700, length: 30 * time.Millisecond, wave: WaveSquare, release: 25 * time.Millisecond, gain: 0.3},
	}},
	core.SoundBulletWall: {tones: []tone{
		{length: 50 * time.Millisecond, wave: WaveNoise, attack: time.Millisecond, release: 40 * time.Millisecond, gain: 0.3},
	}},
	core.SoundBulletHit: {tones: []tone{
		{freq: 220, length: 70 * time.Millisecond, wave: WaveSaw, attack: 2 * time.Millisecond, release: 50 * time.Millisecond, gain: 0.5},
	}},
	core.SoundPlayerHurt: {tones: []tone{
		{freq: 110, length: 150 * time.Millisecond, wave: WaveSaw, attack: 5 * time.Millisecond, release: 80 * time.Millisecond, gain: 0.6},
	}},
	core.SoundPickup: {tones: []tone{
		{freq: 987.77, length: 60 * time.Millisecond, wave: WaveSquare, attack: 2 * time.Millisecond, release: 20 * time.Millisecond, gain: 0.35},
		{freq: 1318.51, length: 120 * time.Millisecond, wave: WaveSquare, attack: 2 * time.Millisecond, release: 90 * time.Millisecond, gain: 0.35},
	}},
	core.SoundBuff: {layered: true, tones: []tone{
		{freq: 880, length: 300 * time.Millisecond, wave: WaveSine, attack: 5 * time.Millisecond, release: 250 * time.Millisecond, gain: 0.7},
		{freq: 1760, length: 300 * time.Millisecond, wave: WaveSine, attack: 5 * time.Millisecond, release: 150 * time.Millisecond, gain: 0.3},
	}},
	core.SoundBoxBreak: {tones: []tone{
		{length: 90 * time.Millisecond, wave: WaveNoise, attack: time.Millisecond, release: 70 * time.Millisecond, gain: 0.5},
		{freq: 330, length: 60 * time.Millisecond, wave: WaveSquare, release: 50 * time.Millisecond, gain: 0.3},
	}},
	core.SoundExplosion: {layered: true, tones: []tone{
		{length: 400 * time.Millisecond, wave: WaveNoise, attack: 2 * time.Millisecond, release: 350 * time.Millisecond, gain: 0.8},
		{freq: 55, length: 400 * time.Millisecond, wave: WaveSine, attack: 2 * time.Millisecond, release: 300 * time.Millisecond, gain: 0.6},
	}},
	core.SoundWraithDeath: {tones: []tone{
		{freq: 440, length: 100 * time.Millisecond, wave: WaveSine, attack: 5 * time.Millisecond, release: 40 * time.Millisecond, gain: 0.5},
		{freq: 330, length: 100 * time.Millisecond, wave: WaveSine, release: 40 * time.Millisecond, gain: 0.5},
		{freq: 220, length: 200 * time.Millisecond, wave: WaveSine, release: 150 * time.Millisecond, gain: 0.5},
	}},
}

// render builds the unity-gain streamer for st, scaled by master
// Returns nil for an unknown sound
func render(st core.SoundType, rate beep.SampleRate, master float64) beep.Streamer {
	if st < 0 || st >= core.SoundTypeCount {
		return nil
	}
	r := recipes[st]
	parts := make([]beep.Streamer, 0, len(r.tones))
	for _, t := range r.tones {
		s := source(t.freq, t.length, t.wave, rate)
		s = NewEnvelope(s, t.length, t.attack, t.release, rate)
		parts = append(parts, newVolume(s, t.gain))
	}

	var out beep.Streamer
	if r.layered {
		out = beep.Mix(parts...)
	} else {
		out = beep.Seq(parts...)
	}
	return newVolume(out, master)
}

// length is the number of samples render produces for st at rate
func length(st core.SoundType, rate beep.SampleRate) int {
	if st < 0 || st >= core.SoundTypeCount {
		return 0
	}
	r := recipes[st]
	n := 0
	for _, t := range r.tones {
		if r.layered {
			n = max(n, rate.N(t.length))
		} else {
			n += rate.N(t.length)
		}
	}
	return n
}
