package audio

import (
	"sync"

	"github.com/gopxl/beep"

	"github.com/j-rock/fortress-sub001/core"
)

// soundCache stores pre-rendered effect buffers at the master volume
type soundCache struct {
	mu     sync.RWMutex
	format beep.Format
	master float64
	store  [core.SoundTypeCount]*beep.Buffer
}

func newSoundCache(rate beep.SampleRate, master float64) *soundCache {
	return &soundCache{
		format: beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2},
		master: master,
	}
}

// get returns a fresh streamer over the cached buffer, rendering on demand
func (c *soundCache) get(st core.SoundType) beep.StreamSeeker {
	if st < 0 || st >= core.SoundTypeCount {
		return nil
	}

	c.mu.RLock()
	buf := c.store[st]
	c.mu.RUnlock()
	if buf == nil {
		c.mu.Lock()
		if buf = c.store[st]; buf == nil {
			buf = beep.NewBuffer(c.format)
			buf.Append(render(st, c.format.SampleRate, c.master))
			c.store[st] = buf
		}
		c.mu.Unlock()
	}
	return buf.Streamer(0, buf.Len())
}

// preload renders every effect so the first shot does not stall a frame
func (c *soundCache) preload() {
	for st := core.SoundType(0); st < core.SoundTypeCount; st++ {
		c.get(st)
	}
}
