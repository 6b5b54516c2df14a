package audio

import (
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/j-rock/fortress-sub001/config"
	"github.com/j-rock/fortress-sub001/core"
)

// openFunc opens an output device and returns its sink and closer
type openFunc func(rate beep.SampleRate) (Sink, func(), error)

func openSpeaker(rate beep.SampleRate) (Sink, func(), error) {
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, nil, err
	}
	return speakerSink{}, speaker.Close, nil
}

// Service wraps Engine as a service.Service
// Handles graceful degradation when no audio device is available
type Service struct {
	log      *zap.Logger
	open     openFunc
	engine   *Engine
	closer   func()
	disabled atomic.Bool
}

func NewService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log.Named("audio"), open: openSpeaker}
}

func (s *Service) Name() string           { return "audio" }
func (s *Service) Dependencies() []string { return nil }

// Init implements service.Service
// args[0]: config.AudioConfig; without it audio stays disabled
// Device failures disable audio instead of failing startup
func (s *Service) Init(args ...any) error {
	var cfg config.AudioConfig
	if len(args) > 0 {
		cfg, _ = args[0].(config.AudioConfig)
	}
	if !cfg.Enabled || cfg.SampleRate <= 0 {
		s.disabled.Store(true)
		return nil
	}

	rate := beep.SampleRate(cfg.SampleRate)
	sink, closer, err := s.open(rate)
	if err != nil {
		s.log.Warn("audio device unavailable, continuing silent", zap.Error(err))
		s.disabled.Store(true)
		return nil
	}
	s.engine = NewEngine(rate, cfg.Volume, sink)
	s.closer = closer
	return nil
}

func (s *Service) Start() error { return nil }

// Stop implements service.Service
func (s *Service) Stop() error {
	if s.closer != nil {
		s.closer()
		s.closer = nil
	}
	s.disabled.Store(true)
	return nil
}

// Play implements physics.AudioPlayer
func (s *Service) Play(st core.SoundType) bool {
	if s.disabled.Load() || s.engine == nil {
		return false
	}
	return s.engine.Play(st)
}

// ToggleMute flips mute; reports true when muted or disabled
func (s *Service) ToggleMute() bool {
	if s.disabled.Load() || s.engine == nil {
		return true
	}
	return s.engine.ToggleMute()
}

func (s *Service) IsDisabled() bool { return s.disabled.Load() }

// Engine returns the underlying engine, nil when disabled
func (s *Service) Engine() *Engine {
	if s.disabled.Load() {
		return nil
	}
	return s.engine
}
