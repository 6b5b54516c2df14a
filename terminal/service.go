// Package terminal owns the tcell screen and feeds its input events to the
// frame loop
package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/j-rock/fortress-sub001/core"
)

// Service manages screen lifecycle and input polling
type Service struct {
	log       *zap.Logger
	newScreen func() (tcell.Screen, error)
	screen    tcell.Screen
	eventCh   chan tcell.Event
	stopCh    chan struct{}
	doneCh    chan struct{}
	mu        sync.Mutex
	running   bool
	finiOnce  sync.Once
}

// NewService creates a service over the process terminal
func NewService(log *zap.Logger) *Service {
	return newService(log, tcell.NewScreen)
}

// NewSimulatedService runs on an in-memory screen, for headless runs and tests
func NewSimulatedService(log *zap.Logger) (*Service, tcell.SimulationScreen) {
	sim := tcell.NewSimulationScreen("UTF-8")
	return newService(log, func() (tcell.Screen, error) { return sim, nil }), sim
}

func newService(log *zap.Logger, newScreen func() (tcell.Screen, error)) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		log:       log.Named("terminal"),
		newScreen: newScreen,
		eventCh:   make(chan tcell.Event, 256),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

func (s *Service) Name() string { return "terminal" }

// Dependencies implements service.Service
// Audio comes up first so a device prompt never lands on the game screen
func (s *Service) Dependencies() []string { return []string{"audio"} }

// Init implements service.Service; takes no args
func (s *Service) Init(...any) error {
	screen, err := s.newScreen()
	if err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	screen.HideCursor()
	screen.Clear()

	s.screen = screen
	core.RegisterCrashTerminal(s)
	return nil
}

// Start implements service.Service - launches the input polling goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.screen == nil {
		return nil
	}
	s.running = true

	core.Go(s.pollLoop)
	return nil
}

// pollLoop forwards screen events until the screen is finalized
func (s *Service) pollLoop() {
	defer close(s.doneCh)

	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.eventCh <- ev:
		case <-s.stopCh:
			return
		}
	}
}

// Stop implements service.Service - restores the terminal
func (s *Service) Stop() error {
	s.mu.Lock()
	running := s.running
	s.running = false
	s.mu.Unlock()

	if running {
		close(s.stopCh)
	}
	s.Fini()
	if running {
		<-s.doneCh
	}
	core.RegisterCrashTerminal(nil)
	return nil
}

// Fini restores the terminal; safe to call from the crash handler
func (s *Service) Fini() {
	if s.screen == nil {
		return
	}
	s.finiOnce.Do(s.screen.Fini)
}

// Screen returns the wrapped screen, nil before Init
func (s *Service) Screen() tcell.Screen { return s.screen }

// Events returns the input event channel
func (s *Service) Events() <-chan tcell.Event { return s.eventCh }
