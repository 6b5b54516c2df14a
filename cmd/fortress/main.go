// Command fortress runs a local arena match in the terminal
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/j-rock/fortress-sub001/audio"
	"github.com/j-rock/fortress-sub001/config"
	"github.com/j-rock/fortress-sub001/core"
	"github.com/j-rock/fortress-sub001/data"
	"github.com/j-rock/fortress-sub001/game"
	"github.com/j-rock/fortress-sub001/input"
	"github.com/j-rock/fortress-sub001/logging"
	"github.com/j-rock/fortress-sub001/render"
	"github.com/j-rock/fortress-sub001/script"
	"github.com/j-rock/fortress-sub001/service"
	"github.com/j-rock/fortress-sub001/status"
	"github.com/j-rock/fortress-sub001/terminal"
)

// errQuit ends the frame loop without counting as a failure
var errQuit = errors.New("quit")

type options struct {
	configPath string
	headless   bool
	frames     uint64
	seed       int64
	players    int
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("fortress", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "TOML config file; built-in defaults when empty")
	fs.BoolVar(&o.headless, "headless", false, "run without a screen")
	fs.Uint64Var(&o.frames, "frames", 0, "stop after this many frames; 0 runs until quit")
	fs.Int64Var(&o.seed, "seed", 0, "override game.seed")
	fs.IntVar(&o.players, "players", 0, "override game.players")
	err := fs.Parse(args)
	return o, err
}

// loadConfig applies flag overrides on top of the file or defaults
func loadConfig(o options) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.headless {
		cfg.Render.Headless = true
	}
	if o.seed != 0 {
		cfg.Game.Seed = o.seed
	}
	if o.players != 0 {
		cfg.Game.Players = o.players
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	o, err := parseFlags(args)
	if err != nil {
		return 2
	}
	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fortress: %v\n", err)
		return 1
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fortress: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()
	core.RegisterCrashLogger(log)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	world, err := data.Load(cfg.Paths.Data)
	if err != nil {
		log.Error("load world tables", zap.Error(err))
		return 1
	}
	scripts, err := script.NewEngine(cfg.Paths.Scripts, log)
	if err != nil {
		log.Error("load scripts", zap.Error(err))
		return 1
	}
	defer scripts.Close()

	hub := service.NewHub(log)
	if err := hub.Register(audio.NewService(log), cfg.Audio); err != nil {
		log.Error("register audio", zap.Error(err))
		return 1
	}
	if !cfg.Render.Headless {
		if err := hub.Register(terminal.NewService(log)); err != nil {
			log.Error("register terminal", zap.Error(err))
			return 1
		}
	}
	if err := hub.InitAll(); err != nil {
		log.Error("init services", zap.Error(err))
		fmt.Fprintf(os.Stderr, "fortress: %v\n", err)
		return 1
	}
	defer hub.StopAll()
	if err := hub.StartAll(); err != nil {
		log.Error("start services", zap.Error(err))
		return 1
	}
	log.Info("services started", zap.Strings("services", hub.Names()))

	sound, term := lookupServices(hub)

	stats := status.NewRegistry()
	match, err := game.New(game.Options{
		Game:    cfg.Game,
		Physics: cfg.Physics,
		World:   world,
		Scripts: scripts,
		Audio:   sound,
		Log:     log,
		Stats:   stats,
	})
	if err != nil {
		log.Error("start game", zap.Error(err))
		return 1
	}
	defer match.Close()

	r := &runner{
		match:     match,
		latch:     input.NewLatch(input.DefaultHold),
		sound:     sound,
		tick:      cfg.Game.TickRate,
		players:   cfg.Game.Players,
		maxFrames: o.frames,
		log:       log,
	}
	if term != nil {
		r.events = term.Events()
		r.screen = term.Screen()
		r.renderer = render.New(term.Screen(), cfg.Render.CellScale, func() bool {
			e := sound.Engine()
			return e != nil && e.IsMuted()
		})
	}

	grp, ctx := errgroup.WithContext(context.Background())
	grp.Go(func() error { return watchSignals(ctx) })
	grp.Go(func() error { return r.run(ctx) })
	err = grp.Wait()

	log.Info("match over",
		zap.Stringer("session", match.ID()),
		zap.Uint64("frames", match.Frames()),
		zap.String("stats", match.Summary()))
	log.Debug("metrics", zap.Int("count", stats.TotalCount()), zap.String("all", stats.Dump()))
	if err != nil && !errors.Is(err, errQuit) {
		log.Error("frame loop failed", zap.Error(err))
		return 1
	}
	return 0
}

// lookupServices returns the audio service and, unless headless, the terminal
func lookupServices(hub *service.Hub) (*audio.Service, *terminal.Service) {
	sound := service.MustGet[*audio.Service](hub, "audio")
	if _, ok := hub.Get("terminal"); !ok {
		return sound, nil
	}
	return sound, service.MustGet[*terminal.Service](hub, "terminal")
}

func watchSignals(ctx context.Context) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case s := <-sig:
		return fmt.Errorf("%w: %s", errQuit, s)
	case <-ctx.Done():
		return nil
	}
}

// runner owns the match for the lifetime of the frame loop
type runner struct {
	match     *game.Game
	latch     *input.Latch
	sound     *audio.Service
	events    <-chan tcell.Event // nil when headless
	screen    tcell.Screen
	renderer  *render.Renderer
	tick      time.Duration
	players   int
	maxFrames uint64
	log       *zap.Logger
}

func (r *runner) run(ctx context.Context) error {
	defer func() {
		if p := recover(); p != nil {
			core.HandleCrash(p)
		}
	}()

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-r.events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch r.latch.Handle(ev, time.Now()) {
				case input.ActionQuit:
					return errQuit
				case input.ActionMute:
					muted := r.sound.ToggleMute()
					r.log.Debug("mute toggled", zap.Bool("muted", muted))
				}
			case *tcell.EventResize:
				if r.screen != nil {
					r.screen.Sync()
				}
			}

		case <-ticker.C:
			r.match.Update(r.tick, r.latch.Controls(time.Now(), r.players))
			if r.renderer != nil {
				r.renderer.Draw(r.match)
			}
			if r.match.Over() || (r.maxFrames > 0 && r.match.Frames() >= r.maxFrames) {
				return errQuit
			}
		}
	}
}
