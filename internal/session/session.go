// Package session runs one player's game: the menu, play, credits and the
// terminal they are drawn on. Local play and every SSH connection each get
// their own Session.
package session

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/hyperjump/internal/audio"
	"github.com/tomz197/hyperjump/internal/config"
	"github.com/tomz197/hyperjump/internal/draw"
	"github.com/tomz197/hyperjump/internal/game"
	"github.com/tomz197/hyperjump/internal/input"
	"github.com/tomz197/hyperjump/internal/store"
	"github.com/tomz197/hyperjump/internal/world"
)

// Screen is the session's current top-level view.
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenPlaying
	ScreenCredits
	ScreenShutdown
)

func (s Screen) String() string {
	switch s {
	case ScreenPlaying:
		return "playing"
	case ScreenCredits:
		return "credits"
	case ScreenShutdown:
		return "shutdown"
	default:
		return "menu"
	}
}

// Menu entries.
const (
	menuNewGame = iota
	menuQuit
	menuCount
)

// Store is the persistence a session needs. *store.Store satisfies it.
type Store interface {
	Flag(ctx context.Context, player, key string) (bool, error)
	SetFlag(ctx context.Context, player, key string, on bool) error
	RecordResult(ctx context.Context, r store.Result) (uuid.UUID, error)
	BestScore(ctx context.Context, player string) (int, error)
}

// Options configures a session.
type Options struct {
	Player   string
	Tuning   config.Tuning
	Audio    audio.Sink        // nil plays nothing
	Store    Store             // nil keeps nothing between sessions
	Logger   *log.Logger       // nil uses the default logger
	TermSize draw.TermSizeFunc // nil uses the local terminal
	Seed     uint64            // 0 picks a random seed
}

// Session is one player's game. It is not safe for concurrent use; Run
// drives it from a single goroutine.
type Session struct {
	opts  Options
	log   *log.Logger
	audio audio.Sink
	store Store
	rng   *rand.Rand

	screen     Screen
	prevScreen Screen
	done       bool
	menuItem   int
	best       int

	ctrl    *game.Controller
	world   *world.World
	hud     game.HUD
	message string
	input   input.Input
	prevIn  input.Input

	credits        float64 // seconds left
	canSkipCredits bool
	shutdown       float64
	idle           float64
	inactive       bool
	wasInactive    bool

	out    io.Writer
	canvas *draw.Canvas
	cw     *draw.ChunkWriter
	lay    draw.Layout
}

// New creates a session drawing to w.
func New(w io.Writer, opts Options) *Session {
	if opts.Player == "" {
		opts.Player = "player"
	}
	if opts.TermSize == nil {
		opts.TermSize = draw.StdoutSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	sink := opts.Audio
	if sink == nil {
		sink = audio.Nop{}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := &Session{
		opts:   opts,
		log:    logger.With("player", opts.Player),
		audio:  sink,
		store:  opts.Store,
		rng:    rand.New(rand.NewPCG(seed, seed^0x5eed)),
		out:    w,
		canvas: draw.NewCanvas(config.MaxTermWidth, config.MaxTermHeight, config.FieldHalfWidth, config.FieldHalfHeight),
		cw:     draw.NewChunkWriter(w, 0, 0),
	}
	s.loadBest()
	return s
}

// Screen returns the current screen.
func (s *Session) Screen() Screen { return s.screen }

// Done reports whether the session has ended.
func (s *Session) Done() bool { return s.done }

// HUD returns the last HUD pushed by the game.
func (s *Session) HUD() game.HUD { return s.hud }

// Message returns the banner currently shown over the game.
func (s *Session) Message() string { return s.message }

// pressed reports a key that went down this frame.
func (s *Session) pressed(now, before bool) bool {
	return now && !before
}

// Update advances the session by one frame of dt with in as the key state.
func (s *Session) Update(dt time.Duration, in input.Input) {
	s.prevIn, s.input = s.input, in
	if in.Closed {
		s.end("input closed")
		return
	}
	s.trackIdle(dt, in)
	if s.done {
		return
	}

	switch s.screen {
	case ScreenMenu:
		s.updateMenu()
	case ScreenPlaying:
		s.updatePlaying(dt)
	case ScreenCredits:
		s.updateCredits(dt)
	case ScreenShutdown:
		s.shutdown -= dt.Seconds()
		if s.shutdown <= 0 || in.Quit {
			s.end("server shutdown")
		}
	}
}

func (s *Session) trackIdle(dt time.Duration, in input.Input) {
	if in.Any() {
		s.idle = 0
		s.inactive = false
		return
	}
	s.idle += dt.Seconds()
	switch {
	case s.idle > config.InactivityDisconnectUser:
		s.end("inactive")
	case s.idle > config.InactivityWarnUser:
		s.inactive = true
	}
}

func (s *Session) updateMenu() {
	in, prev := s.input, s.prevIn
	switch {
	case s.pressed(in.Thrust, prev.Thrust) || s.pressed(in.Left, prev.Left):
		s.menuItem = (s.menuItem + menuCount - 1) % menuCount
	case s.pressed(in.Right, prev.Right):
		s.menuItem = (s.menuItem + 1) % menuCount
	}

	switch {
	case s.pressed(in.Quit, prev.Quit) || s.pressed(in.Escape, prev.Escape):
		s.showCredits()
	case s.pressed(in.Enter, prev.Enter) || s.pressed(in.Fire, prev.Fire):
		if s.menuItem == menuQuit {
			s.showCredits()
			return
		}
		s.startGame()
	}
}

func (s *Session) startGame() {
	s.ctrl = game.NewController(s.opts.Tuning, field(), s.rng)
	s.world = world.New(field(), s.rng)
	s.hud = game.HUD{}
	s.message = ""
	s.screen = ScreenPlaying
	s.log.Info("game started")

	fx := s.ctrl.Start()
	s.world.Apply(fx)
	s.dispatch(fx)
}

func (s *Session) updatePlaying(dt time.Duration) {
	if s.pressed(s.input.Quit, s.prevIn.Quit) {
		if s.ctrl.View().State == game.StateGameOver {
			// leaving during the game over banner still counts the game
			s.finishGame()
			s.screen = ScreenMenu
			return
		}
		s.log.Info("game abandoned", "score", s.ctrl.Ledger().Score())
		s.screen = ScreenMenu
		s.ctrl, s.world = nil, nil
		return
	}
	events := s.world.Step(dt, s.input, s.ctrl.View())
	fx := s.ctrl.Tick(dt, events)
	s.world.Apply(fx)
	s.dispatch(fx)
}

// dispatch routes the effects meant for the session rather than the world.
func (s *Session) dispatch(effects []game.Effect) {
	for _, e := range effects {
		switch e.Kind {
		case game.EffectSound:
			s.audio.Play(e.Sound, e.Volume)
		case game.EffectHUD:
			s.hud = e.HUD
		case game.EffectMessage:
			s.message = e.Message
		case game.EffectScene:
			s.changeScene(e.Scene)
		}
	}
}

func (s *Session) changeScene(scene game.Scene) {
	if s.ctrl != nil && s.ctrl.View().State == game.StateGameOver {
		s.finishGame()
	}
	switch scene {
	case game.SceneCredits:
		s.showCredits()
	default:
		s.screen = ScreenMenu
	}
}

func (s *Session) finishGame() {
	l := s.ctrl.Ledger()
	view := s.ctrl.View()
	s.log.Info("game over", "score", l.Score(), "level", l.Level()+1, "duration", view.Clock.Round(time.Second))
	s.best = max(s.best, l.Score())

	if s.store != nil {
		id, err := s.store.RecordResult(context.Background(), store.Result{
			Player:   s.opts.Player,
			Score:    l.Score(),
			Level:    l.Level(),
			Duration: view.Clock,
		})
		if err != nil {
			s.log.Error("record result", "err", err)
		} else {
			s.log.Debug("result recorded", "id", id)
		}
	}
	s.ctrl, s.world = nil, nil
}

// showCredits rolls the credits. They can be skipped only by players who
// have seen them before.
func (s *Session) showCredits() {
	s.screen = ScreenCredits
	s.credits = config.CreditsSeconds
	s.canSkipCredits = false

	if s.store == nil {
		return
	}
	ctx := context.Background()
	seen, err := s.store.Flag(ctx, s.opts.Player, store.PrefCanSkipCredits)
	if err != nil {
		s.log.Warn("read credits flag", "err", err)
	}
	s.canSkipCredits = seen
	if !seen {
		if err := s.store.SetFlag(ctx, s.opts.Player, store.PrefCanSkipCredits, true); err != nil {
			s.log.Warn("write credits flag", "err", err)
		}
	}
}

func (s *Session) updateCredits(dt time.Duration) {
	s.credits -= dt.Seconds()
	skip := s.canSkipCredits && s.input.Any() && !s.prevIn.Any()
	if s.credits <= 0 || skip {
		s.end("quit")
	}
}

// BeginShutdown shows the shutdown notice and ends the session shortly
// after.
func (s *Session) BeginShutdown() {
	if s.done || s.screen == ScreenShutdown {
		return
	}
	s.screen = ScreenShutdown
	s.shutdown = config.ShutdownDisplaySeconds
}

func (s *Session) end(reason string) {
	if s.done {
		return
	}
	s.done = true
	s.log.Info("session ended", "reason", reason)
}

func (s *Session) loadBest() {
	if s.store == nil {
		return
	}
	best, err := s.store.BestScore(context.Background(), s.opts.Player)
	if err != nil {
		s.log.Warn("load best score", "err", err)
		return
	}
	s.best = best
}

func field() game.Field {
	return game.Field{HalfWidth: config.FieldHalfWidth, HalfHeight: config.FieldHalfHeight}
}

// Run drives the session from r until it ends, r closes or ctx is
// cancelled. Cancelling ctx shows the shutdown notice first.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	stream := input.StartStream(r)
	draw.HideCursor(s.out)
	defer draw.ShowCursor(s.out)
	draw.ClearScreen(s.out)

	last := time.Now()
	for !s.done {
		frameStart := time.Now()
		dt := frameStart.Sub(last)
		last = frameStart

		if ctx.Err() != nil {
			s.BeginShutdown()
		}
		s.Update(dt, stream.Read())
		s.layout()
		if err := s.Render(); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return err
		}

		if elapsed := time.Since(frameStart); elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}
	draw.ClearScreen(s.out)
	return nil
}

// layout fits the canvas to the terminal, clearing it when the size or
// position changed so no stale cells survive outside the new area.
func (s *Session) layout() {
	w, h, err := s.opts.TermSize()
	if err != nil {
		return
	}
	l := draw.Fit(w, h, config.MaxTermWidth, config.MaxTermHeight)
	if l == s.lay {
		return
	}
	s.lay = l
	s.cw.WriteString("\033[H\033[2J")
	s.canvas.Resize(l.Width, l.Height)
	s.canvas.SetOffset(l.OffCol, l.OffRow)
	s.canvas.ForceRedraw()
	s.cw.SetOffset(l.OffCol, l.OffRow)
}
