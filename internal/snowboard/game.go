// Package snowboard composes a run: it owns the frame loop, steps the rider
// at a fixed physics rate, detects pickups, crashes, falls and the finish
// line, and bridges run feedback to the presentation layer.
package snowboard

import (
	"math"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snowrun/internal/config"
	"github.com/vovakirdan/snowrun/internal/core"
	"github.com/vovakirdan/snowrun/internal/leaderboard"
	"github.com/vovakirdan/snowrun/internal/physics"
	"github.com/vovakirdan/snowrun/internal/registry"
	"github.com/vovakirdan/snowrun/internal/rider"
	"github.com/vovakirdan/snowrun/internal/run"
	"github.com/vovakirdan/snowrun/internal/sched"
	"github.com/vovakirdan/snowrun/internal/score"
	"github.com/vovakirdan/snowrun/internal/storage"
	"github.com/vovakirdan/snowrun/internal/terrain"
)

// maxFixedSteps bounds the physics catch-up per frame.
const maxFixedSteps = 5

// flashDuration is how long an effect message stays in the HUD.
const flashDuration = 1.5

// Game is one snowboard run in a given mode.
type Game struct {
	mode   run.Mode
	env    registry.Env
	cfg    config.Config
	logger *log.Logger

	rt     core.RuntimeConfig
	tasks  *sched.Queue
	source rider.Source
	player *rider.Engine
	world  *terrain.Streamer
	score  *score.Engine
	run    *run.Controller
	board  *leaderboard.Store
	prefs  storage.Prefs

	clock       float64
	accumulator float64
	frames      uint64
	paused      bool
	headBelow   bool
	finishSent  bool

	screenTooSmall bool
	minScreenW     int
	minScreenH     int

	flash      string
	flashUntil float64
	effects    []run.Effect
	result     *run.Result
	best       int
}

// New creates a game for mode. Nothing is built until Reset.
func New(mode run.Mode, env registry.Env) *Game {
	logger := env.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "snowrun",
		})
	}
	prefs := env.Prefs
	if prefs == nil {
		logger.Warn("no preference store configured, using memory")
		prefs = storage.NewMemPrefs()
	}
	return &Game{
		mode:       mode,
		env:        env,
		cfg:        env.Config,
		logger:     logger,
		prefs:      prefs,
		minScreenW: 40,
		minScreenH: 12,
	}
}

// ID returns the registry identifier of the game's mode.
func (g *Game) ID() string {
	return g.mode.String()
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Snowrun: " + g.mode.Title()
}

// Mode returns the run's mode.
func (g *Game) Mode() run.Mode {
	return g.mode
}

// Reset builds a fresh world and starts a new run.
func (g *Game) Reset(rt core.RuntimeConfig) {
	g.rt = rt
	g.screenTooSmall = rt.ScreenW < g.minScreenW || rt.ScreenH < g.minScreenH

	g.tasks = sched.New()
	g.source = rider.NewSource(g.cfg.Input, float64(rt.ScreenW))
	g.player = rider.New(g.cfg, g.source, g.tasks, g.logger.WithPrefix("rider"))
	g.score = score.New(g.cfg.Scoring, g.player)
	g.board = leaderboard.New(g.cfg.Leaderboard, g.prefs, rand.New(rand.NewSource(rt.Seed)), g.logger.WithPrefix("leaderboard"))

	g.run = run.New(g.cfg.Run, g.mode, run.Deps{
		Player:      g.player,
		Scorer:      g.score,
		Prefs:       g.prefs,
		Leaderboard: g.board,
		History:     g.env.History,
		Presenter:   g,
		Tasks:       g.tasks,
		Logger:      g.logger.WithPrefix("run"),
	})
	g.world = terrain.New(g.cfg.Terrain, g.run, g.tasks, g.logger.WithPrefix("terrain"))

	spawn := core.V(g.cfg.Rider.SpawnX, g.cfg.Rider.SpawnY)
	g.world.Reset(core.V(0, 0))
	g.player.Reset(spawn)
	g.score.Reset()
	g.run.Reset(spawn.X)

	if _, err := g.board.Load(); err != nil {
		g.logger.Warn("cannot load leaderboard", "error", err)
	}
	best, err := g.prefs.GetInt(storage.KeyHighScore, 0)
	if err != nil {
		g.logger.Warn("cannot read high score", "error", err)
	}
	g.best = best

	g.clock = 0
	g.accumulator = 0
	g.frames = 0
	g.paused = false
	g.headBelow = false
	g.finishSent = false
	g.flash = ""
	g.flashUntil = 0
	g.effects = g.effects[:0]
	g.result = nil

	g.logger.Debug("run started", "mode", g.mode, "input", g.player.SourceName(), "seed", rt.Seed)
}

// Resize adapts the view to a new terminal size without restarting.
func (g *Game) Resize(w, h int) {
	g.rt.ScreenW = w
	g.rt.ScreenH = h
	g.screenTooSmall = w < g.minScreenW || h < g.minScreenH
	if ts, ok := g.source.(*rider.TouchSource); ok {
		ts.SetScreenWidth(float64(w))
	}
}

// Step advances the run by one frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.run == nil {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.run.Over() {
		g.paused = !g.paused
	}
	if g.paused || g.run.Over() {
		return core.StepResult{State: g.State()}
	}

	dt := g.rt.FrameDelta()
	g.clock += dt
	g.frames++
	g.tasks.Poll(g.clock)

	g.player.Update(g.clock, in)

	fixed := g.cfg.Physics.FixedStep
	if fixed <= 0 {
		fixed = dt
	}
	g.accumulator += dt
	steps := 0
	for g.accumulator >= fixed && steps < maxFixedSteps {
		g.player.FixedUpdate(fixed, g.world.Segments())
		g.detectContacts()
		g.accumulator -= fixed
		steps++
	}
	if steps == maxFixedSteps && g.accumulator >= fixed {
		g.accumulator = math.Mod(g.accumulator, fixed)
	}

	g.world.Update(g.player.Position().X)
	g.score.Update()
	g.run.Update(dt)

	return core.StepResult{State: g.State()}
}

// detectContacts turns the rider's overlap with the world into contact events.
func (g *Game) detectContacts() {
	if g.run.Over() {
		return
	}
	pos := g.player.Position()
	head := g.player.HeadPosition()

	if pos.Y < g.world.LowestY()-g.cfg.Run.KillDepth {
		g.run.HandleContact(run.TagFall)
		return
	}

	body := physics.Segment{A: pos, B: head}
	radius := g.cfg.PowerUps.PickupRadius
	g.world.Pickups(func(p *terrain.Pickup) {
		if body.ClosestPoint(p.Pos).Sub(p.Pos).Len() > radius {
			return
		}
		p.Collected = true
		g.run.HandleContact(pickupTag(p.Kind))
	})

	below := physics.BelowSurface(g.world.Segments(), g.player.HeadPosition(), physics.LayerGround)
	if below && !g.headBelow {
		g.run.HandleContact(run.TagGround)
	}
	g.headBelow = below

	if fx, ok := g.world.FinishX(); ok && !g.finishSent && pos.X >= fx {
		g.finishSent = true
		g.run.HandleContact(run.TagFinish)
	}
}

func pickupTag(k terrain.PickupKind) run.Tag {
	switch k {
	case terrain.PickupExtraLife:
		return run.TagExtraLife
	case terrain.PickupShield:
		return run.TagShield
	default:
		return run.TagSpeedBoost
	}
}

// PlayEffect implements run.Presenter.
func (g *Game) PlayEffect(e run.Effect) {
	g.effects = append(g.effects, e)
	g.flash = effectText(e)
	g.flashUntil = g.clock + flashDuration
	if g.env.Presenter != nil {
		g.env.Presenter.PlayEffect(e)
	}
}

// ShowResults implements run.Presenter.
func (g *Game) ShowResults(r run.Result) {
	g.result = &r
	if r.HighScore > g.best {
		g.best = r.HighScore
	}
	if g.env.Presenter != nil {
		g.env.Presenter.ShowResults(r)
	}
}

func effectText(e run.Effect) string {
	switch e {
	case run.EffectCrash:
		return "WIPEOUT!"
	case run.EffectFinish:
		return "FINISH!"
	case run.EffectShieldBreak:
		return "Shield broke!"
	case run.EffectExtraLifeUsed:
		return "Extra life used!"
	case run.EffectPickupExtraLife:
		return "+1 life"
	case run.EffectPickupShield:
		return "Shield up"
	case run.EffectPickupSpeedBoost:
		return "Speed boost!"
	default:
		return ""
	}
}

// Effects returns the effects played since Reset, oldest first.
func (g *Game) Effects() []run.Effect {
	return append([]run.Effect(nil), g.effects...)
}

// Result returns the final result once the run is over.
func (g *Game) Result() (run.Result, bool) {
	if g.result == nil {
		return run.Result{}, false
	}
	return *g.result, true
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.run == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.score.Score(),
		GameOver: g.run.Over(),
		Paused:   g.paused,
	}
}

// Register both modes with the registry.
func init() {
	registry.Register(run.ModeEndless.String(), "Snowrun: "+run.ModeEndless.Title(), func(env registry.Env) registry.Game {
		return New(run.ModeEndless, env)
	})
	registry.Register(run.ModeTimeTrial.String(), "Snowrun: "+run.ModeTimeTrial.Title(), func(env registry.Env) registry.Game {
		return New(run.ModeTimeTrial, env)
	})
}
