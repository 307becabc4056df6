// Package run is the run controller: game mode, time trial countdown,
// crash resolution by contact tag, and the one-time end of run that
// records the high score, the leaderboard entry and the run history.
package run

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snowrun/internal/config"
	"github.com/vovakirdan/snowrun/internal/leaderboard"
	"github.com/vovakirdan/snowrun/internal/sched"
	"github.com/vovakirdan/snowrun/internal/storage"
)

// Player is the part of the locomotion engine the controller drives.
type Player interface {
	ConsumeShield() bool
	ConsumeExtraLife() bool
	CorrectRotation()
	Unstick()
	DisableControls()
	ApplyShield()
	ApplySpeedBoost()
	AddExtraLife()
}

// Scorer exposes the run's score.
type Scorer interface {
	Score() int
	Tricks() int
	Watermark() float64
}

// Prefs is the part of the preference store the controller uses.
type Prefs interface {
	GetString(key, def string) (string, error)
	GetInt(key string, def int) (int, error)
	SetInt(key string, value int) error
}

// Leaderboard ranks finished runs.
type Leaderboard interface {
	Submit(name string, score int) ([]leaderboard.Entry, error)
}

// History stores finished runs.
type History interface {
	SaveRun(r storage.RunRecord) (int64, error)
}

// Deps are the collaborators of a controller. Presenter, Leaderboard and
// History are optional.
type Deps struct {
	Player      Player
	Scorer      Scorer
	Prefs       Prefs
	Leaderboard Leaderboard
	History     History
	Presenter   Presenter
	Tasks       *sched.Queue
	Logger      *log.Logger
}

// Controller is the sole owner of the run's over flag.
type Controller struct {
	cfg  config.Run
	mode Mode
	deps Deps

	remaining float64
	elapsed   float64
	startX    float64
	over      bool
	reason    EndReason
	crashing  bool
	finishing bool
	result    Result
}

// New creates a controller for mode.
func New(cfg config.Run, mode Mode, deps Deps) *Controller {
	if deps.Logger == nil {
		deps.Logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "run"})
	}
	if deps.Tasks == nil {
		deps.Tasks = sched.New()
	}
	if deps.Presenter == nil {
		deps.Logger.Warn("no presenter configured, feedback disabled")
		deps.Presenter = noopPresenter{}
	}
	if deps.Prefs == nil {
		deps.Logger.Warn("no preference store configured, using memory")
		deps.Prefs = storage.NewMemPrefs()
	}
	c := &Controller{cfg: cfg, mode: mode, deps: deps}
	c.Reset(0)
	return c
}

// Reset starts a new run from startX.
func (c *Controller) Reset(startX float64) {
	c.remaining = 0
	if c.mode == ModeTimeTrial {
		c.remaining = c.cfg.TimeLimit
	}
	c.elapsed = 0
	c.startX = startX
	c.over = false
	c.reason = EndNone
	c.crashing = false
	c.finishing = false
	c.result = Result{}
}

// Mode returns the run's mode.
func (c *Controller) Mode() Mode { return c.mode }

// TimeTrial reports whether the run is a time trial.
func (c *Controller) TimeTrial() bool { return c.mode == ModeTimeTrial }

// Remaining returns the time trial countdown, 0 in endless runs.
func (c *Controller) Remaining() float64 { return c.remaining }

// Elapsed returns the run time so far.
func (c *Controller) Elapsed() float64 { return c.elapsed }

// Over reports whether the run has ended.
func (c *Controller) Over() bool { return c.over }

// Reason returns why the run ended.
func (c *Controller) Reason() EndReason { return c.reason }

// Result returns the final result once the run is over.
func (c *Controller) Result() (Result, bool) { return c.result, c.over }

// Ending reports whether a crash or finish is waiting for its delay.
func (c *Controller) Ending() bool { return c.crashing || c.finishing }

// Update advances timers by dt.
func (c *Controller) Update(dt float64) {
	if c.over {
		return
	}
	c.elapsed += dt
	if c.mode != ModeTimeTrial {
		return
	}
	c.remaining -= dt
	if c.remaining <= 0 {
		c.remaining = 0
		c.deps.Player.DisableControls()
		c.end(EndTimeout)
	}
}

// HandleContact resolves a contact event by tag.
func (c *Controller) HandleContact(tag Tag) {
	if c.over {
		return
	}
	// A reached finish line is not taken back by a later crash.
	if c.finishing && (tag == TagGround || tag == TagFall) {
		return
	}
	switch tag {
	case TagGround:
		c.handleCrash()
	case TagFall:
		c.deps.Player.DisableControls()
		c.deps.Presenter.PlayEffect(EffectCrash)
		c.end(EndFall)
	case TagFinish:
		if c.finishing {
			return
		}
		c.finishing = true
		c.deps.Presenter.PlayEffect(EffectFinish)
		c.deps.Tasks.After(c.cfg.FinishDelay, func() {
			c.deps.Player.DisableControls()
			c.end(EndFinish)
		})
	case TagExtraLife:
		c.deps.Player.AddExtraLife()
		c.deps.Presenter.PlayEffect(EffectPickupExtraLife)
	case TagShield:
		c.deps.Player.ApplyShield()
		c.deps.Presenter.PlayEffect(EffectPickupShield)
	case TagSpeedBoost:
		c.deps.Player.ApplySpeedBoost()
		c.deps.Presenter.PlayEffect(EffectPickupSpeedBoost)
	default:
		c.deps.Logger.Debug("ignoring contact", "tag", tag)
	}
}

// handleCrash applies shield, then extra life, then a real crash.
func (c *Controller) handleCrash() {
	if c.crashing {
		return
	}
	p := c.deps.Player
	if p.ConsumeShield() {
		p.CorrectRotation()
		c.deps.Presenter.PlayEffect(EffectShieldBreak)
		return
	}
	if p.ConsumeExtraLife() {
		p.CorrectRotation()
		p.Unstick()
		c.deps.Presenter.PlayEffect(EffectExtraLifeUsed)
		c.deps.Logger.Debug("extra life used")
		return
	}

	c.crashing = true
	p.DisableControls()
	c.deps.Presenter.PlayEffect(EffectCrash)
	c.deps.Tasks.After(c.cfg.CrashDelay, func() { c.end(EndCrash) })
}

// end marks the run over and records it. Only the first call has any effect.
func (c *Controller) end(reason EndReason) {
	if c.over {
		return
	}
	c.over = true
	c.reason = reason

	score := c.deps.Scorer.Score()
	r := Result{
		Mode:     c.mode,
		Reason:   reason,
		Score:    score,
		Tricks:   c.deps.Scorer.Tricks(),
		Distance: c.deps.Scorer.Watermark() - c.startX,
		Duration: c.elapsed,
	}

	prefs := c.deps.Prefs
	name, err := prefs.GetString(storage.KeyPlayerName, "Player")
	if err != nil {
		c.deps.Logger.Warn("cannot read player name", "error", err)
	}
	r.Player = name

	high, err := prefs.GetInt(storage.KeyHighScore, 0)
	if err != nil {
		c.deps.Logger.Warn("cannot read high score", "error", err)
	}
	r.HighScore = high
	if score > high {
		r.HighScore = score
		r.NewHighScore = true
		if err := prefs.SetInt(storage.KeyHighScore, score); err != nil {
			c.deps.Logger.Warn("cannot save high score", "error", err)
		}
	}

	if c.deps.Leaderboard != nil {
		entries, err := c.deps.Leaderboard.Submit(name, score)
		if err != nil {
			c.deps.Logger.Warn("cannot submit to leaderboard", "error", err)
		}
		r.Leaderboard = entries
		r.Rank = leaderboard.Rank(entries, name)
	}

	if c.deps.History != nil {
		_, err := c.deps.History.SaveRun(storage.RunRecord{
			Player:    name,
			Mode:      c.mode.String(),
			Score:     score,
			Tricks:    r.Tricks,
			Distance:  r.Distance,
			EndReason: string(reason),
			Duration:  r.Duration,
		})
		if err != nil {
			c.deps.Logger.Warn("cannot save run history", "error", err)
		}
	}

	c.result = r
	c.deps.Logger.Info("run over", "mode", c.mode, "reason", reason, "score", score, "tricks", r.Tricks)
	c.deps.Presenter.ShowResults(r)
}

type noopPresenter struct{}

func (noopPresenter) PlayEffect(Effect)  {}
func (noopPresenter) ShowResults(Result) {}
