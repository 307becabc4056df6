// Package score turns rider progress into points: distance past the
// farthest x reached, plus a bonus for every full airborne rotation.
package score

import (
	"math"

	"github.com/vovakirdan/snowrun/internal/config"
	"github.com/vovakirdan/snowrun/internal/rider"
)

// State is the score bookkeeping for one run.
type State struct {
	Score     int
	Watermark float64 // Farthest x reached, never decreases
	Tricks    int
	Baseline  float64 // Rotation at the last trick or while grounded
}

// Engine derives score from a read-only rider view.
type Engine struct {
	cfg    config.Scoring
	player rider.View
	state  State
}

// New creates a score engine reading from player.
func New(cfg config.Scoring, player rider.View) *Engine {
	if cfg.TrickDegrees <= 0 {
		cfg.TrickDegrees = 360
	}
	e := &Engine{cfg: cfg, player: player}
	e.Reset()
	return e
}

// Reset zeroes the score and seeds the watermark from the player's x.
func (e *Engine) Reset() {
	e.state = State{}
	if e.player != nil {
		e.state.Watermark = e.player.Position().X
		e.state.Baseline = e.player.Rotation()
	}
}

// Update applies one frame of scoring and returns the points awarded.
func (e *Engine) Update() int {
	if e.player == nil {
		return 0
	}
	before := e.state.Score

	x := e.player.Position().X
	if x > e.state.Watermark {
		e.state.Score += int(math.Floor((x - e.state.Watermark) * e.cfg.DistanceRate))
		e.state.Watermark = x
	}

	rot := e.player.Rotation()
	if e.player.Grounded() {
		e.state.Baseline = rot
	} else if math.Abs(rot-e.state.Baseline) > e.cfg.TrickDegrees {
		e.state.Tricks++
		e.state.Score += e.cfg.TrickBonus
		e.state.Baseline = rot
	}

	return e.state.Score - before
}

// Score returns the current score.
func (e *Engine) Score() int { return e.state.Score }

// Tricks returns the number of tricks landed this run.
func (e *Engine) Tricks() int { return e.state.Tricks }

// Watermark returns the farthest x reached.
func (e *Engine) Watermark() float64 { return e.state.Watermark }

// State returns a copy of the score state.
func (e *Engine) State() State { return e.state }
