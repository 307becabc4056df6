package snowboard

// Snapshot is the read-only view of a run for the presentation layer and
// replay checks. Uses primitive types only for stable serialization.
type Snapshot struct {
	Frame uint64
	Clock float64
	Mode  string

	Score     int
	Tricks    int
	HighScore int
	Distance  float64

	// Time trial countdown, 0 in endless runs
	Remaining float64
	Elapsed   float64

	X, Y     float64
	VX, VY   float64
	Rotation float64
	Grounded bool
	Braking  bool
	Controls bool

	Shield          bool
	ShieldRemaining float64
	Boost           bool
	BoostRemaining  float64
	Lives           int

	Chunks    int
	Spawned   int
	FinishX   float64
	HasFinish bool

	Paused bool
	Ending bool
	Over   bool
	Reason string
	Input  string
}

// Snapshot returns the current run state.
func (g *Game) Snapshot() Snapshot {
	if g.run == nil {
		return Snapshot{Mode: g.mode.String()}
	}
	p := g.player.State()
	finishX, hasFinish := g.world.FinishX()
	return Snapshot{
		Frame:     g.frames,
		Clock:     g.clock,
		Mode:      g.mode.String(),
		Score:     g.score.Score(),
		Tricks:    g.score.Tricks(),
		HighScore: g.best,
		Distance:  g.score.Watermark() - g.cfg.Rider.SpawnX,

		Remaining: g.run.Remaining(),
		Elapsed:   g.run.Elapsed(),

		X:        p.Pos.X,
		Y:        p.Pos.Y,
		VX:       p.Vel.X,
		VY:       p.Vel.Y,
		Rotation: p.Rotation,
		Grounded: p.Grounded,
		Braking:  p.Braking,
		Controls: p.ControlsEnabled,

		Shield:          p.Shield,
		ShieldRemaining: p.ShieldRemaining,
		Boost:           p.Boost,
		BoostRemaining:  p.BoostRemaining,
		Lives:           p.ExtraLives,

		Chunks:    g.world.Len(),
		Spawned:   g.world.Spawned(),
		FinishX:   finishX,
		HasFinish: hasFinish,

		Paused: g.paused,
		Ending: g.run.Ending(),
		Over:   g.run.Over(),
		Reason: string(g.run.Reason()),
		Input:  g.player.SourceName(),
	}
}
