// Package terrain streams terrain chunks around the rider: a rolling queue
// of templates tiled anchor to anchor, recycled in endless runs and capped
// with a terminal chunk in time trials.
package terrain

import (
	"math"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snowrun/internal/config"
	"github.com/vovakirdan/snowrun/internal/core"
	"github.com/vovakirdan/snowrun/internal/physics"
	"github.com/vovakirdan/snowrun/internal/sched"
)

// ModeReader tells the streamer which mode the run is in.
type ModeReader interface {
	TimeTrial() bool
}

// Streamer maintains the ordered queue of active chunks.
type Streamer struct {
	cfg    config.Terrain
	mode   ModeReader
	tasks  *sched.Queue
	logger *log.Logger

	chunks    []*Chunk
	segments  []physics.Segment // flattened from chunks, rebuilt on change
	nextStart core.Vec2         // Start anchor of the next chunk
	cursor    int               // Round-robin template index
	spawned   int

	modeChecked bool
	timeTrial   bool
	finishX     float64
	hasFinish   bool
}

// New creates a streamer. tasks schedules the mode check; logger may be nil.
func New(cfg config.Terrain, mode ModeReader, tasks *sched.Queue, logger *log.Logger) *Streamer {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "terrain"})
		logger.Warn("no logger configured, using stderr")
	}
	if tasks == nil {
		tasks = sched.New()
	}
	if cfg.ChunksAhead < 1 {
		cfg.ChunksAhead = 1
	}
	if cfg.MissingEndLength <= 0 {
		cfg.MissingEndLength = 10
	}
	return &Streamer{
		cfg:    cfg,
		mode:   mode,
		tasks:  tasks,
		logger: logger,
	}
}

// Reset clears the queue, spawns the initial chunks starting at origin and
// schedules the mode check.
func (s *Streamer) Reset(origin core.Vec2) {
	s.chunks = s.chunks[:0]
	s.segments = nil
	s.nextStart = origin
	s.cursor = 0
	s.spawned = 0
	s.modeChecked = false
	s.timeTrial = false
	s.finishX = 0
	s.hasFinish = false

	if len(s.cfg.Templates) == 0 {
		s.logger.Warn("no chunk templates configured, terrain disabled")
		return
	}

	for i := 0; i < s.cfg.ChunksAhead; i++ {
		s.spawn()
	}
	s.rebuild()

	s.tasks.After(s.cfg.ModeCheckDelay, s.checkMode)
}

func (s *Streamer) checkMode() {
	s.modeChecked = true
	s.timeTrial = s.mode != nil && s.mode.TimeTrial()
	if s.timeTrial {
		s.logger.Debug("time trial cap engaged", "max_chunks", s.cfg.TimeTrialMaxChunks, "chunks", len(s.chunks))
	}
}

// Update spawns or recycles chunks for the player's current x.
func (s *Streamer) Update(playerX float64) {
	if len(s.cfg.Templates) == 0 {
		return
	}

	if s.timeTrial {
		s.updateTimeTrial(playerX)
		return
	}

	changed := false
	if playerX > s.nextStart.X-s.cfg.LookAheadDistance {
		s.spawn()
		changed = true
	}
	if len(s.chunks) > s.cfg.ChunksAhead+2 {
		s.chunks[0] = nil
		s.chunks = s.chunks[1:]
		changed = true
	}
	if changed {
		s.rebuild()
	}
}

// updateTimeTrial keeps the look-ahead rule up to the cap, never recycles,
// and fixes the finish line on the last chunk once the cap is reached.
func (s *Streamer) updateTimeTrial(playerX float64) {
	if s.hasFinish {
		return
	}
	if len(s.chunks) < s.cfg.TimeTrialMaxChunks && playerX > s.nextStart.X-s.cfg.LookAheadDistance {
		s.spawn()
		s.rebuild()
	}
	if len(s.chunks) < s.cfg.TimeTrialMaxChunks {
		return
	}
	last := s.chunks[len(s.chunks)-1]
	last.Terminal = true
	s.finishX = last.End.X
	s.hasFinish = true
	s.logger.Debug("finish line placed", "x", s.finishX, "chunk", last.Index)
}

// spawn places the next template at nextStart.
func (s *Streamer) spawn() {
	tpl := s.cfg.Templates[s.cursor%len(s.cfg.Templates)]
	s.cursor = (s.cursor + 1) % len(s.cfg.Templates)

	var startLocal core.Vec2
	if tpl.Start != nil {
		startLocal = core.V(tpl.Start.X, tpl.Start.Y)
	} else {
		s.logger.Warn("chunk template has no start anchor, using zero offset", "template", tpl.ID)
	}

	var endLocal core.Vec2
	if tpl.End != nil {
		endLocal = core.V(tpl.End.X, tpl.End.Y)
	} else {
		s.logger.Warn("chunk template has no end anchor, using default length", "template", tpl.ID, "length", s.cfg.MissingEndLength)
		endLocal = core.V(s.cfg.MissingEndLength, 0)
	}
	if endLocal.X <= startLocal.X {
		s.logger.Warn("chunk end anchor is not ahead of start, using default length", "template", tpl.ID)
		endLocal = startLocal.Add(core.V(s.cfg.MissingEndLength, 0))
	}

	// Template origin in world space, chosen so the start anchor lands on nextStart.
	origin := s.nextStart.Sub(startLocal)
	c := &Chunk{
		TemplateID: tpl.ID,
		Index:      s.spawned,
		Start:      s.nextStart,
		End:        origin.Add(endLocal),
	}

	if len(tpl.Surface) < 2 {
		s.logger.Warn("chunk template has no surface, using a straight run", "template", tpl.ID)
		c.Segments = []physics.Segment{{A: c.Start, B: c.End, Layer: physics.LayerGround}}
	} else {
		c.Segments = make([]physics.Segment, 0, len(tpl.Surface)-1)
		for i := 1; i < len(tpl.Surface); i++ {
			a, b := tpl.Surface[i-1], tpl.Surface[i]
			c.Segments = append(c.Segments, physics.Segment{
				A:     origin.Add(core.V(a.X, a.Y)),
				B:     origin.Add(core.V(b.X, b.Y)),
				Layer: physics.LayerGround,
			})
		}
	}

	for _, p := range tpl.Pickups {
		kind, ok := ParsePickupKind(p.Kind)
		if !ok {
			s.logger.Warn("unknown pickup kind", "template", tpl.ID, "kind", p.Kind)
			continue
		}
		c.Pickups = append(c.Pickups, &Pickup{Kind: kind, Pos: origin.Add(core.V(p.X, p.Y))})
	}

	s.chunks = append(s.chunks, c)
	s.nextStart = c.End
	s.spawned++
}

func (s *Streamer) rebuild() {
	s.segments = s.segments[:0]
	for _, c := range s.chunks {
		s.segments = append(s.segments, c.Segments...)
	}
}

// Chunks returns the active chunks, oldest first.
func (s *Streamer) Chunks() []*Chunk {
	out := make([]*Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out
}

// Len returns the number of active chunks.
func (s *Streamer) Len() int {
	return len(s.chunks)
}

// Spawned returns how many chunks have been spawned since Reset.
func (s *Streamer) Spawned() int {
	return s.spawned
}

// NextSpawnX returns the x of the next chunk's start anchor.
func (s *Streamer) NextSpawnX() float64 {
	return s.nextStart.X
}

// Segments returns the collision surface of all active chunks.
// The slice is shared and only valid until the next Update.
func (s *Streamer) Segments() []physics.Segment {
	return s.segments
}

// SurfaceAt returns the surface height at x.
func (s *Streamer) SurfaceAt(x float64) (float64, bool) {
	_, y, ok := physics.SurfaceAt(s.segments, x, physics.LayerGround)
	return y, ok
}

// LowestY returns the lowest surface point of the active chunks.
func (s *Streamer) LowestY() float64 {
	if len(s.segments) == 0 {
		return s.nextStart.Y
	}
	lowest := math.Inf(1)
	for _, seg := range s.segments {
		lowest = math.Min(lowest, math.Min(seg.A.Y, seg.B.Y))
	}
	return lowest
}

// Bounds returns the x extent covered by active chunks.
func (s *Streamer) Bounds() (minX, maxX float64) {
	if len(s.chunks) == 0 {
		return s.nextStart.X, s.nextStart.X
	}
	return s.chunks[0].Start.X, s.chunks[len(s.chunks)-1].End.X
}

// Pickups calls fn for every uncollected pickup.
func (s *Streamer) Pickups(fn func(p *Pickup)) {
	for _, c := range s.chunks {
		for _, p := range c.Pickups {
			if !p.Collected {
				fn(p)
			}
		}
	}
}

// TimeTrial reports whether the mode check has confirmed a time trial.
func (s *Streamer) TimeTrial() bool {
	return s.timeTrial
}

// ModeChecked reports whether the scheduled mode check has run.
func (s *Streamer) ModeChecked() bool {
	return s.modeChecked
}

// FinishX returns the finish line x once the terminal chunk is placed.
func (s *Streamer) FinishX() (float64, bool) {
	return s.finishX, s.hasFinish
}
