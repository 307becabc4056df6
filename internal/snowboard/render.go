package snowboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/snowrun/internal/core"
	"github.com/vovakirdan/snowrun/internal/run"
	"github.com/vovakirdan/snowrun/internal/terrain"
)

// Visual characters for rendering
const (
	HeadChar       = 'o'
	ShieldHeadChar = '@'
	TrailChar      = '~'
	SnowChar       = '░'
	FinishChar     = '#'
	BorderHoriz    = '─'
)

// BoardGlyphs maps the board's rotation to a glyph, one per 45° sector
// starting at level.
var BoardGlyphs = []rune{'=', '/', '|', '\\', '=', '/', '|', '\\'}

// World units to cells: terminal cells are about twice as tall as wide.
const (
	cellsPerUnitX = 2.0
	cellsPerUnitY = 1.0
	hudRows       = 2
)

// camera maps world space to screen cells. Row 0 is the top of the screen.
type camera struct {
	x, y float64 // world position of the screen's top-left corner
}

func (g *Game) camera(dst *core.Screen) camera {
	pos := g.player.Position()
	return camera{
		x: pos.X - float64(dst.Width())/4/cellsPerUnitX,
		y: pos.Y + float64(dst.Height())/2/cellsPerUnitY,
	}
}

func (c camera) cell(p core.Vec2) (int, int) {
	return int(math.Floor((p.X - c.x) * cellsPerUnitX)), int(math.Floor((c.y - p.Y) * cellsPerUnitY))
}

func (c camera) worldX(col int) float64 {
	return c.x + (float64(col)+0.5)/cellsPerUnitX
}

// Render draws the run into dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.screenTooSmall || dst.Width() < g.minScreenW || dst.Height() < g.minScreenH {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", g.minScreenW, g.minScreenH)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}
	if g.run == nil {
		return
	}

	cam := g.camera(dst)

	g.renderSlope(dst, cam)
	g.renderFinish(dst, cam)
	g.renderPickups(dst, cam)
	g.renderRider(dst, cam)
	g.renderHUD(dst)
	g.renderOverlay(dst)
}

// renderSlope draws the surface line and the snow beneath it.
func (g *Game) renderSlope(dst *core.Screen, cam camera) {
	rowAt := func(col int) (int, bool) {
		y, ok := g.world.SurfaceAt(cam.worldX(col))
		if !ok {
			return 0, false
		}
		return int(math.Floor((cam.y - y) * cellsPerUnitY)), true
	}

	for col := range dst.Width() {
		row, ok := rowAt(col)
		if !ok {
			continue
		}

		glyph := '_'
		if next, ok := rowAt(col + 1); ok {
			switch {
			case next > row:
				glyph = '\\'
			case next < row:
				glyph = '/'
			}
		}
		if row >= hudRows {
			dst.Set(col, row, glyph)
		}
		for y := core.Max(row+1, hudRows); y < dst.Height(); y++ {
			dst.Set(col, y, SnowChar)
		}
	}
}

// renderFinish draws the finish line once it is placed.
func (g *Game) renderFinish(dst *core.Screen, cam camera) {
	fx, ok := g.world.FinishX()
	if !ok {
		return
	}
	y, ok := g.world.SurfaceAt(fx)
	if !ok {
		return
	}
	col, bottom := cam.cell(core.V(fx, y))
	if col < 0 || col >= dst.Width() {
		return
	}
	top := core.Max(hudRows, bottom-4)
	dst.DrawVLine(col, top, bottom-top, FinishChar)
}

// renderPickups draws the uncollected pickups.
func (g *Game) renderPickups(dst *core.Screen, cam camera) {
	g.world.Pickups(func(p *terrain.Pickup) {
		x, y := cam.cell(p.Pos)
		if y < hudRows {
			return
		}
		dst.Set(x, y, p.Kind.Glyph())
	})
}

// renderRider draws the board and the rider's head, one row above the
// surface they stand on.
func (g *Game) renderRider(dst *core.Screen, cam camera) {
	bx, by := cam.cell(g.player.Position())
	hx, hy := cam.cell(g.player.HeadPosition())
	by--
	hy--

	if g.player.Boosted() {
		dst.Set(bx-1, by, TrailChar)
		dst.Set(bx-2, by, TrailChar)
	}
	if by >= hudRows {
		dst.Set(bx, by, boardGlyph(g.player.Rotation()))
	}

	head := HeadChar
	if g.player.Shielded() {
		head = ShieldHeadChar
	}
	if hy >= hudRows && (hx != bx || hy != by) {
		dst.Set(hx, hy, head)
	}
}

func boardGlyph(rotation float64) rune {
	a := math.Mod(rotation, 360)
	if a < 0 {
		a += 360
	}
	sector := int(math.Floor((a+22.5)/45)) % len(BoardGlyphs)
	return BoardGlyphs[sector]
}

// renderHUD draws score, time and the active modifiers.
func (g *Game) renderHUD(dst *core.Screen) {
	// Score on left
	dst.DrawText(1, 0, fmt.Sprintf("Score: %d", g.score.Score()))

	// Mode and clock in center
	var clock string
	if g.run.TimeTrial() {
		clock = fmt.Sprintf("Time: %.1f", g.run.Remaining())
	} else {
		clock = fmt.Sprintf("Distance: %dm", int(g.score.Watermark()-g.cfg.Rider.SpawnX))
	}
	dst.DrawTextCentered(0, clock)

	// Best on right
	best := fmt.Sprintf("Best: %d", g.best)
	dst.DrawText(dst.Width()-len(best)-1, 0, best)

	status := g.buildStatusString()
	if status == "" {
		for x := range dst.Width() {
			dst.Set(x, 1, BorderHoriz)
		}
		return
	}
	dst.DrawText(1, 1, status)
}

func (g *Game) buildStatusString() string {
	var parts []string
	if n := g.player.ExtraLives(); n > 0 {
		parts = append(parts, fmt.Sprintf("Lives: %d", n))
	}
	s := g.player.State()
	if s.Shield {
		parts = append(parts, fmt.Sprintf("Shield: %.1fs", s.ShieldRemaining))
	}
	if s.Boost {
		parts = append(parts, fmt.Sprintf("Boost x%.1f: %.1fs", s.BoostMultiplier, s.BoostRemaining))
	}
	if n := g.score.Tricks(); n > 0 {
		parts = append(parts, fmt.Sprintf("Tricks: %d", n))
	}
	if g.flash != "" && g.clock < g.flashUntil {
		parts = append(parts, g.flash)
	}
	return strings.Join(parts, "  |  ")
}

// renderOverlay draws pause and end of run boxes.
func (g *Game) renderOverlay(dst *core.Screen) {
	if g.paused {
		drawBox(dst, []string{"PAUSED", "", "Press P to resume"})
		return
	}
	if g.result != nil {
		drawBox(dst, resultLines(*g.result))
	}
}

func resultLines(r run.Result) []string {
	title := "GAME OVER"
	switch r.Reason {
	case run.EndCrash:
		title = "WIPEOUT"
	case run.EndFall:
		title = "YOU FELL"
	case run.EndFinish:
		title = "FINISHED!"
	case run.EndTimeout:
		title = "TIME'S UP"
	}

	lines := []string{
		title,
		"",
		fmt.Sprintf("Score: %d  Tricks: %d  Distance: %dm", r.Score, r.Tricks, int(r.Distance)),
	}
	if r.NewHighScore {
		lines = append(lines, "NEW HIGH SCORE!")
	} else {
		lines = append(lines, fmt.Sprintf("Best: %d", r.HighScore))
	}

	if len(r.Leaderboard) > 0 {
		lines = append(lines, "", "LEADERBOARD")
		for i, e := range r.Leaderboard {
			marker := ""
			if i+1 == r.Rank {
				marker = " < YOU"
			}
			lines = append(lines, fmt.Sprintf("%d. %-12s %7d%s", i+1, truncate(e.Name, 12), e.Score, marker))
		}
	}

	lines = append(lines, "", "R: restart  B: menu  Q: quit")
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}

// drawBox draws a centered box with one line of text per row.
func drawBox(dst *core.Screen, lines []string) {
	w := 0
	for _, l := range lines {
		w = core.Max(w, len([]rune(l)))
	}
	boxW := w + 4
	boxH := len(lines) + 2
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	for i, l := range lines {
		x := boxX + (boxW-len([]rune(l)))/2
		dst.DrawText(x, boxY+1+i, l)
	}
}
