package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snowrun/internal/core"
	"github.com/vovakirdan/snowrun/internal/snowboard"
	"github.com/vovakirdan/snowrun/internal/terrain"
)

// cellClass groups glyphs that share a style.
type cellClass int

const (
	classDefault cellClass = iota
	classSnow
	classSurface
	classRider
	classShield
	classLife
	classBoost
	classFinish
)

// classStyles maps cell classes to lipgloss styles.
var classStyles = map[cellClass]lipgloss.Style{
	classDefault: lipgloss.NewStyle(),
	classSnow:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	classSurface: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	classRider:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	classShield:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	classLife:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	classBoost:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	classFinish:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
}

// classify picks the style class for a cell. Rows above the playfield are
// text and keep the default style.
func classify(r rune, y int) cellClass {
	if y < 2 {
		return classDefault
	}
	switch r {
	case snowboard.SnowChar:
		return classSnow
	case '_', '/', '\\':
		return classSurface
	case snowboard.HeadChar, '=', '|', snowboard.TrailChar:
		return classRider
	case snowboard.ShieldHeadChar, terrain.PickupShield.Glyph():
		return classShield
	case terrain.PickupExtraLife.Glyph():
		return classLife
	case terrain.PickupSpeedBoost.Glyph():
		return classBoost
	case snowboard.FinishChar:
		return classFinish
	}
	return classDefault
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same style to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := classify(s.Get(x, y), y)

			var run strings.Builder
			for x < s.Width() {
				r := s.Get(x, y)
				if classify(r, y) != start {
					break
				}
				run.WriteRune(r)
				x++
			}

			sb.WriteString(classStyles[start].Render(run.String()))
		}
	}
	return sb.String()
}
