package terrain

import (
	"strings"

	"github.com/vovakirdan/snowrun/internal/core"
	"github.com/vovakirdan/snowrun/internal/physics"
)

// PickupKind identifies a collectible placed on a chunk.
type PickupKind int

const (
	PickupExtraLife PickupKind = iota
	PickupShield
	PickupSpeedBoost
)

// String returns the config name of the pickup kind.
func (k PickupKind) String() string {
	switch k {
	case PickupExtraLife:
		return "extra_life"
	case PickupShield:
		return "shield"
	case PickupSpeedBoost:
		return "speed_boost"
	default:
		return "unknown"
	}
}

// Glyph returns the display character for a pickup kind.
func (k PickupKind) Glyph() rune {
	switch k {
	case PickupExtraLife:
		return '♥'
	case PickupShield:
		return 'O'
	case PickupSpeedBoost:
		return '»'
	default:
		return '?'
	}
}

// ParsePickupKind maps a config name to a pickup kind.
func ParsePickupKind(s string) (PickupKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "extra_life", "extralife", "life":
		return PickupExtraLife, true
	case "shield":
		return PickupShield, true
	case "speed_boost", "speedboost", "boost":
		return PickupSpeedBoost, true
	default:
		return 0, false
	}
}

// Pickup is a collectible in world space.
type Pickup struct {
	Kind      PickupKind
	Pos       core.Vec2
	Collected bool
}

// Chunk is one spawned terrain segment.
type Chunk struct {
	TemplateID string
	Index      int       // Spawn order, starting at 0
	Start      core.Vec2 // World start anchor
	End        core.Vec2 // World end anchor
	Segments   []physics.Segment
	Pickups    []*Pickup
	Terminal   bool // Last chunk of a time trial; End.X is the finish line
}

// Length returns the horizontal extent between the anchors.
func (c *Chunk) Length() float64 {
	return c.End.X - c.Start.X
}
