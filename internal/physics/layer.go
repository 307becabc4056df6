package physics

import "strings"

// Layer is a collision category bit set.
type Layer uint32

const (
	LayerDefault Layer = 1 << iota
	LayerGround
	LayerPlayer
	LayerPickup
	LayerTrigger
)

// LayerAll matches every category.
const LayerAll = ^Layer(0)

// Has reports whether any bit of l is set in m.
func (m Layer) Has(l Layer) bool {
	return m&l != 0
}

var layerNames = map[string]Layer{
	"default": LayerDefault,
	"ground":  LayerGround,
	"player":  LayerPlayer,
	"pickup":  LayerPickup,
	"trigger": LayerTrigger,
}

// ParseLayers converts layer names into a mask. Unknown names are returned
// so the caller can report them.
func ParseLayers(names []string) (Layer, []string) {
	var mask Layer
	var unknown []string
	for _, n := range names {
		l, ok := layerNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		mask |= l
	}
	return mask, unknown
}

// MaskOrAllExcept returns mask, or every category except self when mask is empty.
// The second result reports whether the fallback was used.
func MaskOrAllExcept(mask, self Layer) (Layer, bool) {
	if mask == 0 {
		return LayerAll &^ self, true
	}
	return mask, false
}
