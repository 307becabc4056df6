package rider

import (
	"strings"

	"github.com/vovakirdan/snowrun/internal/config"
	"github.com/vovakirdan/snowrun/internal/core"
)

// Intent is what an input source asks the rider to do this frame.
type Intent struct {
	Dir  float64 // -1, 0 or 1
	Slow bool
	Jump bool // edge-triggered
}

// Source turns raw frame input into an Intent. Implementations keep their
// own gesture state between frames.
type Source interface {
	Sample(now float64, in core.InputFrame, grounded bool) Intent
	Name() string
}

// NewSource picks the input source named in cfg. Unknown names fall back to
// the keyboard.
func NewSource(cfg config.Input, screenW float64) Source {
	switch strings.ToLower(cfg.Source) {
	case "touch", "pointer", "mouse":
		return NewTouchSource(cfg, screenW)
	default:
		return NewKeyboardSource()
	}
}

// KeyboardSource reads directional keys, the slow key and the jump key.
type KeyboardSource struct {
	jumpHeld bool
}

// NewKeyboardSource creates a keyboard input source.
func NewKeyboardSource() *KeyboardSource {
	return &KeyboardSource{}
}

// Name implements Source.
func (k *KeyboardSource) Name() string { return "keyboard" }

// Sample implements Source. Jump fires only on the frame the key goes down.
func (k *KeyboardSource) Sample(_ float64, in core.InputFrame, _ bool) Intent {
	jump := in.Has(core.ActionJump) || in.Has(core.ActionUp)
	intent := Intent{
		Dir:  in.Axis(),
		Slow: in.Has(core.ActionSlow) || in.Has(core.ActionDown),
		Jump: jump && !k.jumpHeld,
	}
	k.jumpHeld = jump
	return intent
}

// TouchSource tracks a single pointer contact: the screen half picks the
// direction, a double tap jumps and a downward drag on release slows down.
type TouchSource struct {
	screenW        float64
	doubleTap      float64
	swipeThreshold float64

	active  bool
	dir     float64
	start   core.Vec2
	lastTap float64
	tapped  bool
}

// NewTouchSource creates a pointer input source for a screen of width screenW.
func NewTouchSource(cfg config.Input, screenW float64) *TouchSource {
	return &TouchSource{
		screenW:        screenW,
		doubleTap:      cfg.DoubleTapThreshold,
		swipeThreshold: cfg.SwipeThreshold,
	}
}

// Name implements Source.
func (t *TouchSource) Name() string { return "touch" }

// SetScreenWidth updates the width used to split the screen into halves.
func (t *TouchSource) SetScreenWidth(w float64) {
	t.screenW = w
}

// Sample implements Source.
func (t *TouchSource) Sample(now float64, in core.InputFrame, grounded bool) Intent {
	var intent Intent
	for _, ev := range in.Pointer {
		switch ev.Phase {
		case core.PointerBegan:
			// Only the first contact is tracked.
			if t.active {
				continue
			}
			t.active = true
			t.start = core.V(ev.X, ev.Y)
			if !grounded {
				continue
			}
			if ev.X < t.screenW/2 {
				t.dir = -1
			} else {
				t.dir = 1
			}
			if t.tapped && now-t.lastTap < t.doubleTap {
				intent.Jump = true
				t.tapped = false
			} else {
				t.tapped = true
				t.lastTap = now
			}
		case core.PointerEnded:
			if !t.active {
				continue
			}
			// The slowed push applies for the release frame only.
			if ev.Y-t.start.Y > t.swipeThreshold {
				intent.Slow = true
				intent.Dir = t.dir
			}
			t.active = false
			t.dir = 0
		}
	}
	if t.active {
		intent.Dir = t.dir
	}
	return intent
}
