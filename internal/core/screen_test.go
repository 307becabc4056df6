package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", s.Get(5, 5))
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "Hello")

	if got := s.Row(1)[2:7]; got != "Hello" {
		t.Errorf("Row(1)[2:7] = %q, expected %q", got, "Hello")
	}

	// Text should be clipped at boundaries
	s.DrawText(18, 0, "Hello")
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("Text should be clipped at right boundary")
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextCentered(2, "Hi")

	x := (20 - 2) / 2
	if s.Get(x, 2) != 'H' || s.Get(x+1, 2) != 'i' {
		t.Errorf("DrawTextCentered failed, text not at expected position")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4))

	if s.Get(1, 1) != '┌' || s.Get(5, 1) != '┐' || s.Get(1, 4) != '└' || s.Get(5, 4) != '┘' {
		t.Error("Box corners are wrong")
	}
	if s.Get(3, 1) != '─' || s.Get(1, 2) != '│' {
		t.Error("Box edges are wrong")
	}
	if s.Get(3, 2) != ' ' {
		t.Error("Box interior should be untouched")
	}
}

func TestScreenDrawVLineAndRect(t *testing.T) {
	s := NewScreen(6, 6)
	s.DrawVLine(2, 1, 3, '|')
	for y := 1; y < 4; y++ {
		if s.Get(2, y) != '|' {
			t.Errorf("DrawVLine missing at y=%d", y)
		}
	}
	if s.Get(2, 4) != ' ' {
		t.Error("DrawVLine drew past its length")
	}

	s.DrawRect(NewRect(4, 4, 2, 2), '#')
	if s.Get(5, 5) != '#' || s.Get(3, 3) != ' ' {
		t.Error("DrawRect filled the wrong area")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.Set(0, 0, 'a')
	s.Set(2, 1, 'b')

	lines := strings.Split(s.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "a  " || lines[1] != "  b" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(4, 4)
	s.Set(1, 1, 'x')
	s.Resize(8, 2)

	if s.Width() != 8 || s.Height() != 2 {
		t.Errorf("Resize gave %dx%d", s.Width(), s.Height())
	}
	if s.Get(1, 1) != ' ' {
		t.Error("Resize should clear content")
	}
}

func TestInputFrameAxis(t *testing.T) {
	f := NewInputFrame()
	if f.Axis() != 0 {
		t.Error("Empty frame axis should be 0")
	}
	f.Set(ActionLeft)
	if f.Axis() != -1 {
		t.Errorf("Left axis = %v", f.Axis())
	}
	f.Set(ActionRight)
	if f.Axis() != 0 {
		t.Error("Opposing directions should cancel")
	}

	f.AddPointer(PointerEvent{Phase: PointerBegan, X: 1, Y: 2})
	clone := f.Clone()
	f.Clear()
	if len(f.Pointer) != 0 || f.Has(ActionLeft) {
		t.Error("Clear should drop actions and pointer events")
	}
	if len(clone.Pointer) != 1 || !clone.Has(ActionRight) {
		t.Error("Clone should be independent of the original")
	}
}
