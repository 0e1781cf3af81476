// Package menu holds the on-screen control layout and maps a pointing
// fingertip to the control underneath it.
package menu

import "image"

// Screen identifies which set of controls is shown.
type Screen int

const (
	// ScreenNone has no pointer-addressable controls.
	ScreenNone Screen = iota
	ScreenMain
	ScreenOptions
)

// NoHover is returned when no control is under the fingertip.
const NoHover = -1

// Main menu control indices.
const (
	ControlStart   = 0
	ControlOptions = 1
	ControlExit    = 2
)

// ControlBack is the only control on the options screen.
const ControlBack = 0

// Reference frame size the layout rectangles are expressed in.
const (
	FrameWidth  = 1280
	FrameHeight = 720
)

// Button is a labelled hit region.
type Button struct {
	Label string
	Rect  image.Rectangle
}

// Layout is the fixed set of buttons per screen.
type Layout struct {
	Main    []Button
	Options []Button
}

// DefaultLayout returns the layout for a 1280x720 frame: three stacked
// buttons on the main menu and a back button in the lower left of the
// options screen.
func DefaultLayout() Layout {
	return Layout{
		Main: []Button{
			{Label: "START THE WAR", Rect: image.Rect(300, 215, 980, 285)},
			{Label: "OPTIONS", Rect: image.Rect(300, 295, 980, 365)},
			{Label: "EXIT", Rect: image.Rect(300, 375, 980, 445)},
		},
		Options: []Button{
			{Label: "BACK", Rect: image.Rect(100, FrameHeight-120, 300, FrameHeight-70)},
		},
	}
}

// Buttons returns the controls shown on screen.
func (l Layout) Buttons(screen Screen) []Button {
	switch screen {
	case ScreenMain:
		return l.Main
	case ScreenOptions:
		return l.Options
	}
	return nil
}

// HitTest returns the index of the control containing the fingertip, or
// NoHover. Only a pointing hand can hover. Rectangle edges are inclusive.
func (l Layout) HitTest(screen Screen, tip image.Point, pointing bool) int {
	if !pointing {
		return NoHover
	}
	for i, b := range l.Buttons(screen) {
		if contains(b.Rect, tip) {
			return i
		}
	}
	return NoHover
}

func contains(r image.Rectangle, p image.Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ToPixel scales a normalized coordinate into the reference frame,
// truncating like the overlay does.
func ToPixel(x, y float64) image.Point {
	return image.Pt(int(x*FrameWidth), int(y*FrameHeight))
}
