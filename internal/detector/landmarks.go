// Package detector provides hand detection interfaces and types for gesture recognition.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a normalized camera-space landmark. X and Y are in [0,1] with
// Y growing towards the bottom of the frame.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandPose is the 21-point skeleton of one tracked hand in one frame.
type HandPose struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Finger identifies one of the four long fingers.
type Finger int

const (
	Index Finger = iota
	Middle
	Ring
	Pinky
)

var fingerJoints = [...]struct{ mcp, pip, tip int }{
	Index:  {IndexMCP, IndexPIP, IndexTip},
	Middle: {MiddleMCP, MiddlePIP, MiddleTip},
	Ring:   {RingMCP, RingPIP, RingTip},
	Pinky:  {PinkyMCP, PinkyPIP, PinkyTip},
}

// Tip returns the fingertip landmark of f.
func (h *HandPose) Tip(f Finger) Point3D {
	return h.Points[fingerJoints[f].tip]
}

// PIP returns the proximal interphalangeal joint of f.
func (h *HandPose) PIP(f Finger) Point3D {
	return h.Points[fingerJoints[f].pip]
}

// MCP returns the knuckle joint of f.
func (h *HandPose) MCP(f Finger) Point3D {
	return h.Points[fingerJoints[f].mcp]
}

// Valid reports whether every landmark lies inside the normalized frame with
// a little slack for points the model extrapolates past the edge.
func (h *HandPose) Valid() bool {
	if h == nil {
		return false
	}
	const slack = 0.5
	for _, p := range h.Points {
		if p.X != p.X || p.Y != p.Y { // NaN
			return false
		}
		if p.X < -slack || p.X > 1+slack || p.Y < -slack || p.Y > 1+slack {
			return false
		}
	}
	return true
}
