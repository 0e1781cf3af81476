package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandPose
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands ...HandPose) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandPose, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// fistPose is a right hand with every finger curled into the palm and the
// thumb folded across it.
func fistPose() HandPose {
	pose := HandPose{
		Handedness: "Right",
		Score:      0.95,
	}

	pose.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	pose.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76}
	pose.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.72}
	pose.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.68}
	pose.Points[ThumbTip] = Point3D{X: 0.52, Y: 0.69}

	pose.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	pose.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.68, Z: -0.05}
	pose.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.70, Z: -0.04}
	pose.Points[IndexTip] = Point3D{X: 0.50, Y: 0.72, Z: -0.02}

	pose.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68, Z: -0.02}
	pose.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.66, Z: -0.05}
	pose.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.68, Z: -0.04}
	pose.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}

	pose.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}
	pose.Points[RingPIP] = Point3D{X: 0.45, Y: 0.68, Z: -0.05}
	pose.Points[RingDIP] = Point3D{X: 0.42, Y: 0.70, Z: -0.04}
	pose.Points[RingTip] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}

	pose.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}
	pose.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.70, Z: -0.05}
	pose.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.72, Z: -0.04}
	pose.Points[PinkyTip] = Point3D{X: 0.35, Y: 0.74, Z: -0.02}

	return pose
}

// RockPose returns a closed fist.
func RockPose() HandPose {
	return fistPose()
}

// PaperPose returns an open palm with all five fingers extended.
func PaperPose() HandPose {
	pose := HandPose{
		Handedness: "Right",
		Score:      0.95,
	}

	pose.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	pose.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	pose.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	pose.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	pose.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	pose.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	pose.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55}
	pose.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45}
	pose.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35}

	pose.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66}
	pose.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52}
	pose.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40}
	pose.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28}

	pose.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68}
	pose.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55}
	pose.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45}
	pose.Points[RingTip] = Point3D{X: 0.42, Y: 0.35}

	pose.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70}
	pose.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60}
	pose.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50}
	pose.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42}

	return pose
}

// ScissorsPose returns a fist with index and middle fingers spread in a V.
func ScissorsPose() HandPose {
	pose := fistPose()

	pose.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	pose.Points[IndexPIP] = Point3D{X: 0.58, Y: 0.55}
	pose.Points[IndexDIP] = Point3D{X: 0.59, Y: 0.45}
	pose.Points[IndexTip] = Point3D{X: 0.60, Y: 0.35}

	pose.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66}
	pose.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52}
	pose.Points[MiddleDIP] = Point3D{X: 0.49, Y: 0.40}
	pose.Points[MiddleTip] = Point3D{X: 0.48, Y: 0.30}

	return pose
}

// PointingPose returns a fist with only the index finger extended. The
// fingertip ends up at (0.58, 0.35) in normalized coordinates.
func PointingPose() HandPose {
	pose := fistPose()

	pose.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70}
	pose.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.55}
	pose.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.45}
	pose.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35}

	return pose
}

// PointingAt returns a pointing pose translated so that the index fingertip
// sits at (x, y).
func PointingAt(x, y float64) HandPose {
	pose := PointingPose()
	tip := pose.Points[IndexTip]
	dx, dy := x-tip.X, y-tip.Y
	for i := range pose.Points {
		pose.Points[i].X += dx
		pose.Points[i].Y += dy
	}
	return pose
}

// ThumbsUpPose returns a fist with the thumb extended upward.
func ThumbsUpPose() HandPose {
	pose := fistPose()

	// Thumb extended upward (pointing up, Y decreases going up)
	pose.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	pose.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.65}
	pose.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.50}
	pose.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.35}

	return pose
}

// ThumbsDownPose returns a hand rotated so the thumb hangs below the wrist
// while the other fingers stay curled.
func ThumbsDownPose() HandPose {
	pose := HandPose{
		Handedness: "Right",
		Score:      0.95,
	}

	pose.Points[Wrist] = Point3D{X: 0.50, Y: 0.50}

	pose.Points[ThumbCMC] = Point3D{X: 0.53, Y: 0.52}
	pose.Points[ThumbMCP] = Point3D{X: 0.55, Y: 0.55}
	pose.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.62}
	pose.Points[ThumbTip] = Point3D{X: 0.56, Y: 0.70}

	pose.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.44}
	pose.Points[IndexPIP] = Point3D{X: 0.58, Y: 0.45}
	pose.Points[IndexDIP] = Point3D{X: 0.59, Y: 0.48}
	pose.Points[IndexTip] = Point3D{X: 0.57, Y: 0.50}

	pose.Points[MiddleMCP] = Point3D{X: 0.52, Y: 0.42}
	pose.Points[MiddlePIP] = Point3D{X: 0.55, Y: 0.42}
	pose.Points[MiddleDIP] = Point3D{X: 0.56, Y: 0.45}
	pose.Points[MiddleTip] = Point3D{X: 0.54, Y: 0.47}

	pose.Points[RingMCP] = Point3D{X: 0.49, Y: 0.41}
	pose.Points[RingPIP] = Point3D{X: 0.52, Y: 0.40}
	pose.Points[RingDIP] = Point3D{X: 0.53, Y: 0.43}
	pose.Points[RingTip] = Point3D{X: 0.51, Y: 0.45}

	pose.Points[PinkyMCP] = Point3D{X: 0.46, Y: 0.41}
	pose.Points[PinkyPIP] = Point3D{X: 0.48, Y: 0.39}
	pose.Points[PinkyDIP] = Point3D{X: 0.49, Y: 0.41}
	pose.Points[PinkyTip] = Point3D{X: 0.48, Y: 0.43}

	return pose
}
