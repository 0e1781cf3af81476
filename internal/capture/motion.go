package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion detection constants.
const (
	// motionWidth is the width frames are shrunk to before differencing.
	motionWidth = 320
	// blurSize is the Gaussian kernel applied to the shrunk frame.
	blurSize = 11
	// diffThreshold is the per-pixel intensity change counted as motion.
	diffThreshold = 25
)

// MotionDetector reports whether anything moved between consecutive frames.
// The frame loop uses it to drop to an idle rate while the menu is on screen
// and nobody is in front of the camera.
type MotionDetector struct {
	threshold   float64
	prev        gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionDetector creates a detector that fires when more than threshold
// percent of pixels change.
func NewMotionDetector(threshold float64) *MotionDetector {
	if threshold <= 0 {
		threshold = 1.0
	}
	return &MotionDetector{
		threshold: threshold,
		prev:      gocv.NewMat(),
	}
}

// Detect compares frame with the previous one and returns whether motion
// was seen and the changed-pixel percentage. The first frame only sets the
// baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	small := gocv.NewMat()
	defer small.Close()
	scale := float64(motionWidth) / float64(frame.Cols())
	if scale < 1 {
		gocv.Resize(*frame, &small, image.Point{}, scale, scale, gocv.InterpolationArea)
	} else {
		frame.CopyTo(&small)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if small.Channels() > 1 {
		gocv.CvtColor(small, &gray, gocv.ColorBGRToGray)
	} else {
		small.CopyTo(&gray)
	}
	gocv.GaussianBlur(gray, &gray, image.Pt(blurSize, blurSize), 0, 0, gocv.BorderDefault)

	if !m.initialized || gray.Rows() != m.prev.Rows() || gray.Cols() != m.prev.Cols() {
		gray.CopyTo(&m.prev)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(gray, m.prev, &diff)
	gocv.Threshold(diff, &diff, diffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(diff)) / float64(diff.Rows()*diff.Cols()) * 100.0
	gray.CopyTo(&m.prev)

	return changed > m.threshold, changed
}

// Reset drops the baseline frame.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = false
}

// Close releases the baseline frame.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prev.Close()
	m.prev = gocv.NewMat()
	m.initialized = false
}
