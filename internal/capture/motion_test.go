package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMotionDetector(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		want      float64
	}{
		{"explicit", 2.5, 2.5},
		{"zero falls back", 0, 1.0},
		{"negative falls back", -3, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(tt.threshold)
			defer md.Close()

			if md.threshold != tt.want {
				t.Errorf("threshold = %f, want %f", md.threshold, tt.want)
			}
			if md.initialized {
				t.Error("motion detector should not be initialized initially")
			}
		})
	}
}

func TestMotionDetector_StillScene(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame := gocv.NewMatWithSize(720, 1280, gocv.MatTypeCV8UC3)
	defer frame.Close()

	moved, changed := md.Detect(&frame)
	if moved || changed != 0 {
		t.Errorf("first frame = (%v, %f), want (false, 0)", moved, changed)
	}

	moved, changed = md.Detect(&frame)
	if moved {
		t.Errorf("identical frames should not move, changed = %f", changed)
	}
}

func TestMotionDetector_BlackToWhite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	black := gocv.NewMatWithSize(720, 1280, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(720, 1280, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	md.Detect(&black)
	moved, changed := md.Detect(&white)
	if !moved {
		t.Errorf("black to white should move, changed = %f", changed)
	}
	if changed < 50.0 {
		t.Errorf("changed = %f, want > 50", changed)
	}
}

func TestMotionDetector_ResetRebaselines(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	black := gocv.NewMatWithSize(180, 320, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(180, 320, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	md.Detect(&black)
	md.Reset()
	if md.initialized {
		t.Fatal("detector should not be initialized after Reset")
	}

	if moved, _ := md.Detect(&white); moved {
		t.Error("first frame after Reset only sets the baseline")
	}
}

func TestMotionDetector_NilFrame(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	if moved, changed := md.Detect(nil); moved || changed != 0 {
		t.Errorf("Detect(nil) = (%v, %f), want (false, 0)", moved, changed)
	}
}

func TestMotionDetector_Close_Multiple(t *testing.T) {
	md := NewMotionDetector(1.0)
	md.Close()
	md.Close()
}
