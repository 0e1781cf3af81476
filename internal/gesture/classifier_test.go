package gesture

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/rpsworld/internal/detector"
)

func TestClassify_NilPose(t *testing.T) {
	s := Classify(nil)
	assert.Equal(t, None, s.Gesture)
	assert.Zero(t, s.Confidence)
	assert.False(t, s.HasHand)
	assert.False(t, s.Pointing)
}

func TestClassify_Presets(t *testing.T) {
	tests := []struct {
		name       string
		pose       detector.HandPose
		want       Gesture
		confidence float64
	}{
		{"rock", detector.RockPose(), Rock, 0.9},
		{"paper", detector.PaperPose(), Paper, 0.9},
		{"scissors", detector.ScissorsPose(), Scissors, 0.92},
		{"pointing", detector.PointingPose(), Pointing, 0.95},
		{"thumbs up", detector.ThumbsUpPose(), ThumbsUp, 0.95},
		{"thumbs down", detector.ThumbsDownPose(), ThumbsDown, 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Classify(&tt.pose)
			assert.Equal(t, tt.want, s.Gesture)
			assert.InDelta(t, tt.confidence, s.Confidence, 1e-9)
			assert.True(t, s.HasHand)
			assert.Equal(t, tt.want == Pointing, s.Pointing)
			assert.Equal(t, tt.pose.Points[detector.IndexTip], s.Fingertip)
		})
	}
}

func TestClassify_ThumbsUpMargins(t *testing.T) {
	pose := detector.RockPose()
	// Thumb tip 0.07 above its ip joint and 0.09 above its mcp joint.
	pose.Points[detector.ThumbMCP] = detector.Point3D{X: 0.56, Y: 0.60}
	pose.Points[detector.ThumbIP] = detector.Point3D{X: 0.56, Y: 0.58}
	pose.Points[detector.ThumbTip] = detector.Point3D{X: 0.56, Y: 0.51}

	s := Classify(&pose)
	assert.Equal(t, ThumbsUp, s.Gesture)
	assert.InDelta(t, 0.95, s.Confidence, 1e-9)

	t.Run("open index finger blocks thumbs up", func(t *testing.T) {
		p := pose
		p.Points[detector.IndexTip].Y = p.Points[detector.IndexPIP].Y - 0.1
		assert.NotEqual(t, ThumbsUp, Classify(&p).Gesture)
	})
}

func TestClassify_ThumbsDownNeedsWrist(t *testing.T) {
	pose := detector.ThumbsDownPose()
	// Move the wrist below the thumb tip: still pointing down relative to
	// its own joints but no longer below the wrist.
	pose.Points[detector.Wrist].Y = pose.Points[detector.ThumbTip].Y

	assert.NotEqual(t, ThumbsDown, Classify(&pose).Gesture)
}

func TestClassify_ScissorsSpread(t *testing.T) {
	t.Run("separation 0.10 and height 0.06", func(t *testing.T) {
		pose := detector.RockPose()
		pose.Points[detector.IndexMCP] = detector.Point3D{X: 0.58, Y: 0.66}
		pose.Points[detector.IndexPIP] = detector.Point3D{X: 0.58, Y: 0.64}
		pose.Points[detector.IndexTip] = detector.Point3D{X: 0.58, Y: 0.60}
		pose.Points[detector.MiddleMCP] = detector.Point3D{X: 0.48, Y: 0.66}
		pose.Points[detector.MiddlePIP] = detector.Point3D{X: 0.48, Y: 0.64}
		pose.Points[detector.MiddleTip] = detector.Point3D{X: 0.48, Y: 0.60}

		s := Classify(&pose)
		assert.Equal(t, Scissors, s.Gesture)
		assert.InDelta(t, 0.92, s.Confidence, 1e-9)
	})

	t.Run("fingers too close fall back", func(t *testing.T) {
		pose := detector.ScissorsPose()
		pose.Points[detector.MiddleTip].X = pose.Points[detector.IndexTip].X - 0.02

		s := Classify(&pose)
		assert.Equal(t, Scissors, s.Gesture)
		assert.InDelta(t, 0.7, s.Confidence, 1e-9)
	})
}

func TestClassify_FallbackTier(t *testing.T) {
	open := func(p *detector.HandPose, f detector.Finger) {
		tip := map[detector.Finger]int{
			detector.Index:  detector.IndexTip,
			detector.Middle: detector.MiddleTip,
			detector.Ring:   detector.RingTip,
			detector.Pinky:  detector.PinkyTip,
		}[f]
		p.Points[tip].Y = p.PIP(f).Y - 0.1
	}

	t.Run("two fingers other than index and middle", func(t *testing.T) {
		pose := detector.RockPose()
		open(&pose, detector.Ring)
		open(&pose, detector.Pinky)

		s := Classify(&pose)
		assert.Equal(t, Rock, s.Gesture)
		assert.InDelta(t, 0.6, s.Confidence, 1e-9)
	})

	t.Run("three fingers", func(t *testing.T) {
		pose := detector.RockPose()
		open(&pose, detector.Middle)
		open(&pose, detector.Ring)
		open(&pose, detector.Pinky)

		s := Classify(&pose)
		assert.Equal(t, Paper, s.Gesture)
		assert.InDelta(t, 0.6, s.Confidence, 1e-9)
	})

	t.Run("single non-index finger", func(t *testing.T) {
		pose := detector.RockPose()
		open(&pose, detector.Pinky)

		s := Classify(&pose)
		assert.Equal(t, None, s.Gesture)
		assert.InDelta(t, 0.3, s.Confidence, 1e-9)
	})

	t.Run("four fingers without thumb is paper", func(t *testing.T) {
		pose := detector.RockPose()
		open(&pose, detector.Index)
		open(&pose, detector.Middle)
		open(&pose, detector.Ring)
		open(&pose, detector.Pinky)

		s := Classify(&pose)
		assert.Equal(t, Paper, s.Gesture)
		assert.InDelta(t, 0.9, s.Confidence, 1e-9)
	})
}

func TestClassify_ThumbHandedness(t *testing.T) {
	// Thumb tip left of the wrist is open when it sits further left than
	// its ip joint.
	pose := detector.RockPose()
	pose.Points[detector.Wrist].X = 0.6
	pose.Points[detector.ThumbIP] = detector.Point3D{X: 0.50, Y: 0.68}
	pose.Points[detector.ThumbTip] = detector.Point3D{X: 0.45, Y: 0.69}

	s := Classify(&pose)
	assert.Equal(t, Rock, s.Gesture, "thumb alone still counts as rock")
	require.True(t, thumbOpen(&pose))

	pose.Points[detector.ThumbTip].X = 0.49
	assert.False(t, thumbOpen(&pose))
}

func TestClassify_OutputAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	valid := make(map[Gesture]bool, len(All))
	for _, g := range All {
		valid[g] = true
	}

	for i := 0; i < 2000; i++ {
		var pose detector.HandPose
		for j := range pose.Points {
			pose.Points[j] = detector.Point3D{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64() - 0.5}
		}

		s := Classify(&pose)
		if !valid[s.Gesture] {
			t.Fatalf("iteration %d: gesture %v outside enumeration", i, s.Gesture)
		}
		if s.Confidence < 0 || s.Confidence > 1 {
			t.Fatalf("iteration %d: confidence %f outside [0,1]", i, s.Confidence)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	pose := detector.ScissorsPose()
	first := Classify(&pose)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(&pose))
	}
}

func TestGesture_String(t *testing.T) {
	for _, g := range All {
		parsed, err := Parse(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, parsed)
	}

	_, err := Parse("spock")
	assert.Error(t, err)
	assert.Equal(t, "gesture(42)", Gesture(42).String())
}

func TestGesture_JSON(t *testing.T) {
	var got struct {
		Player Gesture   `json:"player"`
		Seen   []Gesture `json:"seen"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"player":"scissors","seen":["none","thumbs_up"]}`), &got))
	assert.Equal(t, Scissors, got.Player)
	assert.Equal(t, []Gesture{None, ThumbsUp}, got.Seen)

	data, err := json.Marshal(got.Seen)
	require.NoError(t, err)
	assert.JSONEq(t, `["none","thumbs_up"]`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`"spock"`), &got.Player))
	assert.Error(t, json.Unmarshal([]byte(`3`), &got.Player))
}

func TestGesture_IsChoice(t *testing.T) {
	for _, g := range All {
		want := g == Rock || g == Paper || g == Scissors
		assert.Equal(t, want, g.IsChoice(), g.String())
	}
}
