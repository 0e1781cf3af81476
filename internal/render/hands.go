package render

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/rpsworld/internal/detector"
	"github.com/ayusman/rpsworld/internal/gesture"
)

// handConnections are the bones drawn between landmarks.
var handConnections = [][2]int{
	{detector.Wrist, detector.ThumbCMC}, {detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP}, {detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP}, {detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP}, {detector.IndexDIP, detector.IndexTip},
	{detector.IndexMCP, detector.MiddleMCP}, {detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP}, {detector.MiddleDIP, detector.MiddleTip},
	{detector.MiddleMCP, detector.RingMCP}, {detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP}, {detector.RingDIP, detector.RingTip},
	{detector.RingMCP, detector.PinkyMCP}, {detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP}, {detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

func toFrame(frame *gocv.Mat, p detector.Point3D) image.Point {
	return image.Pt(int(p.X*float64(frame.Cols())), int(p.Y*float64(frame.Rows())))
}

func drawSkeleton(frame *gocv.Mat, pose *detector.HandPose) {
	if !pose.Valid() {
		return
	}
	for _, c := range handConnections {
		gocv.Line(frame, toFrame(frame, pose.Points[c[0]]), toFrame(frame, pose.Points[c[1]]), White, 2)
	}
	for _, p := range pose.Points {
		gocv.Circle(frame, toFrame(frame, p), 4, Red, -1)
	}
}

func blob(frame *gocv.Mat, center, axes image.Point, angle float64, outline int) {
	gocv.Ellipse(frame, center, axes, angle, 0, 360, Skin, -1)
	if outline > 0 {
		gocv.Ellipse(frame, center, axes, angle, 0, 360, DarkSkin, outline)
	}
}

// drawAIHand sketches the opponent's move centred on c.
func drawAIHand(frame *gocv.Mat, choice gesture.Gesture, c image.Point) {
	switch choice {
	case gesture.Rock:
		blob(frame, c, image.Pt(45, 35), 0, 3)
		for _, k := range []image.Point{{-25, -10}, {-8, -15}, {8, -15}, {25, -10}} {
			gocv.Circle(frame, c.Add(k), 8, Skin, -1)
			gocv.Circle(frame, c.Add(k), 8, DarkSkin, 2)
		}
		blob(frame, c.Add(image.Pt(-35, 5)), image.Pt(12, 20), 45, 2)

	case gesture.Paper:
		blob(frame, c.Add(image.Pt(0, 15)), image.Pt(35, 45), 0, 3)
		for _, f := range []struct{ off, size image.Point }{
			{image.Pt(-25, -30), image.Pt(12, 40)},
			{image.Pt(-8, -40), image.Pt(14, 50)},
			{image.Pt(8, -42), image.Pt(14, 52)},
			{image.Pt(25, -35), image.Pt(13, 45)},
		} {
			tip := c.Add(f.off)
			blob(frame, tip, f.size.Div(2), 0, 2)
			gocv.Circle(frame, tip.Sub(image.Pt(0, f.size.Y/4)), 3, DarkSkin, -1)
			gocv.Circle(frame, tip.Add(image.Pt(0, f.size.Y/4)), 3, DarkSkin, -1)
		}
		blob(frame, c.Add(image.Pt(-45, -5)), image.Pt(15, 25), 30, 2)

	case gesture.Scissors:
		blob(frame, c.Add(image.Pt(0, 20)), image.Pt(30, 35), 0, 3)
		blob(frame, c.Add(image.Pt(-15, -25)), image.Pt(8, 30), -15, 2)
		gocv.Circle(frame, c.Add(image.Pt(-12, -35)), 3, DarkSkin, -1)
		blob(frame, c.Add(image.Pt(15, -25)), image.Pt(8, 30), 15, 2)
		gocv.Circle(frame, c.Add(image.Pt(12, -35)), 3, DarkSkin, -1)
		blob(frame, c.Add(image.Pt(25, 5)), image.Pt(6, 15), 45, 0)
		blob(frame, c.Add(image.Pt(30, 15)), image.Pt(5, 12), 60, 0)
		blob(frame, c.Add(image.Pt(-35, 10)), image.Pt(12, 20), 45, 2)
	}
}
