// Package render draws the game overlay onto camera frames with GoCV.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"gocv.io/x/gocv"

	"github.com/ayusman/rpsworld/internal/detector"
	"github.com/ayusman/rpsworld/internal/game"
	"github.com/ayusman/rpsworld/internal/gesture"
	"github.com/ayusman/rpsworld/internal/menu"
	"github.com/ayusman/rpsworld/internal/score"
)

// Palette.
var (
	Red      = color.RGBA{R: 255, A: 255}
	Green    = color.RGBA{G: 255, A: 255}
	Blue     = color.RGBA{B: 255, A: 255}
	Yellow   = color.RGBA{R: 255, G: 255, A: 255}
	White    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black    = color.RGBA{A: 255}
	Skin     = color.RGBA{R: 120, G: 140, B: 180, A: 255}
	DarkSkin = color.RGBA{R: 70, G: 90, B: 120, A: 255}
)

const (
	font  = gocv.FontHersheySimplex
	title = "ROCK PAPER SCISSORS WORLD"
)

var countdownColors = [...]color.RGBA{Red, Green, Blue, Yellow}

// Renderer draws a snapshot over a frame. It keeps no per-frame state.
type Renderer struct {
	layout menu.Layout
}

// New returns a renderer for the given button layout.
func New(layout menu.Layout) *Renderer {
	return &Renderer{layout: layout}
}

// Draw paints the overlay for snap onto frame. pose may be nil.
func (r *Renderer) Draw(frame *gocv.Mat, snap game.Snapshot, pose *detector.HandPose) {
	if frame == nil || frame.Empty() {
		return
	}

	if pose != nil {
		drawSkeleton(frame, pose)
	}

	switch snap.State {
	case game.StateMenu:
		r.drawMenu(frame, snap)
	case game.StateCountdown:
		drawCountdown(frame, snap)
	case game.StateResult:
		drawResult(frame, snap)
	case game.StateOptions:
		r.drawOptions(frame, snap)
	}

	if snap.Pointing && (snap.State == game.StateMenu || snap.State == game.StateOptions) {
		gocv.Circle(frame, snap.Fingertip, 15, Yellow, -1)
		gocv.Circle(frame, snap.Fingertip, 15, White, 3)
	}
}

func dim(frame *gocv.Mat, alpha float64) {
	overlay := frame.Clone()
	defer overlay.Close()
	gocv.Rectangle(&overlay, image.Rect(0, 0, frame.Cols(), frame.Rows()), Black, -1)
	gocv.AddWeighted(overlay, alpha, *frame, 1-alpha, 0, frame)
}

func (r *Renderer) drawMenu(frame *gocv.Mat, snap game.Snapshot) {
	w, h := frame.Cols(), frame.Rows()
	dim(frame, 0.5)

	drawFPS(frame, snap.FPS)
	drawHUD(frame, snap)

	x := centered(w, title, 1.5, 3)
	for i := 0; i < 3; i++ {
		glow := color.RGBA{R: uint8(100 + i*40), G: uint8(50 + i*30), B: uint8(50 + i*30), A: 255}
		gocv.PutText(frame, title, image.Pt(x-i, 100+i), font, 1.5, glow, 3+i)
	}
	gocv.PutText(frame, title, image.Pt(x, 100), font, 1.5, Yellow, 3)

	for i, b := range r.layout.Main {
		drawButton(frame, b, i == snap.Hover, 0.8)
	}

	for i, line := range []string{
		"Thumbs UP = Start Game",
		"Thumbs DOWN = Exit",
		"Point = Select Menu",
	} {
		gocv.PutText(frame, line, image.Pt(50, h-100+i*25), font, 0.6, White, 2)
	}

	gocv.PutText(frame, ScoreLine(snap.Record), image.Pt(50, h-20), font, 0.7, Yellow, 2)
}

func drawButton(frame *gocv.Mat, b menu.Button, hovered bool, scale float64) {
	fill := Blue
	if hovered {
		fill = Green
	}
	// Drawn inset from the hit region, which is larger for easier selection.
	rect := b.Rect
	if rect.Dx() > 200 {
		rect = rect.Inset(10)
		rect.Min.X += 40
		rect.Max.X -= 40
	}
	gocv.Rectangle(frame, rect, fill, -1)
	gocv.Rectangle(frame, rect, White, 2)

	tx := rect.Min.X + (rect.Dx()-textWidth(b.Label, scale, 2))/2
	ty := rect.Min.Y + rect.Dy()/2 + 8
	gocv.PutText(frame, b.Label, image.Pt(tx, ty), font, scale, White, 2)
}

func drawFPS(frame *gocv.Mat, fps float64) {
	gocv.Rectangle(frame, image.Rect(10, 10, 120, 50), Black, -1)
	gocv.PutText(frame, fmt.Sprintf("FPS: %.1f", fps), image.Pt(20, 35), font, 0.6, Green, 2)
}

func drawHUD(frame *gocv.Mat, snap game.Snapshot) {
	w := frame.Cols()
	gocv.Rectangle(frame, image.Rect(w-220, 10, w-10, 100), Black, -1)

	c := ConfidenceColor(snap.Confidence)
	gocv.PutText(frame, "Gesture: "+snap.Gesture.String(), image.Pt(w-210, 30), font, 0.5, c, 1)
	gocv.PutText(frame, fmt.Sprintf("Conf: %.2f", snap.Confidence), image.Pt(w-210, 50), font, 0.5, c, 1)

	if snap.Stable > 0 {
		sc := Yellow
		if snap.Progress > 0.7 {
			sc = Green
		}
		gocv.PutText(frame, fmt.Sprintf("Stable: %.1f", snap.Progress), image.Pt(w-210, 70), font, 0.5, sc, 1)
	}

	if len(snap.History) > 0 {
		gocv.PutText(frame, "History: "+HistoryLine(snap.History, 3), image.Pt(w-210, 90), font, 0.4, White, 1)
	}
}

func drawCountdown(frame *gocv.Mat, snap game.Snapshot) {
	if snap.CountdownLabel == "" {
		return
	}
	w, h := frame.Cols(), frame.Rows()

	// Pulse the banner a little within each phase.
	pulse := float64(snap.Time.UnixMilli()%1000) / 1000
	scale := 3 + math.Sin(pulse*10)*0.5

	x := centered(w, snap.CountdownLabel, scale, 8)
	y := (h + int(22*scale)) / 2
	gocv.PutText(frame, snap.CountdownLabel, image.Pt(x+5, y+5), font, scale, Black, 8)
	gocv.PutText(frame, snap.CountdownLabel, image.Pt(x, y), font, scale, countdownColors[snap.Phase%len(countdownColors)], 8)
}

func drawResult(frame *gocv.Mat, snap game.Snapshot) {
	w, h := frame.Cols(), frame.Rows()

	gocv.Line(frame, image.Pt(w/2, 0), image.Pt(w/2, h), White, 3)
	gocv.PutText(frame, "YOU", image.Pt(w/4-50, 50), font, 1.5, Green, 3)
	gocv.PutText(frame, "AI", image.Pt(3*w/4-30, 50), font, 1.5, Red, 3)

	drawAIHand(frame, snap.AIChoice, image.Pt(3*w/4, h/2))

	if !snap.HasResult {
		return
	}
	gocv.PutText(frame, "You: "+strings.ToUpper(snap.PlayerChoice.String()), image.Pt(50, h-100), font, 1, White, 2)
	gocv.PutText(frame, "AI: "+strings.ToUpper(snap.AIChoice.String()), image.Pt(w/2+50, h-100), font, 1, White, 2)

	label := snap.ResultLabel
	gocv.PutText(frame, label, image.Pt(centered(w, label, 2, 4), 150), font, 2, OutcomeColor(snap.Outcome), 4)
}

func (r *Renderer) drawOptions(frame *gocv.Mat, snap game.Snapshot) {
	w, h := frame.Cols(), frame.Rows()
	dim(frame, 0.6)

	gocv.PutText(frame, "STATISTICS", image.Pt(w/2-150, 100), font, 2, Yellow, 4)
	for i, line := range StatsLines(snap.Record) {
		gocv.PutText(frame, line, image.Pt(100, 200+i*50), font, 1, White, 2)
	}

	for i, b := range r.layout.Options {
		drawButton(frame, b, i == snap.Hover, 0.8)
	}

	gocv.PutText(frame, "Thumbs DOWN to go back", image.Pt(400, h-50), font, 0.8, Yellow, 2)
	gocv.PutText(frame, "Point at BACK button", image.Pt(400, h-20), font, 0.8, Yellow, 2)
}

// ScoreLine is the one-line score summary shown on the menu.
func ScoreLine(rec score.Record) string {
	return fmt.Sprintf("Wins: %d | Losses: %d | Ties: %d", rec.Wins, rec.Losses, rec.Ties)
}

// StatsLines lists the statistics shown on the options screen.
func StatsLines(rec score.Record) []string {
	return []string{
		fmt.Sprintf("Total Games: %d", rec.TotalGames),
		fmt.Sprintf("Your Wins: %d", rec.Wins),
		fmt.Sprintf("AI Wins: %d", rec.Losses),
		fmt.Sprintf("Ties: %d", rec.Ties),
		fmt.Sprintf("Win Rate: %.1f%%", rec.WinRate()*100),
	}
}

// HistoryLine joins the last n gestures oldest first.
func HistoryLine(history []gesture.Gesture, n int) string {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	names := make([]string, len(history))
	for i, g := range history {
		names[i] = g.String()
	}
	return strings.Join(names, "->")
}

// ConfidenceColor is green above 0.8, yellow above 0.5 and red otherwise.
func ConfidenceColor(conf float64) color.RGBA {
	switch {
	case conf > 0.8:
		return Green
	case conf > 0.5:
		return Yellow
	}
	return Red
}

// OutcomeColor colours the result banner.
func OutcomeColor(o score.Outcome) color.RGBA {
	switch o {
	case score.Win:
		return Green
	case score.Lose:
		return Red
	}
	return Yellow
}

// textWidth approximates the rendered width of Hershey simplex text, which
// averages about 20 pixels per glyph at scale 1.
func textWidth(text string, scale float64, thickness int) int {
	return int(float64(len(text))*20*scale) + thickness
}

func centered(width int, text string, scale float64, thickness int) int {
	return (width - textWidth(text, scale, thickness)) / 2
}
