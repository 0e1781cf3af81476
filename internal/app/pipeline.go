package app

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/rpsworld/internal/detector"
	"github.com/ayusman/rpsworld/internal/game"
)

// Run opens the camera and processes frames until the game asks to stop,
// the display is closed, the camera runs dry or ctx is cancelled. Frames
// are handled strictly one at a time in the calling goroutine.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrRunning
	}
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer a.shutdown()

	a.camera.SetFPS(a.activeFPS)
	a.lastActive = a.now()

	ticker := time.NewTicker(frameInterval(a.activeFPS))
	defer ticker.Stop()

	a.log.Info().Int("fps", a.activeFPS).Int("idle_fps", a.idleFPS).Msg("game loop started")

	for {
		select {
		case <-ctx.Done():
			a.log.Info().Msg("game loop cancelled")
			return nil
		case <-ticker.C:
		}

		stop, err := a.processFrame(ctx, ticker)
		if err != nil {
			return err
		}
		if stop {
			a.log.Info().Msg("game loop stopped")
			return nil
		}
	}
}

func (a *App) shutdown() {
	if err := a.camera.Close(); err != nil {
		a.log.Warn().Err(err).Msg("error closing camera")
	}
	if a.motion != nil {
		a.motion.Close()
	}
	if a.display != nil {
		if err := a.display.Close(); err != nil {
			a.log.Warn().Err(err).Msg("error closing display")
		}
	}
}

func frameInterval(fps int) time.Duration {
	return time.Second / time.Duration(fps)
}

// processFrame runs one frame: capture, detect, step the engine, render,
// publish and display. It reports whether the loop should stop.
func (a *App) processFrame(ctx context.Context, ticker *time.Ticker) (bool, error) {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		return false, fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()

	now := a.now()

	var pose *detector.HandPose
	hands, err := a.detector.Detect(frame)
	if err != nil {
		a.log.Debug().Err(err).Msg("hand detection failed")
	} else {
		pose = detector.First(hands)
	}

	// Motion is measured on the raw frame before the overlay is drawn.
	moving := a.detectMotion(frame)

	var out game.Output
	a.sess, out = a.engine.Step(a.sess, game.Frame{Pose: pose, Now: now})
	out.Snapshot.FPS = a.fps.Tick(now)

	a.metrics.recordFrame(ctx, pose != nil, out.Snapshot.FPS)
	if out.Round != nil {
		a.logRound(ctx, out)
	}
	if out.Snapshot.State != a.lastState() {
		a.log.Debug().Stringer("state", out.Snapshot.State).Msg("state changed")
	}

	a.renderer.Draw(frame, out.Snapshot, pose)
	a.publish(frame, out.Snapshot)
	a.throttle(ticker, out.Snapshot, moving, now)

	if out.Control == game.ControlStop {
		return true, nil
	}
	if a.display != nil && a.display.Show(frame) {
		a.log.Info().Msg("display closed")
		return true, nil
	}
	return false, nil
}

func (a *App) lastState() game.State {
	prev, _ := a.hub.Snapshot()
	return prev.State
}

func (a *App) logRound(ctx context.Context, out game.Output) {
	r := out.Round
	a.metrics.recordRound(ctx, r.Outcome, out.SaveErr)

	a.log.Info().
		Stringer("player", r.Player).
		Stringer("ai", r.AI).
		Stringer("outcome", r.Outcome).
		Int("total_games", out.Snapshot.Record.TotalGames).
		Msg("round resolved")

	if out.SaveErr != nil {
		a.log.Error().Err(out.SaveErr).Msg("failed to persist score")
	}
}

func (a *App) publish(frame *gocv.Mat, snap game.Snapshot) {
	a.hub.Publish(snap)

	if a.hub.FrameViewers() == 0 {
		return
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		a.log.Debug().Err(err).Msg("failed to encode frame")
		return
	}
	defer buf.Close()

	// The native buffer is released below, so keep a Go copy.
	jpeg := append([]byte(nil), buf.GetBytes()...)
	a.hub.PublishFrame(jpeg)
}

func (a *App) detectMotion(frame *gocv.Mat) bool {
	if a.motion == nil {
		return false
	}
	moving, _ := a.motion.Detect(frame)
	return moving
}

// throttle drops to the idle rate while the menu is on screen with no hand
// and no motion, and returns to the active rate as soon as anything happens.
func (a *App) throttle(ticker *time.Ticker, snap game.Snapshot, moving bool, now time.Time) {
	if a.idleFPS <= 0 {
		return
	}

	active := moving || snap.HasHand || snap.State != game.StateMenu
	if active {
		a.lastActive = now
		if a.idle {
			a.idle = false
			a.camera.SetFPS(a.activeFPS)
			ticker.Reset(frameInterval(a.activeFPS))
			a.log.Debug().Msg("switched to active mode")
		}
		return
	}

	if !a.idle && now.Sub(a.lastActive) > IdleTimeout {
		a.idle = true
		a.camera.SetFPS(a.idleFPS)
		ticker.Reset(frameInterval(a.idleFPS))
		a.log.Debug().Msg("switched to idle mode")
	}
}

// Idle reports whether the loop is running at the idle rate. Only safe from
// the loop goroutine, such as inside Display.Show, or once Run has returned.
func (a *App) Idle() bool {
	return a.idle
}
