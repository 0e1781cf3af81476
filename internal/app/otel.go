package app

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ayusman/rpsworld/internal/score"
)

const instrumentationName = "github.com/ayusman/rpsworld/internal/app"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// metrics are recorded against the global meter provider, which is a no-op
// unless the binary installs one.
type metrics struct {
	frames       metric.Int64Counter
	hands        metric.Int64Counter
	rounds       metric.Int64Counter
	saveFailures metric.Int64Counter
	fps          metric.Float64Gauge
}

func newMetrics() (*metrics, error) {
	m := meter()
	var mt metrics
	var err, e error

	mt.frames, e = m.Int64Counter("rps.frames.processed",
		metric.WithDescription("Frames run through the game engine"))
	err = errors.Join(err, e)

	mt.hands, e = m.Int64Counter("rps.hands.detected",
		metric.WithDescription("Frames in which a hand was detected"))
	err = errors.Join(err, e)

	mt.rounds, e = m.Int64Counter("rps.rounds.resolved",
		metric.WithDescription("Rounds resolved, by outcome"))
	err = errors.Join(err, e)

	mt.saveFailures, e = m.Int64Counter("rps.score.save_failures",
		metric.WithDescription("Score persistence failures"))
	err = errors.Join(err, e)

	mt.fps, e = m.Float64Gauge("rps.frames.rate",
		metric.WithDescription("Measured frames per second"),
		metric.WithUnit("{frame}/s"))
	err = errors.Join(err, e)

	if err != nil {
		return nil, err
	}
	return &mt, nil
}

func (m *metrics) recordFrame(ctx context.Context, hand bool, fps float64) {
	m.frames.Add(ctx, 1)
	if hand {
		m.hands.Add(ctx, 1)
	}
	m.fps.Record(ctx, fps)
}

func (m *metrics) recordRound(ctx context.Context, outcome score.Outcome, saveErr error) {
	m.rounds.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome.String())))
	if saveErr != nil {
		m.saveFailures.Add(ctx, 1)
	}
}
