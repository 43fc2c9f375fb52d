// internal/gesture/dispatcher.go
package gesture

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/touchforge/api/schemas"
)

// Dispatcher replays a built path through the injection channel as a
// start -> move* -> end touch sequence. It owns payload construction: force
// decay, contact geometry and strictly monotonic timestamps all happen here;
// the sink is transport only.
type Dispatcher struct {
	sink    schemas.TouchSink
	cfg     Config
	rng     *rand.Rand
	logger  *zap.Logger
	stamper *MonotonicStamper

	// forceNoise adds a slow coherent waver to the pressure decay, so force
	// traces don't look like a clean linear ramp.
	forceNoise *perlin.Perlin
	noiseT     float64
	contactSeq int64
}

// NewDispatcher validates the configuration and binds a dispatcher to a sink.
func NewDispatcher(sink schemas.TouchSink, cfg Config, rng *rand.Rand, logger *zap.Logger) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		sink:       sink,
		cfg:        cfg,
		rng:        rng,
		logger:     logger,
		stamper:    NewMonotonicStamper(),
		forceNoise: perlin.NewPerlin(2, 2, 3, rng.Int63()),
	}, nil
}

// Dispatch replays steps from start, suspending for each step's delay, and
// advances the session on success. cfg overrides the dispatcher's own
// configuration for this call only (nil keeps the defaults); it must be
// validated by the caller. On transport failure or cancellation the session
// is NOT advanced (a half-dispatched gesture must not corrupt the
// personality model) and a best-effort touchEnd is sent on a background
// context so the receiving side is not left with a stuck contact.
func (d *Dispatcher) Dispatch(ctx context.Context, start Vector2D, steps []PathStep, cfg *Config, s *SessionState) error {
	if len(steps) == 0 {
		return fmt.Errorf("dispatch: empty path")
	}
	if cfg == nil {
		cfg = &d.cfg
	}

	gestureID := uuid.NewString()
	d.contactSeq++
	contactID := d.contactSeq

	forceStart := uniform(d.rng, cfg.ForceStart.Min, cfg.ForceStart.Max)
	forceEnd := forceStart * cfg.ForceEndFrac
	radiusX := uniform(d.rng, cfg.RadiusPx.Min, cfg.RadiusPx.Max)
	radiusY := uniform(d.rng, cfg.RadiusPx.Min, cfg.RadiusPx.Max)
	rotation := uniform(d.rng, cfg.RotationDeg.Min, cfg.RotationDeg.Max)

	point := func(pos Vector2D, force float64) schemas.TouchPoint {
		jitter := uniform(d.rng, -cfg.TimestampJitterSec, cfg.TimestampJitterSec)
		return schemas.TouchPoint{
			X:            pos.X,
			Y:            pos.Y,
			Force:        clamp(force, 0.05, 1.0),
			RadiusX:      radiusX + uniform(d.rng, -0.2, 0.2),
			RadiusY:      radiusY + uniform(d.rng, -0.2, 0.2),
			Rotation:     rotation,
			ID:           contactID,
			TimestampSec: d.stamper.Next(jitter),
		}
	}

	fail := func(stage string, err error) error {
		// Best effort: always try to lift the contact so the receiving side
		// does not keep a phantom finger down. The primary error wins.
		endCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if endErr := d.sink.DispatchTouchEvent(endCtx, schemas.TouchEventData{Type: schemas.TouchEnd}); endErr != nil {
			d.logger.Warn("cleanup touchEnd failed", zap.String("gesture", gestureID), zap.Error(endErr))
		}
		return fmt.Errorf("dispatch: %s: %w", stage, err)
	}

	startEvent := schemas.TouchEventData{
		Type:   schemas.TouchStart,
		Points: []schemas.TouchPoint{point(start, forceStart)},
	}
	if err := d.microLatency(ctx, cfg); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	if err := d.sink.DispatchTouchEvent(ctx, startEvent); err != nil {
		return fail("touchStart", err)
	}

	n := len(steps)
	for i, st := range steps {
		if err := ctx.Err(); err != nil {
			return fail("cancelled", err)
		}
		if st.DelayMs > 0 {
			if err := d.sink.Sleep(ctx, time.Duration(st.DelayMs*float64(time.Millisecond))); err != nil {
				return fail("sleep", err)
			}
		}
		if err := d.microLatency(ctx, cfg); err != nil {
			return fail("micro latency", err)
		}

		// Press hard, then flick: force decays along an eased ramp with a
		// coherent waver plus per-step random wobble.
		progress := float64(i+1) / float64(n)
		d.noiseT += 0.17
		force := forceStart + (forceEnd-forceStart)*easeInOutCubic(progress)
		force += d.forceNoise.Noise1D(d.noiseT) * cfg.ForceWobble
		force += uniform(d.rng, -cfg.ForceWobble, cfg.ForceWobble) / 2

		pos := start.Add(Vector2D{X: st.X, Y: st.Y})
		moveEvent := schemas.TouchEventData{
			Type:   schemas.TouchMove,
			Points: []schemas.TouchPoint{point(pos, force)},
		}
		if err := d.sink.DispatchTouchEvent(ctx, moveEvent); err != nil {
			return fail("touchMove", err)
		}
	}

	if err := d.microLatency(ctx, cfg); err != nil {
		return fail("micro latency", err)
	}
	if err := d.sink.DispatchTouchEvent(ctx, schemas.TouchEventData{Type: schemas.TouchEnd}); err != nil {
		return fmt.Errorf("dispatch: touchEnd: %w", err)
	}

	s.OnGestureCompleted()
	d.logger.Debug("gesture dispatched",
		zap.String("gesture", gestureID),
		zap.Int("steps", n),
		zap.Int("count", s.GestureCount()))
	return nil
}

// microLatency injects the probability-gated sub-10ms stall that precedes
// every dispatched event, touchEnd included.
func (d *Dispatcher) microLatency(ctx context.Context, cfg *Config) error {
	if !chance(d.rng, cfg.MicroLatencyChance) {
		return nil
	}
	ms := uniform(d.rng, cfg.MicroLatencyMs.Min, cfg.MicroLatencyMs.Max)
	return d.sink.Sleep(ctx, time.Duration(ms*float64(time.Millisecond)))
}
