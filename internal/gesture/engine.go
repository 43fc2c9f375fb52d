// internal/gesture/engine.go
package gesture

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/touchforge/api/schemas"
)

// Engine wires one SessionState, PathBuilder and Dispatcher together for a
// single device/profile. Callers must serialize Swipe calls; the engine has
// no internal lock by design (one logical hand does one thing at a time).
type Engine struct {
	cfg        Config
	builder    *PathBuilder
	dispatcher *Dispatcher
	session    *SessionState
	viewport   schemas.ViewportProvider
	logger     *zap.Logger
}

// NewEngine validates cfg once and builds the full stack. A nil rng gets a
// time-seeded source; tests pass a fixed seed.
func NewEngine(cfg Config, sink schemas.TouchSink, vp schemas.ViewportProvider, rng *rand.Rand, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	builder, err := NewPathBuilder(cfg, rng, logger)
	if err != nil {
		return nil, err
	}
	dispatcher, err := NewDispatcher(sink, cfg, rng, logger)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:        cfg,
		builder:    builder,
		dispatcher: dispatcher,
		session:    NewSessionState(&cfg, rng, logger),
		viewport:   vp,
		logger:     logger,
	}, nil
}

// Session exposes the personality state, e.g. for feeding the external
// fatigue signal or inspecting the gesture counter.
func (e *Engine) Session() *SessionState { return e.session }

// Swipe synthesizes and replays one gesture. The call suspends for the full
// duration of the gesture (the sum of its delays). A transport failure is
// returned to the caller and leaves the session model unadvanced.
func (e *Engine) Swipe(ctx context.Context, req GestureRequest) error {
	vp, err := e.viewport.GetViewport(ctx)
	if err != nil {
		return fmt.Errorf("swipe: viewport: %w", err)
	}

	start := e.session.StartPoint(vp)
	if req.Start != nil {
		start = *req.Start
	}

	steps, outlier, err := e.builder.Build(req, e.session)
	if err != nil {
		return fmt.Errorf("swipe: build: %w", err)
	}

	// Final clamp to the page: the builder guarantees finite coordinates,
	// the engine keeps them on screen.
	for i := range steps {
		abs := start.Add(Vector2D{X: steps[i].X, Y: steps[i].Y})
		abs.X = clamp(abs.X, 0, vp.Width)
		abs.Y = clamp(abs.Y, 0, vp.Height)
		rel := abs.Sub(start)
		steps[i].X = rel.X
		steps[i].Y = rel.Y
	}

	if outlier.Kind != OutlierNone {
		e.logger.Debug("gesture carries outlier", zap.String("kind", string(outlier.Kind)))
	}

	return e.dispatcher.Dispatch(ctx, start, steps, req.Config, e.session)
}
