// Filename: internal/injector/cdp.go
package injector

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/touchforge/api/schemas"
)

// CDPSink is the production implementation of schemas.TouchSink. It forwards
// engine-built touch events to a Chrome tab over the DevTools protocol. The
// sink is transport only: timestamps and payload fields arrive fully formed
// from the engine.
type CDPSink struct{}

// NewCDPSink creates a production-ready sink. The chromedp tab context is
// supplied per call, matching how chromedp actions are normally driven.
func NewCDPSink() *CDPSink {
	return &CDPSink{}
}

func (s *CDPSink) DispatchTouchEvent(ctx context.Context, data schemas.TouchEventData) error {
	params, err := buildTouchParams(data)
	if err != nil {
		return err
	}
	return params.Do(ctx)
}

func (s *CDPSink) Sleep(ctx context.Context, d time.Duration) error {
	return chromedp.Sleep(d).Do(ctx)
}

// buildTouchParams maps the engine's event schema onto the CDP wire type.
// Kept separate from transport so the mapping is testable without a browser.
func buildTouchParams(data schemas.TouchEventData) (*input.DispatchTouchEventParams, error) {
	var kind input.TouchType
	switch data.Type {
	case schemas.TouchStart:
		kind = input.TouchStart
	case schemas.TouchMove:
		kind = input.TouchMove
	case schemas.TouchEnd:
		kind = input.TouchEnd
	default:
		return nil, fmt.Errorf("injector: unknown touch event type %q", data.Type)
	}

	points := make([]*input.TouchPoint, len(data.Points))
	for i, p := range data.Points {
		points[i] = &input.TouchPoint{
			X:             p.X,
			Y:             p.Y,
			RadiusX:       p.RadiusX,
			RadiusY:       p.RadiusY,
			RotationAngle: p.Rotation,
			Force:         p.Force,
			ID:            float64(p.ID),
		}
	}

	params := input.DispatchTouchEvent(kind, points)
	if len(data.Points) > 0 {
		// CDP carries one timestamp per event; the engine's per-point stamps
		// are identical within an event, so the first one is authoritative.
		sec := data.Points[0].TimestampSec
		ts := input.TimeSinceEpoch(time.Unix(0, int64(sec*float64(time.Second))))
		params = params.WithTimestamp(&ts)
	}
	return params, nil
}

// CDPViewport implements schemas.ViewportProvider over the DevTools layout
// metrics, mirroring the visual viewport the page actually renders.
type CDPViewport struct{}

// NewCDPViewport creates a production viewport provider.
func NewCDPViewport() *CDPViewport {
	return &CDPViewport{}
}

func (v *CDPViewport) GetViewport(ctx context.Context) (schemas.Viewport, error) {
	// Use the modern 7-value return signature and only keep what we need.
	_, _, _, _, cssVisualViewport, _, err := page.GetLayoutMetrics().Do(ctx)
	if err != nil {
		return schemas.Viewport{}, fmt.Errorf("injector: layout metrics: %w", err)
	}
	if cssVisualViewport == nil {
		return schemas.Viewport{}, fmt.Errorf("injector: layout metrics returned no visual viewport")
	}
	return schemas.Viewport{
		Width:  cssVisualViewport.ClientWidth,
		Height: cssVisualViewport.ClientHeight,
	}, nil
}
