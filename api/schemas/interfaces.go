// File: api/schemas/interfaces.go
package schemas

import (
	"context"
	"time"
)

// TouchSink is the abstract injection channel consumed by the gesture engine.
// Implementations are responsible only for transport; all payload fields
// (timestamps included) are constructed by the engine. Every method must be
// treated as fallible: the sink crosses a trust boundary.
type TouchSink interface {
	// DispatchTouchEvent sends one low-level touch event.
	DispatchTouchEvent(ctx context.Context, data TouchEventData) error
	// Sleep pauses execution for a given duration (context-aware).
	Sleep(ctx context.Context, d time.Duration) error
}

// ViewportProvider supplies the current visible page dimensions so callers
// can clamp generated coordinates to the page.
type ViewportProvider interface {
	GetViewport(ctx context.Context) (Viewport, error)
}
