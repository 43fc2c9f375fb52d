// File: api/schemas/touch.go
package schemas

// -- Gesture Engine Low-Level Injection Schemas --

// TouchEventType defines the type of a synthesized touch event.
type TouchEventType string

const (
	TouchStart TouchEventType = "touchStart"
	TouchMove  TouchEventType = "touchMove"
	TouchEnd   TouchEventType = "touchEnd"
)

// TouchPoint describes a single contact point within a touch event. The engine
// owns construction of every field, including the timestamp; the transport
// layer must forward it untouched.
type TouchPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	// Force is the normalized contact pressure in [0, 1].
	Force float64 `json:"force"`
	// RadiusX and RadiusY describe the contact ellipse in CSS pixels.
	RadiusX  float64 `json:"radiusX"`
	RadiusY  float64 `json:"radiusY"`
	Rotation float64 `json:"rotationAngle"`
	// ID identifies the contact across the start/move/end sequence.
	ID int64 `json:"id"`
	// TimestampSec is the event time in seconds. Strictly increasing within
	// one gesture.
	TimestampSec float64 `json:"timestampSeconds"`
}

// TouchEventData encapsulates all data for a single injected touch event.
// TouchEnd carries an empty Points slice.
type TouchEventData struct {
	Type   TouchEventType `json:"type"`
	Points []TouchPoint   `json:"points"`
}

// Viewport describes the currently visible page area in CSS pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
