// FILE: ./internal/gesture/mocks_test.go
package gesture

import (
	"context"
	"sync"
	"time"

	"github.com/xkilldash9x/touchforge/api/schemas"
)

// mockSink implements schemas.TouchSink for testing. It records every
// dispatched event and tallied sleep instead of performing real I/O.
// Centralized here to be reusable across all tests in the package.
type mockSink struct {
	mu             sync.Mutex
	events         []schemas.TouchEventData
	sleepDurations []time.Duration

	// failOnCall forces returnErr on the Nth DispatchTouchEvent (1-based);
	// 0 disables forced failure.
	failOnCall int
	returnErr  error
	callCount  int
}

func newMockSink() *mockSink {
	return &mockSink{
		events:         make([]schemas.TouchEventData, 0),
		sleepDurations: make([]time.Duration, 0),
	}
}

func (m *mockSink) DispatchTouchEvent(ctx context.Context, data schemas.TouchEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Always record first: cleanup events arrive on context.Background()
	// after a failure and must still be visible to assertions.
	m.events = append(m.events, data)
	m.callCount++

	if m.returnErr != nil && m.callCount >= m.failOnCall {
		return m.returnErr
	}
	if ctx.Err() != nil && ctx != context.Background() {
		return ctx.Err()
	}
	return nil
}

func (m *mockSink) Sleep(ctx context.Context, d time.Duration) error {
	if ctx.Err() != nil && ctx != context.Background() {
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sleepDurations = append(m.sleepDurations, d)
	return nil
}

func (m *mockSink) recorded() []schemas.TouchEventData {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]schemas.TouchEventData, len(m.events))
	copy(out, m.events)
	return out
}

// stubViewport satisfies schemas.ViewportProvider with a fixed size.
type stubViewport struct {
	vp  schemas.Viewport
	err error
}

func (s stubViewport) GetViewport(ctx context.Context) (schemas.Viewport, error) {
	return s.vp, s.err
}
