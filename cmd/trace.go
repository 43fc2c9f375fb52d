// File: cmd/trace.go
package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/touchforge/api/schemas"
	"github.com/xkilldash9x/touchforge/internal/config"
	"github.com/xkilldash9x/touchforge/internal/gesture"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// gestureTrace is one emitted record: the full event sequence of a single
// synthesized gesture, suitable for offline inspection or plotting.
type gestureTrace struct {
	ID      string                   `json:"id"`
	Index   int                      `json:"index"`
	Grip    string                   `json:"grip"`
	Outlier string                   `json:"outlier"`
	SleptMs float64                  `json:"sleptMs"`
	Events  []schemas.TouchEventData `json:"events"`
}

// recordSink captures dispatched events in memory instead of sending them
// anywhere. Sleeps are tallied, not performed, so tracing is instant.
type recordSink struct {
	events  []schemas.TouchEventData
	sleptMs float64
}

func (r *recordSink) DispatchTouchEvent(ctx context.Context, data schemas.TouchEventData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.events = append(r.events, data)
	return nil
}

func (r *recordSink) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.sleptMs += float64(d) / float64(time.Millisecond)
	return nil
}

func (r *recordSink) reset() {
	r.events = nil
	r.sleptMs = 0
}

// fixedViewport satisfies schemas.ViewportProvider without a browser.
type fixedViewport struct {
	vp schemas.Viewport
}

func (f fixedViewport) GetViewport(ctx context.Context) (schemas.Viewport, error) {
	return f.vp, nil
}

// newTraceCmd creates the `trace` command: synthesize gestures offline and
// emit them as JSON lines. No browser is involved.
func newTraceCmd() *cobra.Command {
	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "Synthesizes gestures offline and emits their event traces as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewFromViper(viper.GetViper())
			if err != nil {
				return err
			}

			count, _ := cmd.Flags().GetInt("gestures")
			width, _ := cmd.Flags().GetFloat64("width")
			height, _ := cmd.Flags().GetFloat64("height")
			out, _ := cmd.Flags().GetString("out")
			seed, _ := cmd.Flags().GetInt64("seed")
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			w := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("trace: create output: %w", err)
				}
				defer f.Close()
				w = f
			}

			return runTrace(cmd.Context(), cfg, w, count, seed, schemas.Viewport{Width: width, Height: height})
		},
	}

	traceCmd.Flags().Int("gestures", 50, "number of gestures to synthesize")
	traceCmd.Flags().Float64("width", 430, "virtual viewport width in px")
	traceCmd.Flags().Float64("height", 932, "virtual viewport height in px")
	traceCmd.Flags().String("out", "", "output file (default stdout)")
	traceCmd.Flags().Int64("seed", 0, "RNG seed for reproducible traces (0 = time-seeded)")

	return traceCmd
}

func runTrace(ctx context.Context, cfg *config.Config, w *os.File, count int, seed int64, vp schemas.Viewport) error {
	rng := rand.New(rand.NewSource(seed))
	sink := &recordSink{}

	eng, err := gesture.NewEngine(cfg.Engine.Gesture, sink, fixedViewport{vp: vp}, rng, nil)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		sink.reset()
		if err := eng.Swipe(ctx, swipeRequest(rng)); err != nil {
			return fmt.Errorf("trace: gesture %d: %w", i, err)
		}

		rec := gestureTrace{
			ID:      uuid.NewString(),
			Index:   i,
			Grip:    string(eng.Session().Grip()),
			Outlier: string(eng.Session().LastOutlier()),
			SleptMs: sink.sleptMs,
			Events:  sink.events,
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("trace: encode: %w", err)
		}
	}
	return nil
}
