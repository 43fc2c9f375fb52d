// File: cmd/replay.go
package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/touchforge/internal/config"
	"github.com/xkilldash9x/touchforge/internal/gesture"
	"github.com/xkilldash9x/touchforge/internal/injector"
	"github.com/xkilldash9x/touchforge/internal/observability"
)

// newReplayCmd creates the `replay` command: drive synthesized gestures
// against a live page. Each profile gets its own tab, RNG stream and
// SessionState, so personalities evolve independently.
func newReplayCmd() *cobra.Command {
	replayCmd := &cobra.Command{
		Use:   "replay [url]",
		Short: "Replays synthesized touch gestures against a page over CDP",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("engine.profiles", cmd.Flags().Lookup("profiles")); err != nil {
				return err
			}
			if err := viper.BindPFlag("engine.seed", cmd.Flags().Lookup("seed")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless")); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			count, _ := cmd.Flags().GetInt("gestures")
			return runReplay(cmd.Context(), cfg, args[0], count)
		},
	}

	replayCmd.Flags().Int("gestures", 20, "number of gestures to replay per profile")
	replayCmd.Flags().Int("profiles", 1, "independent session personalities to run concurrently")
	replayCmd.Flags().Int64("seed", 0, "RNG seed for reproducible runs (0 = time-seeded)")
	replayCmd.Flags().Bool("headless", true, "run the browser headless")

	return replayCmd
}

func runReplay(ctx context.Context, cfg *config.Config, url string, count int) error {
	logger := observability.GetLogger()

	baseSeed := cfg.Engine.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	g, gctx := errgroup.WithContext(ctx)
	for p := 0; p < cfg.Engine.Profiles; p++ {
		profile := p
		g.Go(func() error {
			return runProfile(gctx, cfg, url, count, baseSeed+int64(profile),
				logger.Named(fmt.Sprintf("profile-%d", profile)))
		})
	}
	return g.Wait()
}

// runProfile owns one tab and one SessionState for the whole run. Gestures
// are strictly sequential per profile; the engine has no internal lock and
// relies on this discipline.
func runProfile(ctx context.Context, cfg *config.Config, url string, count int, seed int64, logger *zap.Logger) error {
	allocCtx := ctx
	var cancelAlloc context.CancelFunc
	if cfg.Browser.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, cfg.Browser.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", cfg.Browser.Headless),
		)
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, opts...)
	}
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	if cfg.Browser.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		tabCtx, cancelTimeout = context.WithTimeout(tabCtx, cfg.Browser.Timeout)
		defer cancelTimeout()
	}

	if err := chromedp.Run(tabCtx,
		emulation.SetTouchEmulationEnabled(true).WithMaxTouchPoints(5),
		chromedp.Navigate(url),
	); err != nil {
		return fmt.Errorf("replay: navigate: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	eng, err := gesture.NewEngine(cfg.Engine.Gesture, injector.NewCDPSink(), injector.NewCDPViewport(), rng, logger)
	if err != nil {
		return err
	}

	sessionStart := time.Now()
	for i := 0; i < count; i++ {
		// Fatigue is computed out here, never inside the engine: it rises
		// linearly over the first three hours of a session and plateaus.
		fatigue := time.Since(sessionStart).Hours() / 3.0
		if fatigue > 1.0 {
			fatigue = 1.0
		}
		eng.Session().SetFatigue(fatigue)

		req := swipeRequest(rng)
		err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(actionCtx context.Context) error {
			return eng.Swipe(actionCtx, req)
		}))
		if err != nil {
			logger.Warn("gesture failed", zap.Int("index", i), zap.Error(err))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		// Idle between gestures like a reading human, not a metronome.
		idle := time.Duration(400+rng.Intn(1400)) * time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(idle):
		}
	}

	logger.Info("profile run complete",
		zap.Int("requested", count),
		zap.Int("completed", eng.Session().GestureCount()),
		zap.String("grip", string(eng.Session().Grip())))
	return nil
}

// swipeRequest draws a mostly-vertical swipe: card feeds scroll up far more
// often than down, and horizontal travel stays small.
func swipeRequest(rng *rand.Rand) gesture.GestureRequest {
	dy := -(150.0 + rng.Float64()*450.0)
	if rng.Float64() < 0.12 {
		dy = -dy * 0.6
	}
	dx := (rng.Float64() - 0.5) * 60.0
	return gesture.GestureRequest{DX: dx, DY: dy}
}
