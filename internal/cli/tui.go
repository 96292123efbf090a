package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	cerrors "github.com/tessro/convoy/internal/errors"
	"github.com/tessro/convoy/internal/logging"
	"github.com/tessro/convoy/internal/navigation"
	"github.com/tessro/convoy/internal/tui"
)

var tuiRefresh int

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard joins the shared channel and provides:
  • Now Playing - current track, progress, volume
  • Playlist - the track catalog
  • Navigation - destinations and the active route
  • Events - recent playback and route changes

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  Space        Play/Pause
  n / p        Next / previous track
  1-9          Select track
  +/-          Volume up/down
  [ / ]        Seek
  Enter        Play track / route to destination
  x            Cancel route
  R            Retry failed route
  Tab          Switch panel`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiRefresh, "refresh", 0, "Refresh interval in milliseconds (default: tui.refresh_interval)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	refresh := tuiRefresh
	if refresh <= 0 {
		refresh = cfg.TUI.RefreshInterval
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	// Console logging would tear the alternate screen.
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	uiLogger, closer, err := logging.SetupFileOnly(level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	logger = uiLogger

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	ch, err := openChannel(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	ctrl, err := newPlayback(ctx, ch, cat)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	overlay := navigation.NewOverlay()
	nav, err := newNavigation(overlay)
	if err != nil {
		return err
	}
	defer nav.Close()

	g, gctx := errgroup.WithContext(ctx)
	uiCtx, uiDone := context.WithCancel(gctx)

	g.Go(func() error {
		err := ctrl.Run(uiCtx)
		if errors.Is(err, cerrors.ErrChannelClosed) {
			return cerrors.WithSuggestion(err, "The relay went away. Restart it with 'convoy serve'")
		}
		return nil
	})

	g.Go(func() error {
		defer uiDone()
		return tui.Run(uiCtx, &tui.App{
			Playback:    ctrl,
			Navigation:  nav,
			Overlay:     overlay,
			Catalog:     cat,
			RefreshRate: time.Duration(refresh) * time.Millisecond,
			Logger:      logger,
		})
	})

	return g.Wait()
}
