package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	cerrors "github.com/tessro/convoy/internal/errors"
	"github.com/tessro/convoy/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailInterval  time.Duration
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow playback changes in real-time",
	Long: `Join the shared channel as a passive peer and print changes as they happen.

The tail peer never publishes; it adopts remote updates and reports them.

Events tracked:
  - Track changes
  - Pause/Resume
  - Volume changes`,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	tailCmd.Flags().DurationVarP(&tailInterval, "interval", "i", 0, "poll interval (default: tail.interval)")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	interval := tailInterval
	if interval <= 0 {
		interval = time.Duration(cfg.Tail.Interval) * time.Millisecond
	}

	formatter := tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tail.WithTemplate(tailFormat),
	)

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	watcher := tail.NewWatcher(ctrl, nil, interval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ctrl.Run(gctx)
	})
	g.Go(func() error {
		return watcher.Start(gctx)
	})

	// Print events as they arrive
	g.Go(func() error {
		for event := range watcher.Events() {
			fmt.Println(formatter.Format(event))
		}
		return nil
	})

	err = g.Wait()
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return nil
	case errors.Is(err, cerrors.ErrChannelClosed):
		return cerrors.WithSuggestion(err, "The channel went away. Is the relay still running?")
	default:
		return err
	}
}
