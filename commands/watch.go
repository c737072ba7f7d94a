package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/penwyp/go-deckview/internal/application/viewer"
	"github.com/penwyp/go-deckview/internal/presentation/interaction"
	"github.com/penwyp/go-deckview/internal/util"
	"github.com/spf13/cobra"
)

var watchDays int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show a live chart in the terminal",
	Long: `Draws the chart of the last days in the terminal and redraws it whenever
the activity database changes, and on the configured refresh schedule so a
running session keeps growing.

Keys: q quit, r refresh, +/- days shown, left/right scroll through history,
t back to today.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&appRef, "app", "a", "",
		"Application id or name (may be omitted when only one is tracked)")
	watchCmd.Flags().IntVar(&watchDays, "days", 0,
		"Number of days shown, ending today (default from config, 14)")
	watchCmd.Flags().DurationVar(&period, "period", 0,
		"Time covered by one row (default from config, 24h)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !util.IsTerminal() {
		return fmt.Errorf("watch needs a terminal; use the chart command with --format text instead")
	}

	env, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env.viewer.SetColor(true)
	w := viewer.NewWatcher(env.viewer, viewer.WatchRequest{
		Request: viewer.Request{
			App:         appRef,
			Period:      env.cfg.Period,
			IncludeOpen: true,
		},
		Days: watchDays,
	}, os.Stdout)

	kr, err := interaction.NewKeyboardReader()
	if err != nil {
		util.LogWarn("Keyboard input unavailable", util.F("error", err))
	} else {
		defer kr.Close()
		w.SetKeys(kr.Events())
	}

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
