package main

import (
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/statesync/internal/tui"
)

func tuiCmd() *cobra.Command {
	var (
		logFile string
		stores  storeFlags
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the developer mode switch in the terminal",
		Long: `Run the developer mode switch in the terminal.

Keys:
  space  toggle
  y      confirm
  n, esc cancel
  q      quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := stores.open(ctx)
			if err != nil {
				return err
			}

			// The terminal belongs to the UI; logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
			return tui.Run(ctx, store, logger)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Write debug logs to this file")
	stores.register(cmd)

	return cmd
}
