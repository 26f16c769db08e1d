// Command drain sends one batch of queued email notifications. It is meant
// to be invoked by an external scheduler.
//
// Exit codes: 0 = pass completed (individual rows may have failed), 1 = error.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/carehome-backend/internal/app"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var batch int

	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Send queued email notifications",
		Long: `Claim up to --batch queued email notifications, oldest first, and send
them one at a time. The JSON report is written to stdout.

Configuration is read from CONFIG_PATH / .env / environment, as for the server.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := app.RunDrain(ctx, batch)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().IntVar(&batch, "batch", 0, "maximum rows to send (0 = configured default)")
	return cmd
}
