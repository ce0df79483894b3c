package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var flagFailOnProviderError bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run one ingestion and print the summary as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		p, err := newPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.close()

		summary, err := p.orchestrator.Run(ctx)
		if err != nil {
			return fmt.Errorf("running ingestion: %w", err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}

		if summary.AllFailed() || (flagFailOnProviderError && summary.Failed > 0) {
			return fmt.Errorf("%d of %d providers failed", summary.Failed, len(summary.Providers))
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&flagFailOnProviderError, "strict", false, "exit non-zero when any provider fails")
}
