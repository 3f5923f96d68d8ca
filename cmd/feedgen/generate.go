package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"dealerfeeds/internal/pipeline"
)

func newGenerateCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fetch the inventory and publish every dealership feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}

			log := a.newLogger(cfg)
			defer log.Sync()

			runner, err := pipeline.New(cfg, pipeline.WithLogger(log))
			if err != nil {
				return err
			}

			report, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")

				if err := enc.Encode(report); err != nil {
					return fmt.Errorf("failed to encode report: %w", err)
				}
			} else {
				fmt.Fprintf(out, "\n📊 Run %s: %d vehicles from %s in %v\n\n",
					report.RunID, report.TotalVehicles, report.Source, report.Duration)

				table := report.Table()
				if table.Len() == 0 {
					fmt.Fprintln(out, "No feeds generated")
				} else if _, err := table.WriteTo(out); err != nil {
					return err
				}
			}

			if failed := report.FailedFeeds(); failed > 0 {
				return fmt.Errorf("%d feeds failed", failed)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run report as JSON")

	return cmd
}
