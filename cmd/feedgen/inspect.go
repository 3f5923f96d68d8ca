package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dealerfeeds/internal/formatter"
	"dealerfeeds/internal/inventory"
	"dealerfeeds/internal/models"
	"dealerfeeds/internal/normalizer"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		dealerID    string
		onlySkipped bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <inventory.csv>",
		Short: "Explain which vehicles each feed would list or skip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}

			if dealerID != "" {
				if _, ok := cfg.Dealership(dealerID); !ok {
					return fmt.Errorf("dealership %q is not configured", dealerID)
				}
			}

			records, err := inventory.ReadFile(args[0])
			if err != nil {
				return err
			}

			groups, dropped := inventory.Partition(records, cfg.Dealerships)
			processor := normalizer.NewProcessor()

			table := formatter.NewTable("Dealer ID", "Row", "VIN", "Stock", "Facebook", "Google")

			for _, group := range groups {
				if dealerID != "" && group.Dealership.ID != dealerID {
					continue
				}

				for i, record := range group.Records {
					fb := verdict(processor, record, group.Dealership, models.PlatformFacebook)
					google := verdict(processor, record, group.Dealership, models.PlatformGoogle)

					if onlySkipped && fb == "listed" && google == "listed" {
						continue
					}

					table.AddRow(
						group.Dealership.ID,
						strconv.Itoa(i+1),
						record.Value(models.FieldVIN),
						record.Value(models.FieldStockNo),
						fb,
						google,
					)
				}
			}

			out := cmd.OutOrStdout()
			if _, err := table.WriteTo(out); err != nil {
				return err
			}

			fmt.Fprintf(out, "\n%d rows, %d for unconfigured dealers\n", len(records), dropped)

			return nil
		},
	}

	cmd.Flags().StringVar(&dealerID, "dealer", "", "only inspect this DealerID")
	cmd.Flags().BoolVar(&onlySkipped, "skipped", false, "only show vehicles skipped by at least one feed")

	return cmd
}

func verdict(p *normalizer.Processor, record models.VehicleRecord, dealer *models.Dealership, platform models.Platform) string {
	_, err := p.Process(record, dealer, platform)
	if err == nil {
		return "listed"
	}

	if reason := errors.Unwrap(err); reason != nil {
		return "skipped: " + reason.Error()
	}

	return "skipped: " + err.Error()
}
