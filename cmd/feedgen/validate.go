package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dealerfeeds/internal/validator"
)

func newValidateCmd(_ *app) *cobra.Command {
	var digest string

	cmd := &cobra.Command{
		Use:   "validate <feed.xml>...",
		Short: "Check rendered feeds against their platform rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if digest != "" && len(args) != 1 {
				return fmt.Errorf("--sha256 needs exactly one feed, got %d", len(args))
			}

			v := validator.NewFeedValidator()
			out := cmd.OutOrStdout()
			invalid := 0

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read feed: %w", err)
				}

				results := make([]*validator.ValidationResult, 0, 2)

				result, err := v.ValidateReader(bytes.NewReader(data))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				results = append(results, result)

				if digest != "" {
					results = append(results, v.ValidateIntegrity(data, digest))
				}

				fmt.Fprintf(out, "%s\n  %s\n", path, result)

				for _, r := range results {
					r.WriteErrors(out)
					r.WriteWarnings(out)

					if !r.IsValid {
						invalid++
					}
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d validation checks failed", invalid)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&digest, "sha256", "", "expected content digest published with the feed")

	return cmd
}
