package main

import (
	"sort"

	"github.com/spf13/cobra"

	"dealerfeeds/internal/formatter"
	"dealerfeeds/internal/pipeline"
)

func newURLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "urls",
		Short: "List the public feed URLs of every dealership",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}

			links := pipeline.FeedURLs(cfg)

			names := make([]string, 0, len(links))
			for name := range links {
				names = append(names, name)
			}

			sort.Strings(names)

			table := formatter.NewTable("Dealership", "Facebook", "Google")
			for _, name := range names {
				table.AddRow(name, links[name].Facebook, links[name].Google)
			}

			_, err = table.WriteTo(cmd.OutOrStdout())

			return err
		},
	}
}
