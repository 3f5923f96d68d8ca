// Package main provides the feedgen command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dealerfeeds/internal/config"
	"dealerfeeds/internal/logger"
)

const (
	defaultConfigPath = "configs/feedgen.yaml"
	envConfigPath     = "FEEDGEN_CONFIG"
)

// app carries the settings shared by every subcommand.
type app struct {
	v *viper.Viper
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "feedgen",
		Short:         "Generate dealership vehicle inventory feeds",
		Long:          "feedgen turns the dealer management system's inventory export into Facebook Automotive Inventory Ads and Google Vehicle Listing Ads feeds, one pair per dealership.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", defaultConfigPath, "path to the YAML configuration (env "+envConfigPath+")")
	flags.String("log-level", "", "override logging.level (debug, info, warn, error)")

	_ = a.v.BindPFlags(flags)
	_ = a.v.BindEnv("config", envConfigPath)

	root.AddCommand(
		newGenerateCmd(a),
		newURLsCmd(a),
		newServeCmd(a),
		newInspectCmd(a),
		newValidateCmd(a),
	)

	return root
}

func (a *app) config() (*config.Config, error) {
	cfg, err := config.LoadConfig(a.v.GetString("config"))
	if err != nil {
		return nil, err
	}

	if level := a.v.GetString("log-level"); level != "" {
		cfg.Logging.Level = level

		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	return cfg, nil
}

func (a *app) newLogger(cfg *config.Config) *logger.Logger {
	return logger.NewLoggerWithFormat(cfg.Logging.Level, cfg.Logging.Format)
}
