package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/warp/vacation-engine/config"
	"github.com/warp/vacation-engine/factory"
	"github.com/warp/vacation-engine/vacation"
)

var (
	settings = viper.New()
	logger   = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vacationctl",
	Short: "Evaluate vacation plans offline",
	Long: `vacationctl reads a plan document (JSON or YAML, as produced by the
server's export endpoint) and prints day statuses and ledger balances.

The plan path can also come from VACATION_PLAN.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		l, err := config.NewLogger(config.LoggingConfig{Format: "console"}, settings.GetString("log-level"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("plan", "p", "", "Plan document (.json, .yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	settings.SetEnvPrefix(config.EnvPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	for _, name := range []string{"plan", "log-level", "no-color"} {
		if err := settings.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// loadPlan reads and validates the plan named by --plan.
func loadPlan() (*vacation.Plan, error) {
	path := settings.GetString("plan")
	if path == "" {
		return nil, fmt.Errorf("no plan given: use --plan or VACATION_PLAN")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	plan, err := factory.NewPlanFactory().ParsePlan(data, factory.FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	logger.Debug("plan loaded",
		zap.String("path", path),
		zap.String("profile", string(plan.Profile.ID)),
		zap.Int("days", plan.Days.Len()),
		zap.Int("holidays", len(plan.Holidays)))
	return plan, nil
}
