package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"budgetbuddy/internal/backend"
	"budgetbuddy/internal/cli"
	"budgetbuddy/internal/config"
	"budgetbuddy/internal/console"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/services"
)

// app holds what the commands share once the root pre-run has finished.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	backend *backend.BackendResult
	user    string
}

func (a *app) svc() *services.LedgerService { return a.backend.Service }

var (
	cfgFile  string
	userFlag string
	logLevel string

	state = &app{}
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "budgetbuddy",
		Short: "Personal budget tracker for students and professionals",
		Long: `Budget Buddy records income and expenses, breaks spending down by category
and warns when expenses approach or exceed income.

Run without a subcommand for the interactive menu.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := console.New(state.svc(), console.Config{
				UserID:         state.user,
				CurrencySymbol: state.cfg.CurrencySymbol,
				In:             cmd.InOrStdin(),
				Out:            cmd.OutOrStdout(),
				Logger:         state.logger,
			})
			err := c.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./budgetbuddy.yaml or $HOME/.budgetbuddy/budgetbuddy.yaml)")
	root.PersistentFlags().StringVar(&userFlag, "user", "", "ledger owner (default: DEFAULT_USER)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(modeCmd())
	root.AddCommand(categoriesCmd())
	root.AddCommand(incomeCmd())
	root.AddCommand(expenseCmd())
	root.AddCommand(summaryCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(clearCmd())
	root.AddCommand(exportCmd())
	return root
}

func setup(cmd *cobra.Command, _ []string) error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		if _, err := log.ParseLevel(logLevel); err != nil {
			return err
		}
		cfg.LogLevel = logLevel
	}
	state.cfg = cfg
	state.logger = cli.SetupLogger(cfg)

	state.user = cfg.DefaultUser
	if userFlag != "" {
		state.user = userFlag
	}

	res, err := cli.OpenBackend(cmd.Context(), cfg, state.logger)
	if err != nil {
		return err
	}
	state.backend = res
	return nil
}

func main() {
	ctx, cancel := cli.SignalContext(context.Background())
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if cerr := state.backend.Close(); cerr != nil {
		state.logger.Warn("Failed to release backend", log.FieldError, cerr)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
