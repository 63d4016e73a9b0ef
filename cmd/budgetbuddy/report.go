package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/report"
)

func summaryCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals, the category breakdown and budget alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == report.FormatCSV {
				return fmt.Errorf("%w: use 'budgetbuddy export --format csv'", report.ErrUnsupportedFormat)
			}

			s, l, err := state.svc().Summary(cmd.Context(), state.user)
			if err != nil {
				return err
			}
			if f == report.FormatText {
				printer(cmd).Summary(s, l)
				return nil
			}
			out, err := report.Generate(s, l, f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, yaml)")
	return cmd
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List every income and expense entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := state.svc().Ledger(cmd.Context(), state.user)
			if err != nil {
				return err
			}
			printer(cmd).History(l)
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all entries, keeping the mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := printer(cmd)
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "Are you sure you want to clear all data? (yes/no): ")
				answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled.")
					return nil
				}
			}
			if err := state.svc().Clear(cmd.Context(), state.user); err != nil {
				return err
			}
			p.Success("All data cleared successfully!")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as CSV, JSON or YAML",
		Long:  `Export works without a mode; the category breakdown is then empty.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == report.FormatText {
				return fmt.Errorf("%w: export needs csv, json or yaml", report.ErrUnsupportedFormat)
			}

			s, l, err := state.svc().Summary(cmd.Context(), state.user)
			if err != nil && !errors.Is(err, core.ErrNoModeSelected) {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}

			if f == report.FormatCSV {
				err = report.WriteTransactionsCSV(w, l)
			} else {
				var out []byte
				if out, err = report.Generate(s, l, f); err == nil {
					_, err = w.Write(out)
				}
			}
			if err != nil {
				return err
			}
			if output != "" {
				printer(cmd).Success("Exported to " + output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format (csv, json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
