package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"budgetbuddy/internal/console"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/services"
)

func printer(cmd *cobra.Command) *console.Printer {
	return console.NewPrinter(cmd.OutOrStdout(), state.cfg.CurrencySymbol)
}

// position converts a 1-based list number to an entry index.
func position(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a list number", core.ErrIndexOutOfRange, arg)
	}
	return n - 1, nil
}

func modeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "mode [student|professional]",
		Short:     "Show or select the budgeting mode",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(core.ModeStudent), string(core.ModeProfessional)},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := printer(cmd)
			if len(args) == 0 {
				l, err := state.svc().Ledger(cmd.Context(), state.user)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Mode: %s\n", l.Mode)
				return nil
			}
			m, err := state.svc().SetMode(cmd.Context(), state.user, args[0])
			if err != nil {
				return err
			}
			p.Success(m.Title() + " mode activated!")
			return nil
		},
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the expense categories of the active mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := state.svc().Categories(cmd.Context(), state.user)
			if err != nil {
				return err
			}
			printer(cmd).Categories(cats)
			return nil
		},
	}
}

func incomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Manage income sources",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <source> <amount>",
		Short: "Record an income source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := state.svc().AddIncome(cmd.Context(), state.user, services.IncomeInput{
				Source: args[0],
				Amount: args[1],
			})
			if err != nil {
				return err
			}
			printer(cmd).Success(fmt.Sprintf("Added income: %s - %s%s", e.Source, state.cfg.CurrencySymbol, e.Amount))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List income sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := state.svc().Ledger(cmd.Context(), state.user)
			if err != nil {
				return err
			}
			if len(l.Income) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No income recorded yet.")
				return nil
			}
			printer(cmd).Income(l.Income)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <number>",
		Short: "Remove the income source at a list number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := position(args[0])
			if err != nil {
				return err
			}
			e, err := state.svc().RemoveIncome(cmd.Context(), state.user, i)
			if err != nil {
				return err
			}
			printer(cmd).Success("Removed income: " + e.Source)
			return nil
		},
	})

	return cmd
}

func expenseCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Manage expenses",
	}

	add := &cobra.Command{
		Use:   "add <category> <amount>",
		Short: "Record an expense",
		Long:  `Record an expense. Categories outside the active mode are stored but left out of the breakdown.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := state.svc().RecordExpense(ctx, state.user, services.ExpenseInput{
				Category:    args[0],
				Description: description,
				Amount:      args[1],
			})
			if err != nil {
				return err
			}
			p := printer(cmd)
			p.Success(fmt.Sprintf("Added expense: %s - %s%s", r.Entry.Description, state.cfg.CurrencySymbol, r.Entry.Amount))
			if !r.Mode.IsSet() {
				// The entry is saved; without a mode there is no breakdown to check.
				return nil
			}
			if !r.Counted {
				p.Warn(fmt.Sprintf("%q is not a %s category and is left out of the breakdown", r.Entry.Category, r.Mode.Title()))
			}

			s, _, err := state.svc().Summary(ctx, state.user)
			if err != nil {
				return err
			}
			p.Alert(s.Alert)
			return nil
		},
	}
	add.Flags().StringVarP(&description, "description", "d", "", "description (defaults to the category)")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := state.svc().Ledger(cmd.Context(), state.user)
			if err != nil {
				return err
			}
			if len(l.Expenses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No expenses recorded yet.")
				return nil
			}
			printer(cmd).Expenses(l.Expenses)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <number>",
		Short: "Remove the expense at a list number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := position(args[0])
			if err != nil {
				return err
			}
			e, err := state.svc().RemoveExpense(cmd.Context(), state.user, i)
			if err != nil {
				return err
			}
			printer(cmd).Success("Removed expense: " + e.Description)
			return nil
		},
	})

	return cmd
}
