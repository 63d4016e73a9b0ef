// Package console implements the interactive Budget Buddy menu.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/services"
)

// Config wires a console session.
type Config struct {
	UserID         string
	CurrencySymbol string
	In             io.Reader
	Out            io.Writer
	Logger         *log.Logger
}

type Console struct {
	*Printer
	svc    *services.LedgerService
	user   string
	in     *bufio.Reader
	logger *log.Logger
}

func New(svc *services.LedgerService, cfg Config) *Console {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Discard()
	}
	return &Console{
		Printer: NewPrinter(cfg.Out, cfg.CurrencySymbol),
		svc:     svc,
		user:    cfg.UserID,
		in:      bufio.NewReader(cfg.In),
		logger:  logger.WithComponent(log.ComponentConsole),
	}
}

// errExit ends the menu loop.
var errExit = errors.New("exit")

// Run shows the menu until the user exits, input ends or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	c.Banner("WELCOME TO BUDGET BUDDY")
	c.line("Your Personal Finance Management System")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l, err := c.svc.Ledger(ctx, c.user)
		if err != nil {
			return err
		}
		c.menu(l.Mode)

		choice, err := c.prompt("\nEnter your choice (1-7): ")
		if err == nil {
			err = c.dispatch(ctx, choice)
		}
		switch {
		case errors.Is(err, errExit), errors.Is(err, io.EOF):
			c.goodbye()
			return nil
		case errors.Is(err, services.ErrPersistence):
			c.logger.ErrorContext(ctx, "Ledger operation failed", log.FieldUserID, c.user, log.FieldError, err)
			c.Error("Could not save your data: " + err.Error())
		case err != nil:
			return err
		}
	}
}

func (c *Console) menu(mode core.Mode) {
	title := "BUDGET BUDDY"
	if mode.IsSet() {
		title += fmt.Sprintf(" (%s MODE)", strings.ToUpper(string(mode)))
	}
	c.Banner(title)
	for i, item := range []string{
		"Select/Change Mode",
		"Add Income",
		"Add Expense",
		"View Financial Summary",
		"View Transaction History",
		"Clear All Data",
		"Exit",
	} {
		c.line("%d. %s", i+1, item)
	}
	c.line("%s", strings.Repeat("=", lineWidth))
}

func (c *Console) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return c.selectMode(ctx)
	case "2":
		return c.addIncome(ctx)
	case "3":
		return c.addExpense(ctx)
	case "4":
		return c.viewSummary(ctx)
	case "5":
		return c.viewHistory(ctx)
	case "6":
		return c.clear(ctx)
	case "7":
		return errExit
	default:
		c.Warn("Invalid choice! Please select 1-7.")
		return nil
	}
}

func (c *Console) goodbye() {
	c.Banner("Thank you for using Budget Buddy!")
	c.line("Stay financially smart!")
}

// prompt writes label and returns the next trimmed input line. A final
// line without a newline is still returned; io.EOF only follows it.
func (c *Console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	text, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || text == "") {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// requireMode loads the ledger and warns when no mode is selected.
func (c *Console) requireMode(ctx context.Context) (core.Ledger, bool, error) {
	l, err := c.svc.Ledger(ctx, c.user)
	if err != nil {
		return l, false, err
	}
	if !l.Mode.IsSet() {
		c.Warn("Please select a mode first!")
		return l, false, nil
	}
	return l, true, nil
}

func (c *Console) selectMode(ctx context.Context) error {
	l, err := c.svc.Ledger(ctx, c.user)
	if err != nil {
		return err
	}
	if l.Mode.IsSet() {
		c.line("Current mode: %s", l.Mode.Title())
		answer, err := c.prompt("Do you want to change mode? (y/n): ")
		if err != nil {
			return err
		}
		if strings.ToLower(answer) != "y" {
			return nil
		}
	}

	c.Banner("SELECT YOUR MODE")
	modes := core.Modes()
	for i, m := range modes {
		c.line("%d. %s Mode", i+1, m.Title())
	}
	for {
		choice, err := c.prompt(fmt.Sprintf("\nEnter your choice (1-%d): ", len(modes)))
		if err != nil {
			return err
		}
		n, convErr := strconv.Atoi(choice)
		if convErr != nil || n < 1 || n > len(modes) {
			c.Warn(fmt.Sprintf("Invalid choice! Please select 1 or %d.", len(modes)))
			continue
		}
		m, err := c.svc.SetMode(ctx, c.user, string(modes[n-1]))
		if err != nil {
			return err
		}
		c.line("")
		c.Success(m.Title() + " mode activated!")
		return nil
	}
}

// promptAmount asks until a positive amount is entered and returns its text.
func (c *Console) promptAmount() (string, error) {
	for {
		text, err := c.prompt("Amount: " + c.currency)
		if err != nil {
			return "", err
		}
		if _, err := core.ParseAmount(text); err != nil {
			c.Warn("Invalid amount! Please enter a positive number.")
			continue
		}
		return text, nil
	}
}

func (c *Console) addIncome(ctx context.Context) error {
	l, ok, err := c.requireMode(ctx)
	if err != nil || !ok {
		return err
	}
	c.Banner("ADD INCOME")

	label := "Income Source"
	if l.Mode == core.ModeStudent {
		label = "Income Source (e.g., Allowance, Part-time job)"
	}
	source, err := c.prompt(label + ": ")
	if err != nil {
		return err
	}
	if source == "" {
		c.Warn("Source cannot be empty!")
		return nil
	}
	amount, err := c.promptAmount()
	if err != nil {
		return err
	}

	entry, err := c.svc.AddIncome(ctx, c.user, services.IncomeInput{Source: source, Amount: amount})
	if err != nil {
		return err
	}
	c.line("")
	c.Success(fmt.Sprintf("Income of %s from '%s' added successfully!", c.money(entry.Amount), entry.Source))
	return nil
}

func (c *Console) addExpense(ctx context.Context) error {
	l, ok, err := c.requireMode(ctx)
	if err != nil || !ok {
		return err
	}
	c.Banner("ADD EXPENSE")

	cats, err := core.CategoriesFor(l.Mode)
	if err != nil {
		return err
	}
	c.line("\nExpense Categories:")
	c.Categories(cats)

	var category string
	for category == "" {
		choice, err := c.prompt(fmt.Sprintf("\nSelect category (1-%d): ", len(cats)))
		if err != nil {
			return err
		}
		n, convErr := strconv.Atoi(choice)
		switch {
		case convErr != nil:
			c.Warn("Invalid input! Please enter a number.")
		case n < 1 || n > len(cats):
			c.Warn(fmt.Sprintf("Please select a number between 1 and %d!", len(cats)))
		default:
			category = cats[n-1]
		}
	}

	description, err := c.prompt("Description: ")
	if err != nil {
		return err
	}
	amount, err := c.promptAmount()
	if err != nil {
		return err
	}

	entry, err := c.svc.AddExpense(ctx, c.user, services.ExpenseInput{
		Category:    category,
		Description: description,
		Amount:      amount,
	})
	if err != nil {
		return err
	}
	c.line("")
	c.Success(fmt.Sprintf("Expense of %s for '%s' added successfully!", c.money(entry.Amount), entry.Description))

	summary, _, err := c.svc.Summary(ctx, c.user)
	if err != nil && !errors.Is(err, core.ErrNoModeSelected) {
		return err
	}
	c.Alert(summary.Alert)
	return nil
}

func (c *Console) viewSummary(ctx context.Context) error {
	if _, ok, err := c.requireMode(ctx); err != nil || !ok {
		return err
	}
	s, l, err := c.svc.Summary(ctx, c.user)
	if err != nil {
		return err
	}
	c.Summary(s, l)
	return nil
}

func (c *Console) viewHistory(ctx context.Context) error {
	l, ok, err := c.requireMode(ctx)
	if err != nil || !ok {
		return err
	}
	c.History(l)
	return nil
}

func (c *Console) clear(ctx context.Context) error {
	answer, err := c.prompt("\n" + WarningIcon + " Are you sure you want to clear all data? (yes/no): ")
	if err != nil {
		return err
	}
	if strings.ToLower(answer) != "yes" {
		c.line("Operation cancelled.")
		return nil
	}
	if err := c.svc.Clear(ctx, c.user); err != nil {
		return err
	}
	c.Success("All data cleared successfully!")
	return nil
}
