package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the on-disk and display format of entry timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

type (
	// Timestamp is a wall-clock instant serialized as "YYYY-MM-DD HH:MM:SS".
	Timestamp struct {
		time.Time
	}

	IncomeEntry struct {
		Source     string    `json:"source"`
		Amount     Money     `json:"amount"`
		RecordedAt Timestamp `json:"date"`
	}

	ExpenseEntry struct {
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		RecordedAt  Timestamp `json:"date"`
	}
)

var (
	ErrInvalidRecord   = errors.New("invalid record")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidMode     = errors.New("invalid mode")
	ErrNoModeSelected  = errors.New("no mode selected")

	ErrInvalidAmount = fmt.Errorf("%w: amount must be a positive number", ErrInvalidRecord)
	ErrEmptySource   = fmt.Errorf("%w: income source is required", ErrInvalidRecord)
	ErrEmptyCategory = fmt.Errorf("%w: expense category is required", ErrInvalidRecord)
)

// NewTimestamp truncates t to whole seconds, the precision that is persisted.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

func (t Timestamp) String() string {
	return t.Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(TimestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parse timestamp %q: %w", s, err)
		}
	}
	t.Time = parsed
	return nil
}

// NewIncomeEntry validates raw input and builds an income entry.
func NewIncomeEntry(source string, amount Money, at time.Time) (IncomeEntry, error) {
	e := IncomeEntry{
		Source:     strings.TrimSpace(source),
		Amount:     amount,
		RecordedAt: NewTimestamp(at),
	}
	if err := e.Validate(); err != nil {
		return IncomeEntry{}, err
	}
	return e, nil
}

// NewExpenseEntry validates raw input and builds an expense entry. A blank
// description defaults to the category name. The category is not checked
// against the active mode: unregistered categories are stored but left out
// of the breakdown.
func NewExpenseEntry(category, description string, amount Money, at time.Time) (ExpenseEntry, error) {
	category = strings.TrimSpace(category)
	description = strings.TrimSpace(description)
	if description == "" {
		description = category
	}
	e := ExpenseEntry{
		Category:    category,
		Description: description,
		Amount:      amount,
		RecordedAt:  NewTimestamp(at),
	}
	if err := e.Validate(); err != nil {
		return ExpenseEntry{}, err
	}
	return e, nil
}

func (e IncomeEntry) Validate() error {
	if strings.TrimSpace(e.Source) == "" {
		return ErrEmptySource
	}
	return e.Amount.Validate()
}

func (e ExpenseEntry) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return e.Amount.Validate()
}
