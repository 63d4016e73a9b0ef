// Package report renders ledger summaries as JSON or YAML documents and
// exports transactions as CSV.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"budgetbuddy/internal/core"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat accepts json, yaml (or yml), csv and text, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "text", "":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w %q (use text, json, yaml or csv)", ErrUnsupportedFormat, s)
}

// ContentType is the MIME type used when serving a format over HTTP.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Generate renders the summary document in JSON or YAML.
func Generate(s core.Summary, l core.Ledger, f Format) ([]byte, error) {
	view := NewSummaryView(s, l)
	switch f {
	case FormatJSON:
		return json.MarshalIndent(view, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return nil, fmt.Errorf("encode yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml report: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w %q for summary document", ErrUnsupportedFormat, f)
	}
}

// TransactionRow is one CSV line of the transaction export.
type TransactionRow struct {
	Type     string `csv:"type"`
	Label    string `csv:"label"`
	Category string `csv:"category"`
	Amount   string `csv:"amount"`
	Date     string `csv:"date"`
}

// TransactionRows lists income first, then expenses, each in entry order.
func TransactionRows(l core.Ledger) []*TransactionRow {
	rows := make([]*TransactionRow, 0, len(l.Income)+len(l.Expenses))
	for _, e := range l.Income {
		rows = append(rows, &TransactionRow{
			Type:     "income",
			Label:    e.Source,
			Category: "Income",
			Amount:   e.Amount.String(),
			Date:     e.RecordedAt.String(),
		})
	}
	for _, e := range l.Expenses {
		rows = append(rows, &TransactionRow{
			Type:     "expense",
			Label:    e.Description,
			Category: e.Category,
			Amount:   e.Amount.String(),
			Date:     e.RecordedAt.String(),
		})
	}
	return rows
}

// WriteTransactionsCSV writes a header line followed by one row per entry.
func WriteTransactionsCSV(w io.Writer, l core.Ledger) error {
	rows := TransactionRows(l)
	if len(rows) == 0 {
		// An empty ledger still gets its header line.
		_, err := io.WriteString(w, "type,label,category,amount,date\n")
		return err
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write transactions csv: %w", err)
	}
	return nil
}
