// Package memory is an in-process SummaryExporter for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	ports "budgetbuddy/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []ports.SummaryRow
}

var _ ports.SummaryExporter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendSummary stores the row and returns a synthetic row reference.
func (s *Store) AppendSummary(_ context.Context, row ports.SummaryRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of the exported rows.
func (s *Store) Rows() []ports.SummaryRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.SummaryRow(nil), s.rows...)
}
