// Package storage persists whole-ledger snapshots. The root package holds the
// Repository port shared by every backend and the SQLite implementation;
// file, memory and postgres backends live in subpackages.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"budgetbuddy/internal/core"
)

// Repository loads and saves one ledger per user.
//
// Load never fails for a user that has no snapshot yet: it returns an empty
// ledger. A snapshot that cannot be decoded yields an empty ledger together
// with an error wrapping ErrCorruptSnapshot so that callers can fail soft.
type Repository interface {
	Load(ctx context.Context, userID string) (core.Ledger, error)
	Save(ctx context.Context, userID string, l core.Ledger) error
}

var (
	ErrCorruptSnapshot = errors.New("corrupt ledger snapshot")
	ErrInvalidUserID   = errors.New("invalid user id")
)

var unsafeUserChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// NormalizeUserID trims the id and replaces characters that are unsafe in
// file names and keys.
func NormalizeUserID(userID string) (string, error) {
	id := unsafeUserChars.ReplaceAllString(strings.TrimSpace(userID), "_")
	id = strings.Trim(id, ".")
	if id == "" {
		return "", ErrInvalidUserID
	}
	if len(id) > 128 {
		id = id[:128]
	}
	return id, nil
}

// DecodeSnapshot parses a snapshot document and validates its entries.
func DecodeSnapshot(data []byte) (core.Ledger, error) {
	l := core.NewLedger()
	if err := json.Unmarshal(data, &l); err != nil {
		return core.NewLedger(), fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if err := l.Validate(); err != nil {
		return core.NewLedger(), fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return l.Clone(), nil
}

// EncodeSnapshot renders the snapshot document with two-space indentation.
func EncodeSnapshot(l core.Ledger) ([]byte, error) {
	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}
