package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"budgetbuddy/internal/core"
)

const maxBodyBytes = 64 << 10

const (
	// HeaderUserID selects the ledger for API clients.
	HeaderUserID = "X-User-ID"
	// UserCookie selects the ledger for the browser UI.
	UserCookie = "budgetbuddy_user"
)

type (
	// amountField accepts a JSON number or a numeric string. Anything else
	// is kept as text and rejected later by core.ParseAmount.
	amountField string

	// indexField is kept raw so that a missing or non-integer index is
	// reported as an invalid index, not a malformed body.
	indexField string

	modeRequest struct {
		Mode string `json:"mode"`
	}

	incomeRequest struct {
		Source string      `json:"source"`
		Amount amountField `json:"amount"`
	}

	expenseRequest struct {
		Category    string      `json:"category"`
		Description string      `json:"description"`
		Amount      amountField `json:"amount"`
	}

	deleteRequest struct {
		Index indexField `json:"index"`
	}
)

func (a *amountField) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*a = amountField(n)
		return nil
	}
	*a = amountField(strings.Trim(string(b), `"`))
	return nil
}

func (i *indexField) UnmarshalJSON(b []byte) error {
	*i = indexField(b)
	return nil
}

// Int returns the position, or -1 when it is missing or not an integer.
func (i indexField) Int() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(i)))
	if err != nil {
		return -1
	}
	return n
}

// decodeJSON reads a single JSON object from the request body. Errors wrap
// core.ErrInvalidRecord.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: empty body", core.ErrInvalidRecord)
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", core.ErrInvalidRecord)
		}
		return fmt.Errorf("%w: %v", core.ErrInvalidRecord, err)
	}
	return nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// userID resolves the ledger owner: header first, then cookie, then the
// configured default.
func (s *Server) userID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(HeaderUserID)); id != "" {
		return id
	}
	if c, err := r.Cookie(UserCookie); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value)
	}
	return s.opts.DefaultUser
}
