package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbuddy/internal/core"
)

func TestAmountField(t *testing.T) {
	tests := map[string]string{
		`{"amount": 12.5}`:   "12.5",
		`{"amount": "7"}`:    "7",
		`{"amount": "3,20"}`: "3,20",
		`{"amount": null}`:   "",
		`{}`:                 "",
		`{"amount": true}`:   "true",
	}
	for body, want := range tests {
		var req incomeRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		assert.Equal(t, want, string(req.Amount), body)
	}
}

func TestIndexField(t *testing.T) {
	tests := map[string]int{
		`{"index": 3}`:   3,
		`{"index": 0}`:   0,
		`{"index": "1"}`: -1,
		`{"index": 1.5}`: -1,
		`{}`:             -1,
	}
	for body, want := range tests {
		var req deleteRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		assert.Equal(t, want, req.Index.Int(), body)
	}
}

func TestDecodeJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"mode":"student"}`))
	var req modeRequest
	require.NoError(t, decodeJSON(r, &req))
	assert.Equal(t, "student", req.Mode)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.ErrorIs(t, decodeJSON(r, &req), core.ErrInvalidRecord)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[1,2`))
	assert.ErrorIs(t, decodeJSON(r, &req), core.ErrInvalidRecord)
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Coffee", sanitizeInput("  Cof\x00fee\n "))
	assert.Equal(t, "Café & Co", sanitizeInput("Café & Co"))
}

func TestUserID(t *testing.T) {
	s := &Server{opts: Options{DefaultUser: "default_user"}}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "default_user", s.userID(r))

	r.AddCookie(&http.Cookie{Name: UserCookie, Value: "cookie-user"})
	assert.Equal(t, "cookie-user", s.userID(r))

	r.Header.Set(HeaderUserID, "header-user")
	assert.Equal(t, "header-user", s.userID(r))
}
