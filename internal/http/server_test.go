package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbuddy/internal/log"
	"budgetbuddy/internal/services"
	"budgetbuddy/internal/storage/memory"
)

type apiClient struct {
	t     *testing.T
	srv   *Server
	store *memory.Store
	user  string
}

func newTestServer(t *testing.T, opts Options) *apiClient {
	t.Helper()
	store := memory.New()
	srv := NewServer(":0", services.NewLedgerService(store), opts)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return &apiClient{t: t, srv: srv, store: store, user: "alice"}
}

func (c *apiClient) do(method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	c.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if c.user != "" {
		req.Header.Set(HeaderUserID, c.user)
	}
	rr := httptest.NewRecorder()
	c.srv.Handler.ServeHTTP(rr, req)

	var doc map[string]any
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(rr.Body.Bytes(), &doc), rr.Body.String())
	}
	return rr, doc
}

func TestHealthAndReady(t *testing.T) {
	c := newTestServer(t, Options{Ready: func(context.Context) error { return errors.New("db down") }})

	rr, _ := c.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())

	rr, _ = c.do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestIndexSetsUserCookie(t *testing.T) {
	c := newTestServer(t, Options{CurrencySymbol: "₹"})
	c.user = ""

	rr, _ := c.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Budget Buddy")
	assert.Contains(t, rr.Body.String(), "Student Mode")
	assert.Contains(t, rr.Header().Get("Set-Cookie"), UserCookie+"=default_user")
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	rr, _ = c.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStaticAssets(t *testing.T) {
	c := newTestServer(t, Options{})
	rr, _ := c.do(http.MethodGet, "/static/app.js", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Cache-Control"), "max-age=3600")
}

func TestModeEndpoints(t *testing.T) {
	c := newTestServer(t, Options{})

	rr, doc := c.do(http.MethodGet, "/api/mode", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, doc["mode"])

	rr, doc = c.do(http.MethodGet, "/api/categories", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, []any{}, doc["categories"])

	rr, doc = c.do(http.MethodPost, "/api/mode", `{"mode":"retired"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid mode", doc["error"])
	assert.Equal(t, false, doc["success"])

	rr, doc = c.do(http.MethodPost, "/api/mode", `{"mode":"professional"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, doc["success"])
	assert.Equal(t, "professional", doc["mode"])

	_, doc = c.do(http.MethodGet, "/api/categories", "")
	cats := doc["categories"].([]any)
	assert.Len(t, cats, 11)
	assert.Equal(t, "Housing & Rent", cats[0])

	rr, _ = c.do(http.MethodPut, "/api/mode", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, POST", rr.Header().Get("Allow"))
}

func TestSummaryRequiresMode(t *testing.T) {
	c := newTestServer(t, Options{})
	rr, doc := c.do(http.MethodGet, "/api/summary", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Please select a mode first", doc["error"])
}

func TestProfessionalMonthOverAPI(t *testing.T) {
	c := newTestServer(t, Options{})
	c.do(http.MethodPost, "/api/mode", `{"mode":"professional"}`)

	rr, doc := c.do(http.MethodPost, "/api/income", `{"source":"Salary","amount":5000}`)
	require.Equal(t, http.StatusOK, rr.Code)
	entry := doc["entry"].(map[string]any)
	assert.Equal(t, "Salary", entry["source"])
	assert.Equal(t, 5000.0, entry["amount"])

	for _, body := range []string{
		`{"category":"Housing & Rent","amount":"2000"}`,
		`{"category":"Groceries","description":"Weekly shop","amount":600}`,
		`{"category":"Utilities","amount":400.5}`,
	} {
		rr, doc = c.do(http.MethodPost, "/api/expenses", body)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, true, doc["counted"])
	}

	rr, doc = c.do(http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, rr.Code)
	totals := doc["totals"].(map[string]any)
	assert.Equal(t, 5000.0, totals["total_income"])
	assert.Equal(t, 3000.5, totals["total_expenses"])
	assert.Equal(t, 1999.5, totals["balance"])
	assert.Equal(t, 39.99, totals["savings_rate"])

	breakdown := doc["breakdown"].([]any)
	require.Len(t, breakdown, 3)
	assert.Equal(t, "Housing & Rent", breakdown[0].(map[string]any)["category"])
	assert.Equal(t, "healthy", doc["alert"].(map[string]any)["level"])

	expenses := doc["expenses"].([]any)
	assert.Equal(t, "Housing & Rent", expenses[0].(map[string]any)["description"])
}

func TestAddRejectsInvalidInput(t *testing.T) {
	c := newTestServer(t, Options{})
	for _, body := range []string{
		`{"source":"Salary","amount":0}`,
		`{"source":"Salary","amount":-3}`,
		`{"source":"Salary","amount":"abc"}`,
		`{"source":"Salary"}`,
		`{"source":"  ","amount":10}`,
		`not json`,
		``,
	} {
		rr, doc := c.do(http.MethodPost, "/api/income", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.Equal(t, "Invalid input", doc["error"], body)
	}
	rr, _ := c.do(http.MethodPost, "/api/expenses", `{"category":"","amount":5}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, c.store.Users())
}

func TestUnregisteredCategoryIsStoredButNotCounted(t *testing.T) {
	c := newTestServer(t, Options{})
	c.do(http.MethodPost, "/api/mode", `{"mode":"student"}`)

	rr, doc := c.do(http.MethodPost, "/api/expenses", `{"category":"Yacht","amount":10}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, doc["counted"])

	_, doc = c.do(http.MethodGet, "/api/summary", "")
	assert.Empty(t, doc["breakdown"])
	assert.Equal(t, 10.0, doc["totals"].(map[string]any)["total_expenses"])
}

func TestDeleteByIndex(t *testing.T) {
	c := newTestServer(t, Options{})
	c.do(http.MethodPost, "/api/income", `{"source":"A","amount":1}`)
	c.do(http.MethodPost, "/api/income", `{"source":"B","amount":2}`)

	for _, body := range []string{`{"index":2}`, `{"index":-1}`, `{"index":"0"}`, `{}`, `{"index":0.5}`} {
		rr, doc := c.do(http.MethodDelete, "/api/income", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.Equal(t, "Invalid index", doc["error"], body)
	}

	rr, doc := c.do(http.MethodDelete, "/api/income", `{"index":0}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "A", doc["deleted"].(map[string]any)["source"])

	_, doc = c.do(http.MethodGet, "/api/income", "")
	list := doc["income_sources"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].(map[string]any)["source"])

	rr, _ = c.do(http.MethodDelete, "/api/expenses", `{"index":0}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClearKeepsMode(t *testing.T) {
	c := newTestServer(t, Options{})
	c.do(http.MethodPost, "/api/mode", `{"mode":"student"}`)
	c.do(http.MethodPost, "/api/expenses", `{"category":"Other","amount":3}`)

	rr, doc := c.do(http.MethodPost, "/api/clear", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, doc["success"])

	_, doc = c.do(http.MethodGet, "/api/expenses", "")
	assert.Empty(t, doc["expenses"])
	_, doc = c.do(http.MethodGet, "/api/mode", "")
	assert.Equal(t, "student", doc["mode"])

	rr, _ = c.do(http.MethodGet, "/api/clear", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestUsersAreIsolated(t *testing.T) {
	c := newTestServer(t, Options{})
	c.do(http.MethodPost, "/api/income", `{"source":"A","amount":1}`)

	c.user = "bob"
	_, doc := c.do(http.MethodGet, "/api/income", "")
	assert.Empty(t, doc["income_sources"])
}

func TestPersistenceFailureIs500(t *testing.T) {
	c := newTestServer(t, Options{})
	c.store.FailSave = errors.New("disk full")

	rr, doc := c.do(http.MethodPost, "/api/income", `{"source":"A","amount":1}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, false, doc["success"])
	assert.NotContains(t, doc["error"], "disk full")
}

func TestExport(t *testing.T) {
	c := newTestServer(t, Options{})
	c.do(http.MethodPost, "/api/income", `{"source":"Gift","amount":25}`)

	rr, _ := c.do(http.MethodGet, "/api/export?format=csv", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), `filename="budgetbuddy-alice.csv"`)
	assert.Contains(t, rr.Body.String(), "income,Gift,Income,25.00,")

	rr, _ = c.do(http.MethodGet, "/api/export?format=yaml", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "total_income: 25.00")

	rr, doc := c.do(http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, doc["mode"])

	rr, _ = c.do(http.MethodGet, "/api/export?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRateLimitAppliesToWrites(t *testing.T) {
	c := newTestServer(t, Options{RateLimitPerMinute: 2})
	for i := 0; i < 2; i++ {
		rr, _ := c.do(http.MethodPost, "/api/income", `{"source":"A","amount":1}`)
		require.Equal(t, http.StatusOK, rr.Code)
	}
	rr, doc := c.do(http.MethodPost, "/api/income", `{"source":"A","amount":1}`)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, false, doc["success"])

	rr, _ = c.do(http.MethodGet, "/api/income", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimitRejectionIsLoggedUnderItsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Output: &buf, Format: "json", Component: log.ComponentApp})
	c := newTestServer(t, Options{RateLimitPerMinute: 1, Logger: logger})

	rr, _ := c.do(http.MethodPost, "/api/income", `{"source":"A","amount":1}`)
	require.Equal(t, http.StatusOK, rr.Code)
	rr, _ = c.do(http.MethodPost, "/api/income", `{"source":"A","amount":1}`)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)

	assert.Contains(t, buf.String(), `"msg":"Rate limit exceeded"`)
	assert.Contains(t, buf.String(), `"component":"rate_limit"`)
}
