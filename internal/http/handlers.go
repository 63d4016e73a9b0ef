package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/report"
	"budgetbuddy/internal/storage"
)

type modeOption struct {
	Value string
	Title string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NewJSONResponse().Status(http.StatusNotFound).Fail("Not found").Write(w)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, "GET")
		return
	}
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	user := s.userID(r)
	if _, err := r.Cookie(UserCookie); err != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     UserCookie,
			Value:    user,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	l, err := s.svc.Ledger(r.Context(), user)
	if err != nil {
		respondError(w, r, err)
		return
	}
	cats, _ := core.CategoriesFor(l.Mode)

	data := struct {
		Currency   string
		Mode       string
		Modes      []modeOption
		Categories []string
	}{
		Currency:   s.opts.CurrencySymbol,
		Mode:       string(l.Mode),
		Categories: cats,
	}
	for _, m := range core.Modes() {
		data.Modes = append(data.Modes, modeOption{Value: string(m), Title: m.Title()})
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err, "template", "index.html")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := s.userID(r)

	switch r.Method {
	case http.MethodGet:
		l, err := s.svc.Ledger(ctx, user)
		if err != nil {
			respondError(w, r, err)
			return
		}
		NewJSONResponse().Set("mode", l.Mode).Write(w)
	case http.MethodPost:
		var req modeRequest
		if err := decodeJSON(r, &req); err != nil {
			NewJSONResponse().Status(http.StatusBadRequest).Fail(msgInvalidMode).Write(w)
			return
		}
		m, err := s.svc.SetMode(ctx, user, req.Mode)
		if err != nil {
			respondError(w, r, err)
			return
		}
		NewJSONResponse().Success().Set("mode", m).Write(w)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	cats, err := s.svc.Categories(r.Context(), s.userID(r))
	if err != nil {
		errorResponse(r, err).Set("categories", []string{}).Write(w)
		return
	}
	NewJSONResponse().Set("categories", cats).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	summary, l, err := s.svc.Summary(r.Context(), s.userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.NewSummaryView(summary, l), nil)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := s.svc.Clear(r.Context(), s.userID(r)); err != nil {
		respondError(w, r, err)
		return
	}
	NewJSONResponse().Success().Write(w)
}

// handleExport serves the ledger as a CSV, JSON or YAML download. Exports
// work without a mode; the breakdown is then empty.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(report.FormatJSON)
	}
	format, err := report.ParseFormat(raw)
	if err != nil || format == report.FormatText {
		NewJSONResponse().Status(http.StatusBadRequest).Fail("Unsupported export format").Write(w)
		return
	}

	user := s.userID(r)
	summary, l, err := s.svc.Summary(r.Context(), user)
	if err != nil && !errors.Is(err, core.ErrNoModeSelected) {
		respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if format == report.FormatCSV {
		err = report.WriteTransactionsCSV(&buf, l)
	} else {
		var out []byte
		out, err = report.Generate(summary, l, format)
		buf.Write(out)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	name, _ := storage.NormalizeUserID(user)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="budgetbuddy-%s.%s"`, name, format))
	_, _ = buf.WriteTo(w)
}
