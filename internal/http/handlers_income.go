package http

import (
	"net/http"

	"budgetbuddy/internal/report"
	"budgetbuddy/internal/services"
)

func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := s.userID(r)

	switch r.Method {
	case http.MethodGet:
		l, err := s.svc.Ledger(ctx, user)
		if err != nil {
			respondError(w, r, err)
			return
		}
		NewJSONResponse().Set("income_sources", report.IncomeViews(l.Income)).Write(w)

	case http.MethodPost:
		var req incomeRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, r, err)
			return
		}
		entry, err := s.svc.AddIncome(ctx, user, services.IncomeInput{
			Source: sanitizeInput(req.Source),
			Amount: string(req.Amount),
		})
		if err != nil {
			respondError(w, r, err)
			return
		}
		NewJSONResponse().Success().Set("entry", report.NewIncomeView(entry)).Write(w)

	case http.MethodDelete:
		var req deleteRequest
		if err := decodeJSON(r, &req); err != nil {
			NewJSONResponse().Status(http.StatusBadRequest).Fail(msgInvalidIndex).Write(w)
			return
		}
		deleted, err := s.svc.RemoveIncome(ctx, user, req.Index.Int())
		if err != nil {
			respondError(w, r, err)
			return
		}
		NewJSONResponse().Success().Set("deleted", report.NewIncomeView(deleted)).Write(w)

	default:
		methodNotAllowed(w, "GET, POST, DELETE")
	}
}
