package http

import (
	"net/http"

	"budgetbuddy/internal/report"
	"budgetbuddy/internal/services"
)

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := s.userID(r)

	switch r.Method {
	case http.MethodGet:
		l, err := s.svc.Ledger(ctx, user)
		if err != nil {
			respondError(w, r, err)
			return
		}
		NewJSONResponse().Set("expenses", report.ExpenseViews(l.Expenses)).Write(w)

	case http.MethodPost:
		var req expenseRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, r, err)
			return
		}
		receipt, err := s.svc.RecordExpense(ctx, user, services.ExpenseInput{
			Category:    sanitizeInput(req.Category),
			Description: sanitizeInput(req.Description),
			Amount:      string(req.Amount),
		})
		if err != nil {
			respondError(w, r, err)
			return
		}
		// Unregistered categories are stored but left out of the breakdown.
		NewJSONResponse().Success().
			Set("entry", report.NewExpenseView(receipt.Entry)).
			Set("counted", receipt.Counted).
			Write(w)

	case http.MethodDelete:
		var req deleteRequest
		if err := decodeJSON(r, &req); err != nil {
			NewJSONResponse().Status(http.StatusBadRequest).Fail(msgInvalidIndex).Write(w)
			return
		}
		deleted, err := s.svc.RemoveExpense(ctx, user, req.Index.Int())
		if err != nil {
			respondError(w, r, err)
			return
		}
		NewJSONResponse().Success().Set("deleted", report.NewExpenseView(deleted)).Write(w)

	default:
		methodNotAllowed(w, "GET, POST, DELETE")
	}
}
