package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/services"
	"budgetbuddy/internal/storage"
)

// JSONResponse builds a JSON object response field by field.
type JSONResponse struct {
	statusCode int
	body       map[string]any
	headers    map[string]string
}

// NewJSONResponse creates an empty 200 response.
func NewJSONResponse() *JSONResponse {
	return &JSONResponse{
		statusCode: http.StatusOK,
		body:       map[string]any{},
		headers:    map[string]string{},
	}
}

func (b *JSONResponse) Status(code int) *JSONResponse {
	b.statusCode = code
	return b
}

// Set adds a top-level field.
func (b *JSONResponse) Set(key string, value any) *JSONResponse {
	b.body[key] = value
	return b
}

func (b *JSONResponse) Header(key, value string) *JSONResponse {
	b.headers[key] = value
	return b
}

// Success marks the response successful.
func (b *JSONResponse) Success() *JSONResponse {
	return b.Set("success", true)
}

// Fail marks the response failed with a user-facing message.
func (b *JSONResponse) Fail(msg string) *JSONResponse {
	return b.Set("success", false).Set("error", msg)
}

// Write sends the response. Encoding errors are ignored since the status
// line is already written.
func (b *JSONResponse) Write(w http.ResponseWriter) {
	writeJSON(w, b.statusCode, b.body, b.headers)
}

func writeJSON(w http.ResponseWriter, status int, v any, headers map[string]string) {
	for k, val := range headers {
		w.Header().Set(k, val)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Messages match the web UI's expectations.
const (
	msgInvalidInput = "Invalid input"
	msgInvalidIndex = "Invalid index"
	msgInvalidMode  = "Invalid mode"
	msgNoMode       = "Please select a mode first"
	msgInvalidUser  = "Invalid user"
	msgPersistence  = "Could not save your data, please try again"
	msgInternal     = "Internal server error"
)

// errorStatus maps a domain error to a status code and message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrInvalidRecord):
		return http.StatusBadRequest, msgInvalidInput
	case errors.Is(err, core.ErrIndexOutOfRange):
		return http.StatusBadRequest, msgInvalidIndex
	case errors.Is(err, core.ErrInvalidMode):
		return http.StatusBadRequest, msgInvalidMode
	case errors.Is(err, core.ErrNoModeSelected):
		return http.StatusBadRequest, msgNoMode
	case errors.Is(err, storage.ErrInvalidUserID):
		return http.StatusBadRequest, msgInvalidUser
	case errors.Is(err, services.ErrPersistence):
		return http.StatusInternalServerError, msgPersistence
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// errorResponse logs server-side failures and builds the error envelope.
func errorResponse(r *http.Request, err error) *JSONResponse {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path,
			log.FieldMethod, r.Method,
			log.FieldError, err)
	}
	return NewJSONResponse().Status(status).Fail(msg)
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(r, err).Write(w)
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	NewJSONResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowed).
		Fail("Method not allowed").
		Write(w)
}
