// Package httpserver contains HTTP handlers and middleware.
//
// It exposes the matching pipeline and the foundation catalog as a JSON
// API and keeps HTTP concerns out of the business logic.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/foerderkompass/foerderkompass/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, _ *http.Request, err error, details any) {
	code := http.StatusInternalServerError
	codeStr := "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
		codeStr = "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
		codeStr = "NOT_FOUND"
	case errors.Is(err, domain.ErrCatalogUnavailable):
		code = http.StatusServiceUnavailable
		codeStr = "CATALOG_UNAVAILABLE"
	case errors.Is(err, domain.ErrSearchUnavailable):
		code = http.StatusServiceUnavailable
		codeStr = "SEARCH_UNAVAILABLE"
	case errors.Is(err, domain.ErrOracleFailure):
		code = http.StatusServiceUnavailable
		codeStr = "ORACLE_FAILURE"
	case errors.Is(err, domain.ErrSchemaInvalid):
		code = http.StatusServiceUnavailable
		codeStr = "SCHEMA_INVALID"
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: err.Error(), Details: details}})
}
