package httpserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foerderkompass/foerderkompass/internal/domain"
)

func TestWriteError_StatusMapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "invalid argument", err: domain.ErrInvalidArgument, wantStatus: http.StatusBadRequest, wantCode: "INVALID_ARGUMENT"},
		{name: "not found", err: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "catalog unavailable", err: domain.ErrCatalogUnavailable, wantStatus: http.StatusServiceUnavailable, wantCode: "CATALOG_UNAVAILABLE"},
		{name: "search unavailable", err: domain.ErrSearchUnavailable, wantStatus: http.StatusServiceUnavailable, wantCode: "SEARCH_UNAVAILABLE"},
		{name: "oracle failure", err: domain.ErrOracleFailure, wantStatus: http.StatusServiceUnavailable, wantCode: "ORACLE_FAILURE"},
		{name: "schema invalid", err: domain.ErrSchemaInvalid, wantStatus: http.StatusServiceUnavailable, wantCode: "SCHEMA_INVALID"},
		{name: "wrapped sentinel", err: fmt.Errorf("op=foundations.get: %w: id=x", domain.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "unclassified error", err: assert.AnError, wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err, nil)

			require.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCode, decodeError(t, rec).Error.Code)
		})
	}
}
