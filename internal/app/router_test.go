package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "github.com/foerderkompass/foerderkompass/internal/adapter/httpserver"
	"github.com/foerderkompass/foerderkompass/internal/config"
	"github.com/foerderkompass/foerderkompass/internal/domain"
	"github.com/foerderkompass/foerderkompass/internal/usecase"
)

func TestParseOrigins(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty means any", in: "", want: []string{"*"}},
		{name: "wildcard", in: "*", want: []string{"*"}},
		{name: "single", in: "https://example.org", want: []string{"https://example.org"}},
		{name: "list with spaces", in: "https://a.de, https://b.de ,https://c.de", want: []string{"https://a.de", "https://b.de", "https://c.de"}},
		{name: "only separators", in: " , , ", want: []string{"*"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ParseOrigins(tc.in))
		})
	}
}

type emptyRepo struct{}

func (emptyRepo) FilterByPurposes(domain.Context, []string) ([]string, error) { return nil, nil }
func (emptyRepo) SearchRelevant(domain.Context, []string, string, int) ([]domain.Foundation, error) {
	return nil, nil
}
func (emptyRepo) GetByIDs(domain.Context, []string) ([]domain.Foundation, error) { return nil, nil }
func (emptyRepo) Get(domain.Context, string) (domain.Foundation, error) {
	return domain.Foundation{}, domain.ErrNotFound
}
func (emptyRepo) List(domain.Context, int, int) ([]domain.Foundation, error) { return nil, nil }

type noopEvaluator struct{}

func (noopEvaluator) Evaluate(domain.Context, domain.ProjectDescription, []domain.Foundation) ([]domain.FoundationEvaluation, error) {
	return nil, nil
}

func testRouter() http.Handler {
	cfg := config.Config{
		AppEnv:            "test",
		CORSAllowOrigins:  "*",
		RateLimitPerMin:   100,
		OracleTimeout:     5 * time.Second,
		MatchLimitMax:     20,
		MatchLimitDefault: 5,
	}
	match := usecase.NewMatchService(emptyRepo{}, noopEvaluator{}, nil, 0)
	srv := httpserver.NewServer(cfg, match, emptyRepo{}, nil, nil)
	return BuildRouter(cfg, srv)
}

func TestBuildRouter_Healthz(t *testing.T) {
	h := testRouter()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestBuildRouter_Purposes(t *testing.T) {
	h := testRouter()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/purposes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":27`)
}

func TestBuildRouter_UnknownRoute(t *testing.T) {
	h := testRouter()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildRouter_UnknownFoundationIs404(t *testing.T) {
	h := testRouter()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/foundations/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildRouter_Metrics(t *testing.T) {
	h := testRouter()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
