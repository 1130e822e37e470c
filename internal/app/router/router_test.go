package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance_collector/internal/feature/companies/domain/entity"
	companieshandler "finance_collector/internal/feature/companies/transport/handler"
	"finance_collector/internal/feature/companies/usecase"
	platformhandler "finance_collector/internal/platform/http/handler"
	jwtmw "finance_collector/internal/platform/jwt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubCollect struct{ calls int }

func (s *stubCollect) CollectAll(ctx context.Context, trigger entity.Trigger) (entity.RunSummary, error) {
	s.calls++
	return entity.RunSummary{Trigger: trigger}, nil
}

func (s *stubCollect) LastRun(ctx context.Context) (entity.RunSummary, error) {
	return entity.RunSummary{}, usecase.ErrRunStatusNotFound
}

type stubLister struct{}

func (stubLister) List(ctx context.Context, limit, offset int) (usecase.CompanyPage, error) {
	return usecase.CompanyPage{Limit: limit}, nil
}

func newTestRouter(secret string) (*gin.Engine, *stubCollect) {
	uc := &stubCollect{}
	h := companieshandler.NewCollectHandler(uc, stubLister{})
	return NewRouter(h, platformhandler.Health(nil), secret), uc
}

func serve(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestNewRouter_PublicRoutes(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter("secret")

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodHead, "/healthz", http.StatusOK},
		{http.MethodGet, "/companies", http.StatusOK},
		{http.MethodGet, "/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(r, tt.method, tt.path, "").Code)
		})
	}
}

func TestNewRouter_CollectWithoutSecret(t *testing.T) {
	t.Parallel()

	r, uc := newTestRouter("")

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/collect", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/collect/status", "").Code)
	assert.Equal(t, 1, uc.calls)
}

func TestNewRouter_CollectWithSecret(t *testing.T) {
	t.Parallel()

	r, uc := newTestRouter("secret")

	w := serve(r, http.MethodGet, "/collect", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, uc.calls)

	token, err := jwtmw.NewGenerator("secret", time.Minute).GenerateToken("ops")
	require.NoError(t, err)

	w = serve(r, http.MethodGet, "/collect", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","message":"Data collection triggered successfully"}`, w.Body.String())
	assert.Equal(t, 1, uc.calls)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/collect/status", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/collect/status", token).Code)
}
