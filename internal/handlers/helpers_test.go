package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"JournalVault/internal/config"
	"JournalVault/internal/handlers"
	"JournalVault/internal/repo"
	"JournalVault/internal/service"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const (
	testKey   = "test-key"
	testVault = "0b6f9f0e-6a1c-4d7e-9a55-3f2e1d0c9b8a"
)

// hMockBlobRepo: мок репозитория блобов.
type hMockBlobRepo struct{ mock.Mock }

func (m *hMockBlobRepo) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
func (m *hMockBlobRepo) Put(ctx context.Context, key, data string) error {
	return m.Called(ctx, key, data).Error(0)
}
func (m *hMockBlobRepo) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

var _ repo.BlobRepository = (*hMockBlobRepo)(nil)

// memBlobRepo: рабочий репозиторий в памяти.
type memBlobRepo struct{ m map[string]string }

func (r *memBlobRepo) Get(_ context.Context, key string) (string, error) {
	v, ok := r.m[key]
	if !ok {
		return "", repo.ErrNotFound
	}
	return v, nil
}
func (r *memBlobRepo) Put(_ context.Context, key, data string) error { r.m[key] = data; return nil }
func (r *memBlobRepo) Delete(_ context.Context, key string) error    { delete(r.m, key); return nil }

func newRouter(t *testing.T, br repo.BlobRepository, cfg *config.Config) http.Handler {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{APIKey: testKey, MaxPayloadMB: 1, RateLimitPerMinute: 100}
	}
	logger := zap.NewNop().Sugar()
	h := handlers.NewHandler(service.NewBlobService(br, logger), logger, cfg)
	return h.Router
}

func doReq(t *testing.T, h http.Handler, method, target, body string, withKey bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if withKey {
		req.Header.Set("X-API-Key", testKey)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
