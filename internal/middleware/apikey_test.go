package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

// Тест: верный ключ пропускается
func TestWithAPIKey_Valid(t *testing.T) {
	h := WithAPIKey("k1")(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/sync", nil)
	req.Header.Set(APIKeyHeader, "k1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid key, got %d", rr.Code)
	}
}

// Тест: неверный или отсутствующий ключ даёт 401 с JSON-ошибкой
func TestWithAPIKey_InvalidOrMissing(t *testing.T) {
	h := WithAPIKey("k1")(okHandler())
	for _, key := range []string{"", "k2", "k1 "} {
		req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
		if key != "" {
			req.Header.Set(APIKeyHeader, key)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("key %q: expected 401, got %d", key, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"success":false`) {
			t.Fatalf("json error body expected, got %s", rr.Body.String())
		}
	}
}

// Тест: preflight и пустой ключ сервера не проверяются
func TestWithAPIKey_OptionsAndDisabled(t *testing.T) {
	rr := httptest.NewRecorder()
	WithAPIKey("k1")(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/sync", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("OPTIONS must pass, got %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	WithAPIKey("")(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/sync", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("disabled check must pass, got %d", rr.Code)
	}
}
