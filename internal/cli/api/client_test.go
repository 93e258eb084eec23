package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVault = "0f8fad5b-d9cb-469f-a165-70867728950e"

func TestFetch_SendsKey_And_ParsesData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(APIKeyHeader) != "k1" {
			t.Fatalf("api key header: %q", r.Header.Get(APIKeyHeader))
		}
		if r.Method != http.MethodGet || r.URL.Path != "/api/sync" || r.URL.Query().Get("vaultId") != testVault {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":"blob","timestamp":"now"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL+"/", "k1", time.Second)
	data, found, err := c.Fetch(context.Background(), testVault)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "blob", data)
}

func TestFetch_NullData_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":null}`))
	}))
	defer ts.Close()

	data, found, err := NewClient(ts.URL, "", 0).Fetch(context.Background(), testVault)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, data)
}

func TestPut_SendsBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req PutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad json: %v", err)
		}
		if r.Method != http.MethodPost || req.Data != "ct" || req.VaultID != testVault {
			t.Fatalf("unexpected put: %s %+v", r.Method, req)
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer ts.Close()

	assert.NoError(t, NewClient(ts.URL, "k", 0).Put(context.Background(), testVault, "ct"))
}

func TestDelete_And_Health(t *testing.T) {
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "k", 0)
	require.NoError(t, c.Delete(context.Background(), testVault))
	require.NoError(t, c.Health(context.Background()))
	assert.Equal(t, []string{"DELETE /api/sync", "GET /health"}, paths)
}

func TestErrors_Unauthorized_And_ServerError(t *testing.T) {
	code := http.StatusUnauthorized
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`{"success":false,"error":"boom"}`))
	}))
	defer ts.Close()
	c := NewClient(ts.URL, "bad", 0)

	err := c.Put(context.Background(), testVault, "x")
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.True(t, IsTransport(err))

	code = http.StatusForbidden
	_, _, err = c.Fetch(context.Background(), testVault)
	assert.ErrorIs(t, err, ErrUnauthorized)

	code = http.StatusInternalServerError
	err = c.Delete(context.Background(), testVault)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Contains(t, err.Error(), "boom")
}

func TestNetworkError_IsTransport(t *testing.T) {
	_, _, err := NewClient("http://127.0.0.1:1", "", time.Second).Fetch(context.Background(), testVault)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestInvalidURL_IsTransport(t *testing.T) {
	err := NewClient("http://[::1", "", 0).Put(context.Background(), testVault, "x")
	assert.True(t, IsTransport(err))
}

func TestMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer ts.Close()
	_, _, err := NewClient(ts.URL, "", 0).Fetch(context.Background(), testVault)
	assert.True(t, IsTransport(err))
}
