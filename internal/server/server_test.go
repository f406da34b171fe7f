package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"delivery-ops/internal/config"
	"delivery-ops/internal/models"
	"delivery-ops/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0", ClientOrigin: "http://localhost:5173"},
		Auth:     config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
		Pipeline: config.PipelineConfig{AtRiskWindow: 15 * time.Minute},
		App:      config.AppConfig{Timezone: "UTC"},
	}
	st := store.New(store.SeedState(time.Now()))
	srv, err := New(cfg, zap.NewNop(), st, nil)
	require.NoError(t, err)
	return srv.Handler()
}

func call(h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler, name, role string) string {
	t.Helper()
	rec := call(h, http.MethodPost, "/api/session/login", "", `{"name":"`+name+`","role":"`+role+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestPublicEndpoints(t *testing.T) {
	h := newTestServer(t)

	assert.Equal(t, http.StatusOK, call(h, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, call(h, http.MethodGet, "/metrics", "", "").Code)

	rec := call(h, http.MethodGet, "/api/session/state", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_authenticated":false`)

	rec = call(h, http.MethodPost, "/api/language/toggle", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"language":"he"`)
}

func TestProtectedEndpointsNeedSession(t *testing.T) {
	h := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, call(h, http.MethodGet, "/api/orders", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(h, http.MethodGet, "/api/orders", "garbage", "").Code)

	first := login(t, h, "Alice", "MANAGER")
	assert.Equal(t, http.StatusOK, call(h, http.MethodGet, "/api/orders", first, "").Code)
	assert.Equal(t, http.StatusOK, call(h, http.MethodGet, "/api/dashboard", first, "").Code)
	assert.Equal(t, http.StatusOK, call(h, http.MethodGet, "/api/navigation", first, "").Code)

	// a later sign in ends the earlier session
	second := login(t, h, "Bob", "COURIER")
	assert.Equal(t, http.StatusUnauthorized, call(h, http.MethodGet, "/api/orders", first, "").Code)
	assert.Equal(t, http.StatusOK, call(h, http.MethodGet, "/api/my/deliveries", second, "").Code)

	assert.Equal(t, http.StatusNoContent, call(h, http.MethodPost, "/api/session/logout", second, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(h, http.MethodGet, "/api/orders", second, "").Code)
}

func TestOrderFlow(t *testing.T) {
	h := newTestServer(t)
	token := login(t, h, "Alice", "MANAGER")

	rec := call(h, http.MethodPost, "/api/orders", token,
		`{"customer_name":"Jane","phone":"050","address":"X","dishes":"A, B","price":50}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"id":"ORD-004"`)

	steps := []struct{ station, to string }{
		{"kitchen", "IN_PREP"},
		{"kitchen", "READY_FOR_PACK"},
		{"packaging", "PACKING"},
		{"packaging", "PACKED"},
	}
	for _, s := range steps {
		rec = call(h, http.MethodPost, "/api/stations/"+s.station+"/orders/ORD-004/advance", token, `{"to":"`+s.to+`"}`)
		require.Equal(t, http.StatusOK, rec.Code, s.to)
	}

	rec = call(h, http.MethodPost, "/api/dispatch/orders/ORD-004/assign", token, `{"courier_id":"2"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(h, http.MethodGet, "/api/orders/ORD-004/history", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []models.StatusChange
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 6)
	assert.Equal(t, models.StatusAssigned, history[5].Status)
	assert.Equal(t, "Alice", history[5].By)

	courierToken := login(t, h, "Sarah Levi", "COURIER")
	rec = call(h, http.MethodPost, "/api/my/deliveries/ORD-004/advance", courierToken, `{"to":"ON_THE_WAY"}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
