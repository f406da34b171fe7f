package support

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"delivery-ops/internal/models"
	"delivery-ops/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestStore() *store.Store {
	return store.New(store.SeedState(testNow), store.WithClock(func() time.Time { return testNow }))
}

func TestOverview_NoQuery(t *testing.T) {
	svc := NewService(newTestStore(), 0)

	got, err := svc.Overview(context.Background(), "  ")
	require.NoError(t, err)
	assert.False(t, got.Searched)
	assert.Empty(t, got.Results)
	assert.Equal(t, Stats{Total: 3, Active: 3, UrgentActive: 1}, got.Stats)

	require.Len(t, got.Recent, 3)
	assert.Equal(t, "ORD-001", got.Recent[0].ID)
	assert.Equal(t, "ORD-003", got.Recent[2].ID)

	require.Len(t, got.Urgent, 1)
	assert.Equal(t, "ORD-002", got.Urgent[0].ID)
}

func TestOverview_Search(t *testing.T) {
	st := newTestStore()
	svc := NewService(st, 0)

	got, err := svc.Overview(context.Background(), "054")
	require.NoError(t, err)
	assert.True(t, got.Searched)
	assert.Len(t, got.Results, 3)

	got, err = svc.Overview(context.Background(), "haifa")
	require.NoError(t, err)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "ORD-003", got.Results[0].ID)

	_, err = st.UpdateOrderStatus("ORD-002", models.StatusDelivered, "")
	require.NoError(t, err)
	got, err = svc.Overview(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stats.Active)
	assert.Equal(t, 0, got.Stats.UrgentActive)
	assert.Empty(t, got.Urgent)
}

func TestHandler_GetOverview(t *testing.T) {
	h := NewHandler(NewService(newTestStore(), 0))
	e := echo.New()
	h.RegisterRoutes(e.Group("/api"))

	req := httptest.NewRequest(http.MethodGet, "/api/support?q=ORD-002", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"searched":true`)
	assert.Contains(t, rec.Body.String(), "Jane Smith")
}
