package station

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"delivery-ops/internal/models"
	"delivery-ops/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *store.Store) {
	st := store.New(store.SeedState(testNow), store.WithClock(func() time.Time { return testNow }))
	return NewService(st, 15*time.Minute), st
}

func TestBoard_Kitchen(t *testing.T) {
	later := testNow.Add(time.Minute)
	st := store.New(store.SeedState(testNow), store.WithClock(func() time.Time { return later }))
	svc := NewService(st, 15*time.Minute)

	board, err := svc.Board(context.Background(), "kitchen")
	require.NoError(t, err)
	require.Len(t, board.Columns, 2)
	assert.Equal(t, 2, board.Total)

	received := board.Columns[0]
	assert.Equal(t, models.StatusReceived, received.Status)
	require.Len(t, received.Cards, 1)
	require.Len(t, received.Cards[0].Actions, 1)
	assert.Equal(t, models.StatusInPrep, received.Cards[0].Actions[0].To)
	assert.Equal(t, "Start Prep", received.Cards[0].Actions[0].Label)

	// ORD-002 is due in 14 minutes: inside the at-risk window, not yet late
	inPrep := board.Columns[1].Cards[0]
	assert.True(t, inPrep.AtRisk)
	assert.False(t, inPrep.Late)
}

func TestBoard_DeliveryMarksAssignable(t *testing.T) {
	svc, _ := newTestService()

	board, err := svc.Board(context.Background(), "delivery")
	require.NoError(t, err)
	packed := board.Columns[0]
	require.Len(t, packed.Cards, 1)
	assert.True(t, packed.Cards[0].Assignable)
	assert.Empty(t, packed.Cards[0].Actions)
}

func TestBoard_UnknownStation(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Board(context.Background(), "bar")
	assert.ErrorIs(t, err, models.ErrUnknownStation)
}

func TestAdvance(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	card, err := svc.Advance(ctx, "kitchen", "ORD-001", models.StatusInPrep)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInPrep, card.Status)
	assert.Equal(t, models.StatusReadyForPack, card.Actions[0].To)

	_, err = svc.Advance(ctx, "kitchen", "ORD-001", models.StatusDelivered)
	assert.ErrorIs(t, err, models.ErrActionNotOffered)

	_, err = svc.Advance(ctx, "packaging", "ORD-001", models.StatusPacking)
	assert.ErrorIs(t, err, models.ErrActionNotOffered)

	_, err = svc.Advance(ctx, "kitchen", "ORD-404", models.StatusInPrep)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	o, _ := store.FindOrder(st.Snapshot(), "ORD-001")
	assert.Equal(t, models.StatusInPrep, o.Status)
}

func TestAdvance_ConcurrentClicksMoveOnce(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	const clicks = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	for i := 0; i < clicks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Advance(ctx, "kitchen", "ORD-002", models.StatusReadyForPack)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, models.ErrActionNotOffered) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, clicks-1, rejected)
	o, _ := store.FindOrder(st.Snapshot(), "ORD-002")
	assert.Equal(t, models.StatusReadyForPack, o.Status)
}

func TestAdvance_KitchenCannotPullBackPackedOrder(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	_, err := svc.Advance(ctx, "kitchen", "ORD-002", models.StatusReadyForPack)
	require.NoError(t, err)
	_, err = svc.Advance(ctx, "packaging", "ORD-002", models.StatusPacking)
	require.NoError(t, err)

	_, err = svc.Advance(ctx, "kitchen", "ORD-002", models.StatusReadyForPack)
	assert.ErrorIs(t, err, models.ErrActionNotOffered)
	o, _ := store.FindOrder(st.Snapshot(), "ORD-002")
	assert.Equal(t, models.StatusPacking, o.Status)
}

func TestHandler_Advance(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	h.RegisterRoutes(e.Group(""))

	post := func(target, body string) int {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post("/stations/kitchen/orders/ORD-002/advance", `{"to":"READY_FOR_PACK"}`))
	assert.Equal(t, http.StatusConflict, post("/stations/kitchen/orders/ORD-002/advance", `{"to":"READY_FOR_PACK"}`))
	assert.Equal(t, http.StatusOK, post("/stations/packaging/orders/ORD-002/advance", `{"to":"PACKING"}`))
	assert.Equal(t, http.StatusNotFound, post("/stations/bar/orders/ORD-002/advance", `{"to":"PACKING"}`))
	assert.Equal(t, http.StatusBadRequest, post("/stations/kitchen/orders/ORD-001/advance", `{}`))

	req := httptest.NewRequest(http.MethodGet, "/stations/packaging", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"station":"packaging"`)
}
