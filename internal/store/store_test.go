package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"delivery-ops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestStore(opts ...Option) *Store {
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "user-1" }),
	}, opts...)
	return New(SeedState(fixedNow.Add(-time.Minute)), opts...)
}

func TestOrdersByStatus_OnlyMatching(t *testing.T) {
	s := SeedState(fixedNow)

	for _, st := range models.AllStatuses {
		for _, o := range OrdersByStatus(s, st) {
			assert.Equal(t, st, o.Status)
		}
	}
	got := OrdersByStatus(s, models.StatusReceived, models.StatusPacked)
	require.Len(t, got, 2)
	assert.Equal(t, "ORD-001", got[0].ID)
	assert.Equal(t, "ORD-003", got[1].ID)
}

func TestAssignCourier(t *testing.T) {
	st := newTestStore()

	order, err := st.AssignCourier("ORD-001", "2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, order.Status)
	assert.Equal(t, "Sarah Levi", order.AssignedCourier)
	assert.Equal(t, "2", order.AssignedCourierID)

	// a second assignment of the same pair must not duplicate the id
	_, err = st.AssignCourier("ORD-001", "2")
	require.NoError(t, err)

	courier, ok := FindCourier(st.Snapshot(), "2")
	require.True(t, ok)
	count := 0
	for _, id := range courier.CurrentOrders {
		if id == "ORD-001" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAssignCourier_UnknownSideLeavesStateUnchanged(t *testing.T) {
	st := newTestStore()
	before := st.Snapshot()

	_, err := st.AssignCourier("ORD-001", "99")
	assert.ErrorIs(t, err, models.ErrCourierNotFound)
	_, err = st.AssignCourier("ORD-999", "1")
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	assert.Equal(t, before, st.Snapshot())
}

func TestAssignCourier_InactiveCourierAccepted(t *testing.T) {
	st := newTestStore()

	order, err := st.AssignCourier("ORD-003", "4")
	require.NoError(t, err)
	assert.Equal(t, "Rachel Ben-David", order.AssignedCourier)
}

func TestUpdateOrderStatus_AdvisoryAcceptsAnyTarget(t *testing.T) {
	st := newTestStore()
	before, _ := FindOrder(st.Snapshot(), "ORD-001")

	order, err := st.UpdateOrderStatus("ORD-001", models.StatusDelivered, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, order.Status)
	assert.True(t, order.UpdatedAt.After(before.UpdatedAt))
	assert.Len(t, order.History, len(before.History)+1)
}

func TestUpdateOrderStatus_StampsCourierName(t *testing.T) {
	st := newTestStore()

	order, err := st.UpdateOrderStatus("ORD-002", models.StatusAssigned, "Michael Green")
	require.NoError(t, err)
	assert.Equal(t, "Michael Green", order.AssignedCourier)
	assert.Equal(t, "3", order.AssignedCourierID)

	order, err = st.UpdateOrderStatus("ORD-001", models.StatusAssigned, "Nobody")
	require.NoError(t, err)
	assert.Equal(t, "Nobody", order.AssignedCourier)
	assert.Empty(t, order.AssignedCourierID)
}

func TestUpdateOrderStatus_Errors(t *testing.T) {
	st := newTestStore()
	before := st.Snapshot()

	_, err := st.UpdateOrderStatus("ORD-404", models.StatusPacked, "")
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
	_, err = st.UpdateOrderStatus("ORD-001", models.OrderStatus("COOKED"), "")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	assert.Equal(t, before, st.Snapshot())
}

func TestStrictPolicy(t *testing.T) {
	st := newTestStore(WithPolicy(PolicyStrict))
	before := st.Snapshot()

	_, err := st.UpdateOrderStatus("ORD-001", models.StatusDelivered, "")
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
	_, err = st.AssignCourier("ORD-001", "1")
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
	assert.Equal(t, before, st.Snapshot())

	order, err := st.UpdateOrderStatus("ORD-001", models.StatusInPrep, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInPrep, order.Status)

	order, err = st.AssignCourier("ORD-003", "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, order.Status)
}

func TestAddOrder(t *testing.T) {
	st := newTestStore()
	existing := map[string]bool{}
	for _, o := range st.Snapshot().Orders {
		existing[o.ID] = true
	}

	order := st.AddOrder(models.CreateOrderRequest{
		CustomerName: "Jane",
		Phone:        "050",
		Address:      "X",
		Dishes:       "A, B",
		Price:        ptr(50.0),
	}.Draft())

	assert.Equal(t, models.StatusReceived, order.Status)
	assert.Equal(t, []string{"A", "B"}, order.Dishes)
	assert.Equal(t, 50.0, order.Price)
	assert.Equal(t, models.PriorityNormal, order.Priority)
	assert.False(t, existing[order.ID])
	assert.Equal(t, "ORD-004", order.ID)
	require.NotNil(t, order.EstimatedDelivery)
	assert.Equal(t, fixedNow.Add(DefaultETA), *order.EstimatedDelivery)
	assert.Equal(t, fixedNow, order.CreatedAt)
}

func TestAddOrder_IDSkipsTakenSuffix(t *testing.T) {
	seed := SeedState(fixedNow)
	seed.Orders[2].ID = "ORD-007"
	seed.NextOrderSeq = 2
	st := New(seed, WithClock(func() time.Time { return fixedNow }))

	first := st.AddOrder(models.OrderDraft{CustomerName: "a"})
	second := st.AddOrder(models.OrderDraft{CustomerName: "b"})
	assert.Equal(t, "ORD-008", first.ID)
	assert.Equal(t, "ORD-009", second.ID)
}

func TestAddOrder_Concurrent(t *testing.T) {
	st := newTestStore()
	start := st.Snapshot().NextOrderSeq

	const n = 50
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = st.AddOrder(models.OrderDraft{CustomerName: fmt.Sprintf("c%d", i)}).ID
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	snap := st.Snapshot()
	assert.Len(t, snap.Orders, 3+n)
	assert.Equal(t, start+n, snap.NextOrderSeq)
}

func TestAdvanceOrder_CheckSeesCurrentStatus(t *testing.T) {
	st := newTestStore()
	from := models.StatusInPrep
	onlyFrom := func(o models.Order) error {
		if o.Status != from {
			return models.ErrActionNotOffered
		}
		return nil
	}

	const n = 10
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = st.AdvanceOrder("ORD-002", models.StatusReadyForPack, onlyFrom)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, models.ErrActionNotOffered)
	}
	assert.Equal(t, 1, succeeded)

	order, ok := FindOrder(st.Snapshot(), "ORD-002")
	require.True(t, ok)
	assert.Equal(t, models.StatusReadyForPack, order.Status)
	assert.Len(t, order.History, 3)
}

func TestAdvanceOrder_RejectedLeavesStateUnchanged(t *testing.T) {
	st := newTestStore()
	before := st.Snapshot()
	var notified int
	st.Subscribe(func(Change, State) { notified++ })

	_, err := st.AdvanceOrder("ORD-001", models.StatusInPrep, func(models.Order) error {
		return models.ErrActionNotOffered
	})
	assert.ErrorIs(t, err, models.ErrActionNotOffered)
	_, err = st.AdvanceOrder("ORD-404", models.StatusInPrep, nil)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	assert.Equal(t, before, st.Snapshot())
	assert.Zero(t, notified)

	order, err := st.AdvanceOrder("ORD-001", models.StatusInPrep, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInPrep, order.Status)
	assert.Equal(t, 1, notified)
}

func TestToggleLanguage_Twice(t *testing.T) {
	st := newTestStore()
	start := st.Snapshot().Language

	assert.Equal(t, models.LangHebrew, st.ToggleLanguage())
	assert.Equal(t, start, st.ToggleLanguage())
}

func TestSearch_Phone(t *testing.T) {
	s := SeedState(fixedNow)
	s.Orders = append(s.Orders, models.Order{ID: "ORD-010", CustomerName: "Dana", Phone: "050-9999999", Address: "Eilat"})

	got := Search(s.Orders, "054")
	require.Len(t, got, 3)
	for _, o := range got {
		assert.Contains(t, o.Phone, "054")
	}
	assert.Len(t, Search(s.Orders, "  "), 4)
	assert.Len(t, Search(s.Orders, "haifa"), 1)
	assert.Len(t, Search(s.Orders, "ord-00"), 3)
}

func TestLoginLogout(t *testing.T) {
	st := newTestStore()

	user, err := st.Login("Alice", models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "user-1", user.ID)
	assert.True(t, st.Snapshot().IsAuthenticated())

	st.Logout()
	snap := st.Snapshot()
	assert.False(t, snap.IsAuthenticated())
	assert.Nil(t, snap.Session)

	_, err = st.Login("Bob", models.UserRole("ADMIN"))
	assert.ErrorIs(t, err, models.ErrInvalidRole)
}

func TestHistoryRecordsActor(t *testing.T) {
	st := newTestStore()
	_, err := st.Login("Chef", models.RoleKitchen)
	require.NoError(t, err)

	order, err := st.UpdateOrderStatus("ORD-001", models.StatusInPrep, "")
	require.NoError(t, err)
	last := order.History[len(order.History)-1]
	assert.Equal(t, models.StatusInPrep, last.Status)
	assert.Equal(t, "Chef", last.By)
	assert.Equal(t, fixedNow, last.At)
}

func TestSubscribersSeeEveryChange(t *testing.T) {
	st := newTestStore()
	var kinds []ChangeKind
	st.Subscribe(func(c Change, s State) { kinds = append(kinds, c.Kind) })

	_, _ = st.Login("A", models.RoleManager)
	st.AddOrder(models.OrderDraft{CustomerName: "x"})
	_, _ = st.UpdateOrderStatus("ORD-001", models.StatusInPrep, "")
	_, _ = st.UpdateOrderStatus("missing", models.StatusInPrep, "")
	_, _ = st.AssignCourier("ORD-003", "1")
	st.ToggleLanguage()
	st.Logout()

	assert.Equal(t, []ChangeKind{
		ChangeLogin, ChangeOrderAdded, ChangeStatusUpdated,
		ChangeCourierAssign, ChangeLanguage, ChangeLogout,
	}, kinds)
}

func TestSnapshotIsDetached(t *testing.T) {
	st := newTestStore()
	snap := st.Snapshot()
	snap.Orders[0].Dishes[0] = "changed"
	snap.Couriers[0].CurrentOrders = append(snap.Couriers[0].CurrentOrders, "ORD-X")

	fresh := st.Snapshot()
	assert.Equal(t, "Sushi Combo", fresh.Orders[0].Dishes[0])
	assert.Empty(t, fresh.Couriers[0].CurrentOrders)
}

func TestReducersDoNotMutateInput(t *testing.T) {
	s := SeedState(fixedNow)
	orig := s.Clone()

	_, _, err := AssignCourier(s, "ORD-003", "1", "", fixedNow, PolicyAdvisory)
	require.NoError(t, err)
	_, _, err = UpdateOrderStatus(s, "ORD-001", models.StatusDelivered, "David Cohen", "", fixedNow, PolicyAdvisory)
	require.NoError(t, err)
	AddOrder(s, models.OrderDraft{}, "", fixedNow, DefaultETA)

	assert.Equal(t, orig, s)
}

func TestRecentOrders(t *testing.T) {
	s := SeedState(fixedNow)
	got := RecentOrders(s.Orders, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "ORD-001", got[0].ID)
	assert.Equal(t, "ORD-002", got[1].ID)
	assert.Equal(t, "ORD-001", s.Orders[0].ID)
}

func TestOrdersForCourier(t *testing.T) {
	s := SeedState(fixedNow)
	assert.Len(t, OrdersForCourier(s, "David Cohen"), 1)
	assert.Empty(t, OrdersForCourier(s, "david cohen"))
	assert.Len(t, OrdersForCourierID(s, "1"), 1)
}

func TestErrorsAreSentinels(t *testing.T) {
	s := SeedState(fixedNow)
	_, _, err := UpdateOrderStatus(s, "ORD-001", models.StatusDelivered, "", "", fixedNow, PolicyStrict)
	assert.True(t, errors.Is(err, models.ErrIllegalTransition))
}

func ptr[T any](v T) *T { return &v }
