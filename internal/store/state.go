package store

import (
	"delivery-ops/internal/models"
)

// State is the whole application state. Reducers treat it as a value: they
// copy what they change and never write through slices of their input.
type State struct {
	Session      *models.User
	Orders       []models.Order
	Couriers     []models.Courier
	Language     models.Language
	NextOrderSeq int
}

// IsAuthenticated reports whether a session exists.
func (s State) IsAuthenticated() bool { return s.Session != nil }

// Clone deep-copies the state.
func (s State) Clone() State {
	cp := s
	if s.Session != nil {
		u := *s.Session
		cp.Session = &u
	}
	cp.Orders = make([]models.Order, len(s.Orders))
	for i, o := range s.Orders {
		cp.Orders[i] = o.Clone()
	}
	cp.Couriers = make([]models.Courier, len(s.Couriers))
	for i, c := range s.Couriers {
		cp.Couriers[i] = c.Clone()
	}
	return cp
}

// Policy decides whether the store consults the transition table.
type Policy int

const (
	// PolicyAdvisory accepts any target status. The table only drives which
	// actions stations offer.
	PolicyAdvisory Policy = iota
	// PolicyStrict rejects transitions the table does not list.
	PolicyStrict
)

// ChangeKind names the mutation that produced a new state.
type ChangeKind string

const (
	ChangeLogin         ChangeKind = "login"
	ChangeLogout        ChangeKind = "logout"
	ChangeOrderAdded    ChangeKind = "order_added"
	ChangeStatusUpdated ChangeKind = "status_updated"
	ChangeCourierAssign ChangeKind = "courier_assigned"
	ChangeLanguage      ChangeKind = "language_toggled"
)

// Change describes a successful mutation to subscribers.
type Change struct {
	Kind      ChangeKind
	OrderID   string
	From      models.OrderStatus
	To        models.OrderStatus
	CourierID string
	Actor     string
}

// Persistent reports whether the change touches the persisted subset.
func (c Change) Persistent() bool {
	return c.Kind != ChangeLogin && c.Kind != ChangeLogout
}
