package store

import (
	"encoding/json"
	"fmt"
	"time"

	"delivery-ops/internal/models"
)

// StorageKey is the fixed name the snapshot is stored under.
const StorageKey = "kampai-delivery-storage"

// SchemaVersion is the version written by EncodeSnapshot.
const SchemaVersion = 1

// snapshot is the persisted subset of State. The session is never stored, so
// a restart always comes back signed out.
type snapshot struct {
	Version      int              `json:"version"`
	Orders       []models.Order   `json:"orders"`
	Couriers     []models.Courier `json:"couriers"`
	Language     models.Language  `json:"language"`
	NextOrderSeq int              `json:"next_order_seq"`
}

// EncodeSnapshot serializes the persisted subset of s.
func EncodeSnapshot(s State) ([]byte, error) {
	snap := snapshot{
		Version:      SchemaVersion,
		Orders:       s.Orders,
		Couriers:     s.Couriers,
		Language:     s.Language,
		NextOrderSeq: s.NextOrderSeq,
	}
	if snap.Orders == nil {
		snap.Orders = []models.Order{}
	}
	if snap.Couriers == nil {
		snap.Couriers = []models.Courier{}
	}
	return json.MarshalIndent(snap, "", "  ")
}

// DecodeSnapshot parses a stored snapshot of any known version, migrating
// older layouts to the current one.
func DecodeSnapshot(data []byte) (State, int, error) {
	var probe struct {
		Version *int            `json:"version"`
		State   json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return State{}, 0, fmt.Errorf("decode snapshot: %w", err)
	}

	switch {
	case len(probe.State) > 0:
		// Envelope written by the browser dashboard: {"state": {...}, "version": 0}.
		st, err := migrateLegacy(probe.State)
		return st, 0, err
	case probe.Version == nil || *probe.Version == 0:
		st, err := migrateLegacy(data)
		return st, 0, err
	case *probe.Version == SchemaVersion:
		var snap snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return State{}, SchemaVersion, fmt.Errorf("decode snapshot v%d: %w", SchemaVersion, err)
		}
		return fromSnapshot(snap), SchemaVersion, nil
	default:
		return State{}, *probe.Version, fmt.Errorf("%w: %d", models.ErrUnsupportedSnapshot, *probe.Version)
	}
}

func fromSnapshot(snap snapshot) State {
	st := State{
		Orders:       snap.Orders,
		Couriers:     snap.Couriers,
		Language:     snap.Language,
		NextOrderSeq: snap.NextOrderSeq,
	}
	if st.Orders == nil {
		st.Orders = []models.Order{}
	}
	for i := range st.Couriers {
		if st.Couriers[i].CurrentOrders == nil {
			st.Couriers[i].CurrentOrders = []string{}
		}
	}
	if !st.Language.IsValid() {
		st.Language = models.LangEnglish
	}
	if floor := nextSeqAfter(st.Orders); st.NextOrderSeq < floor {
		st.NextOrderSeq = floor
	}
	return st
}

type legacyOrder struct {
	ID                string             `json:"id"`
	CustomerName      string             `json:"customerName"`
	Phone             string             `json:"phone"`
	Address           string             `json:"address"`
	Notes             string             `json:"notes"`
	Dishes            []string           `json:"dishes"`
	Price             float64            `json:"price"`
	Status            models.OrderStatus `json:"status"`
	Priority          models.Priority    `json:"priority"`
	AssignedCourier   string             `json:"assignedCourier"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
	EstimatedDelivery *time.Time         `json:"estimatedDelivery"`
}

type legacyCourier struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Phone         string   `json:"phone"`
	IsActive      bool     `json:"isActive"`
	CurrentOrders []string `json:"currentOrders"`
}

type legacyState struct {
	Orders   []legacyOrder   `json:"orders"`
	Couriers []legacyCourier `json:"couriers"`
	Language models.Language `json:"language"`
}

// migrateLegacy converts the unversioned camelCase layout, which must carry
// at least one of orders or couriers. Courier ids are
// resolved from the stored names and the id sequence resumes after the
// highest existing order id.
func migrateLegacy(raw []byte) (State, error) {
	var ls legacyState
	if err := json.Unmarshal(raw, &ls); err != nil {
		return State{}, fmt.Errorf("decode legacy snapshot: %w", err)
	}
	if ls.Orders == nil && ls.Couriers == nil {
		return State{}, fmt.Errorf("%w: no orders or couriers", models.ErrUnsupportedSnapshot)
	}

	couriers := make([]models.Courier, 0, len(ls.Couriers))
	for _, c := range ls.Couriers {
		current := c.CurrentOrders
		if current == nil {
			current = []string{}
		}
		couriers = append(couriers, models.Courier{
			ID:            c.ID,
			Name:          c.Name,
			Phone:         c.Phone,
			IsActive:      c.IsActive,
			CurrentOrders: current,
		})
	}

	orders := make([]models.Order, 0, len(ls.Orders))
	for _, o := range ls.Orders {
		status := o.Status
		if !status.IsValid() {
			status = models.StatusReceived
		}
		priority := o.Priority
		if !priority.IsValid() {
			priority = models.PriorityNormal
		}
		history := []models.StatusChange{{Status: models.StatusReceived, At: o.CreatedAt}}
		if status != models.StatusReceived {
			history = append(history, models.StatusChange{Status: status, At: o.UpdatedAt})
		}
		order := models.Order{
			ID:                o.ID,
			CustomerName:      o.CustomerName,
			Phone:             o.Phone,
			Address:           o.Address,
			Notes:             o.Notes,
			Dishes:            o.Dishes,
			Price:             o.Price,
			Status:            status,
			Priority:          priority,
			AssignedCourier:   o.AssignedCourier,
			CreatedAt:         o.CreatedAt,
			UpdatedAt:         o.UpdatedAt,
			EstimatedDelivery: o.EstimatedDelivery,
			History:           history,
		}
		if order.Dishes == nil {
			order.Dishes = []string{}
		}
		if o.AssignedCourier != "" {
			order.AssignedCourierID = courierIDByName(couriers, o.AssignedCourier)
		}
		orders = append(orders, order)
	}

	return fromSnapshot(snapshot{
		Version:  SchemaVersion,
		Orders:   orders,
		Couriers: couriers,
		Language: ls.Language,
	}), nil
}
