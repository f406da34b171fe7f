// Package view builds the read-side projections the dashboard renders:
// order cards, navigation and the per-page summaries.
package view

import (
	"strconv"
	"time"

	"delivery-ops/internal/models"
	"delivery-ops/internal/pipeline"
)

// DefaultAtRiskWindow is how close to its estimated delivery an order is
// flagged as at risk.
const DefaultAtRiskWindow = 15 * time.Minute

// Action is a button on an order card.
type Action struct {
	To    models.OrderStatus `json:"to"`
	Label string             `json:"label"`
}

// Card is an order as shown on a board.
type Card struct {
	models.Order
	StatusLabel   string   `json:"status_label"`
	PriorityLabel string   `json:"priority_label"`
	PriceText     string   `json:"price_text"`
	Age           string   `json:"age"`
	ETAText       string   `json:"eta_text,omitempty"`
	Late          bool     `json:"late"`
	AtRisk        bool     `json:"at_risk"`
	Actions       []Action `json:"actions"`
	Assignable    bool     `json:"assignable,omitempty"`
}

// Renderer carries what every projection needs from the request: the UI
// language and the clock reading the lateness flags are computed against.
type Renderer struct {
	Lang         models.Language
	Now          time.Time
	AtRiskWindow time.Duration
}

func NewRenderer(lang models.Language, now time.Time, window time.Duration) Renderer {
	if window <= 0 {
		window = DefaultAtRiskWindow
	}
	return Renderer{Lang: lang, Now: now, AtRiskWindow: window}
}

// Card projects o with the given offered actions.
func (r Renderer) Card(o models.Order, offered []models.OrderStatus) Card {
	c := Card{
		Order:         o,
		StatusLabel:   models.StatusLabels[o.Status].In(r.Lang),
		PriorityLabel: models.PriorityLabels[o.Priority].In(r.Lang),
		PriceText:     FormatPrice(o.Price),
		Age:           Relative(o.CreatedAt, r.Now),
		Late:          o.IsLate(r.Now),
		AtRisk:        o.IsAtRisk(r.Now, r.AtRiskWindow),
		Actions:       []Action{},
	}
	if o.EstimatedDelivery != nil {
		c.ETAText = Relative(*o.EstimatedDelivery, r.Now)
	}
	for _, to := range offered {
		c.Actions = append(c.Actions, Action{To: to, Label: models.ActionLabels[to].In(r.Lang)})
	}
	return c
}

// Cards projects orders with no actions.
func (r Renderer) Cards(orders []models.Order) []Card {
	out := make([]Card, 0, len(orders))
	for _, o := range orders {
		out = append(out, r.Card(o, nil))
	}
	return out
}

// StationCards projects orders with the actions st offers for each.
func (r Renderer) StationCards(st pipeline.Station, orders []models.Order) []Card {
	out := make([]Card, 0, len(orders))
	for _, o := range orders {
		c := r.Card(o, st.Offered(o.Status))
		c.Assignable = st.Assigns && o.Status == models.StatusPacked
		out = append(out, c)
	}
	return out
}

// FormatPrice renders a price in shekels with no fixed decimals, e.g. ₪89 or ₪12.5.
func FormatPrice(price float64) string {
	return "₪" + strconv.FormatFloat(price, 'f', -1, 64)
}
