package support

import (
	"context"
	"strings"
	"time"

	"delivery-ops/internal/models"
	"delivery-ops/internal/store"
	"delivery-ops/internal/view"
)

const (
	recentLimit = 5
	urgentLimit = 5
)

// StoreInterface is the read side of the store the support desk uses.
type StoreInterface interface {
	Snapshot() store.State
	Now() time.Time
}

type ServiceInterface interface {
	Overview(ctx context.Context, query string) (*Overview, error)
}

// Stats are the three counters at the top of the support page.
type Stats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	UrgentActive int `json:"urgent_active"`
}

// Overview is the support page. Results stay empty until a non-blank
// query is given; Searched tells the two cases apart.
type Overview struct {
	Stats    Stats       `json:"stats"`
	Query    string      `json:"query"`
	Searched bool        `json:"searched"`
	Results  []view.Card `json:"results"`
	Recent   []view.Card `json:"recent"`
	Urgent   []view.Card `json:"urgent"`
}

type Service struct {
	st           StoreInterface
	atRiskWindow time.Duration
}

func NewService(st StoreInterface, atRiskWindow time.Duration) *Service {
	return &Service{st: st, atRiskWindow: atRiskWindow}
}

func (s *Service) Overview(ctx context.Context, query string) (*Overview, error) {
	snap := s.st.Snapshot()
	r := view.NewRenderer(snap.Language, s.st.Now(), s.atRiskWindow)

	active := store.Filter(snap.Orders, func(o models.Order) bool { return o.Status != models.StatusDelivered })
	urgent := store.Filter(active, func(o models.Order) bool { return o.Priority == models.PriorityUrgent })

	out := &Overview{
		Stats: Stats{
			Total:        len(snap.Orders),
			Active:       len(active),
			UrgentActive: len(urgent),
		},
		Query:   query,
		Results: []view.Card{},
		Recent:  r.Cards(store.RecentOrders(snap.Orders, recentLimit)),
	}
	if len(urgent) > urgentLimit {
		urgent = urgent[:urgentLimit]
	}
	out.Urgent = r.Cards(urgent)

	if strings.TrimSpace(query) != "" {
		out.Searched = true
		out.Results = r.Cards(store.Search(snap.Orders, query))
	}
	return out, nil
}
