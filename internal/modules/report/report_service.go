package report

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"delivery-ops/internal/models"
	"delivery-ops/internal/store"
	"delivery-ops/internal/view"
	"delivery-ops/pkg/mailer"
)

const recentLimit = 5

// StoreInterface is the read side of the store the summaries are built from.
type StoreInterface interface {
	Snapshot() store.State
	Now() time.Time
}

type ServiceInterface interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	Reports(ctx context.Context) (*Report, error)
	EmailReport(ctx context.Context, to string) error
}

// Dashboard is the landing page summary.
type Dashboard struct {
	Total          int                        `json:"total"`
	ByStatus       map[models.OrderStatus]int `json:"by_status"`
	Active         int                        `json:"active"`
	Delivered      int                        `json:"delivered"`
	ActiveCouriers int                        `json:"active_couriers"`
	BusyCouriers   int                        `json:"busy_couriers"`
	Late           int                        `json:"late"`
	AtRisk         int                        `json:"at_risk"`
	UrgentActive   int                        `json:"urgent_active"`
	Recent         []view.Card                `json:"recent"`
}

// CourierStat is one row of the courier performance table.
type CourierStat struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	IsActive       bool   `json:"is_active"`
	ActiveOrders   int    `json:"active_orders"`
	TotalDelivered int    `json:"total_delivered"`
}

// Report is the reports page.
type Report struct {
	GeneratedAt            time.Time                  `json:"generated_at"`
	TotalOrders            int                        `json:"total_orders"`
	DeliveredOrders        int                        `json:"delivered_orders"`
	ActiveOrders           int                        `json:"active_orders"`
	TodayOrders            int                        `json:"today_orders"`
	TotalRevenue           float64                    `json:"total_revenue"`
	TodayRevenue           float64                    `json:"today_revenue"`
	AverageOrderValue      float64                    `json:"average_order_value"`
	AverageDeliveryMinutes float64                    `json:"average_delivery_minutes"`
	DeliveryRate           float64                    `json:"delivery_rate"`
	LateOrders             int                        `json:"late_orders"`
	StatusDistribution     map[models.OrderStatus]int `json:"status_distribution"`
	PriorityDistribution   map[models.Priority]int    `json:"priority_distribution"`
	Couriers               []CourierStat              `json:"couriers"`
}

type Service struct {
	st           StoreInterface
	mail         mailer.ServiceInterface
	loc          *time.Location
	atRiskWindow time.Duration
}

// NewService builds the summaries. mail may be nil, in which case
// EmailReport fails with ErrMailDisabled.
func NewService(st StoreInterface, mail mailer.ServiceInterface, loc *time.Location, atRiskWindow time.Duration) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{st: st, mail: mail, loc: loc, atRiskWindow: atRiskWindow}
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	snap := s.st.Snapshot()
	now := s.st.Now()
	r := view.NewRenderer(snap.Language, now, s.atRiskWindow)

	d := &Dashboard{
		Total:    len(snap.Orders),
		ByStatus: store.CountByStatus(snap.Orders),
		Recent:   r.Cards(store.RecentOrders(snap.Orders, recentLimit)),
	}
	d.Delivered = d.ByStatus[models.StatusDelivered]
	d.Active = d.Total - d.Delivered
	for _, o := range snap.Orders {
		if o.IsLate(now) {
			d.Late++
		}
		if o.IsAtRisk(now, r.AtRiskWindow) {
			d.AtRisk++
		}
		if o.Priority == models.PriorityUrgent && o.Status != models.StatusDelivered {
			d.UrgentActive++
		}
	}
	for _, c := range snap.Couriers {
		if c.IsActive {
			d.ActiveCouriers++
		}
		if len(c.CurrentOrders) > 0 {
			d.BusyCouriers++
		}
	}
	return d, nil
}

func (s *Service) Reports(ctx context.Context) (*Report, error) {
	return buildReport(s.st.Snapshot(), s.st.Now(), s.loc), nil
}

func buildReport(snap store.State, now time.Time, loc *time.Location) *Report {
	local := now.In(loc)
	y, m, d := local.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)

	rep := &Report{
		GeneratedAt:          now,
		TotalOrders:          len(snap.Orders),
		StatusDistribution:   store.CountByStatus(snap.Orders),
		PriorityDistribution: make(map[models.Priority]int, len(models.AllPriorities)),
		Couriers:             make([]CourierStat, 0, len(snap.Couriers)),
	}
	for _, p := range models.AllPriorities {
		rep.PriorityDistribution[p] = 0
	}

	var deliveryMinutes float64
	var timed int
	deliveredBy := make(map[string]int)
	for _, o := range snap.Orders {
		rep.PriorityDistribution[o.Priority]++
		today := !o.CreatedAt.Before(midnight)
		if today {
			rep.TodayOrders++
		}
		if o.IsLate(now) {
			rep.LateOrders++
		}
		if o.Status != models.StatusDelivered {
			continue
		}
		rep.DeliveredOrders++
		rep.TotalRevenue += o.Price
		if today {
			rep.TodayRevenue += o.Price
		}
		if o.AssignedCourier != "" {
			deliveredBy[o.AssignedCourier]++
		}
		if at, ok := o.DeliveredAt(); ok && !at.Before(o.CreatedAt) {
			deliveryMinutes += at.Sub(o.CreatedAt).Minutes()
			timed++
		}
	}
	rep.ActiveOrders = rep.TotalOrders - rep.DeliveredOrders
	if rep.DeliveredOrders > 0 {
		rep.AverageOrderValue = round1(rep.TotalRevenue / float64(rep.DeliveredOrders))
	}
	if rep.TotalOrders > 0 {
		rep.DeliveryRate = round1(float64(rep.DeliveredOrders) / float64(rep.TotalOrders) * 100)
	}
	if timed > 0 {
		rep.AverageDeliveryMinutes = round1(deliveryMinutes / float64(timed))
	}

	for _, c := range snap.Couriers {
		rep.Couriers = append(rep.Couriers, CourierStat{
			ID:             c.ID,
			Name:           c.Name,
			IsActive:       c.IsActive,
			ActiveOrders:   len(c.CurrentOrders),
			TotalDelivered: deliveredBy[c.Name],
		})
	}
	return rep
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// EmailReport mails a plain-text rendition of the current report.
func (s *Service) EmailReport(ctx context.Context, to string) error {
	if s.mail == nil {
		return fmt.Errorf("service.EmailReport: %w", models.ErrMailDisabled)
	}
	rep := buildReport(s.st.Snapshot(), s.st.Now(), s.loc)
	subject := "Delivery report " + rep.GeneratedAt.In(s.loc).Format("2006-01-02 15:04")
	if err := s.mail.Send(ctx, to, subject, FormatText(rep)); err != nil {
		return fmt.Errorf("service.EmailReport: %w", err)
	}
	return nil
}

// FormatText renders rep as the body of the report mail.
func FormatText(rep *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Orders: %d total, %d delivered, %d active, %d today\n",
		rep.TotalOrders, rep.DeliveredOrders, rep.ActiveOrders, rep.TodayOrders)
	fmt.Fprintf(&b, "Revenue: %s total, %s today\n",
		view.FormatPrice(rep.TotalRevenue), view.FormatPrice(rep.TodayRevenue))
	fmt.Fprintf(&b, "Average order value: %s\n", view.FormatPrice(rep.AverageOrderValue))
	fmt.Fprintf(&b, "Average delivery time: %.1f min\n", rep.AverageDeliveryMinutes)
	fmt.Fprintf(&b, "Delivery rate: %.1f%%\n", rep.DeliveryRate)
	fmt.Fprintf(&b, "Late orders: %d\n", rep.LateOrders)

	b.WriteString("\nBy status:\n")
	for _, st := range models.AllStatuses {
		fmt.Fprintf(&b, "  %-15s %d\n", st, rep.StatusDistribution[st])
	}
	b.WriteString("\nBy priority:\n")
	for _, p := range models.AllPriorities {
		fmt.Fprintf(&b, "  %-15s %d\n", p, rep.PriorityDistribution[p])
	}
	b.WriteString("\nCouriers:\n")
	for _, c := range rep.Couriers {
		fmt.Fprintf(&b, "  %s: %d assigned, %d delivered\n", c.Name, c.ActiveOrders, c.TotalDelivered)
	}
	return b.String()
}
