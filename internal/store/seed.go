package store

import (
	"time"

	"delivery-ops/internal/models"
)

// SeedState is the demo roster and order list used when nothing is stored yet.
func SeedState(now time.Time) State {
	at := func(d time.Duration) time.Time { return now.Add(d) }
	eta := func(d time.Duration) *time.Time { t := now.Add(d); return &t }

	couriers := []models.Courier{
		{ID: "1", Name: "David Cohen", Phone: "054-1234567", IsActive: true, CurrentOrders: []string{}},
		{ID: "2", Name: "Sarah Levi", Phone: "054-2345678", IsActive: true, CurrentOrders: []string{}},
		{ID: "3", Name: "Michael Green", Phone: "054-3456789", IsActive: true, CurrentOrders: []string{}},
		{ID: "4", Name: "Rachel Ben-David", Phone: "054-4567890", IsActive: false, CurrentOrders: []string{}},
	}

	orders := []models.Order{
		{
			ID:                "ORD-001",
			CustomerName:      "John Doe",
			Phone:             "054-1111111",
			Address:           "Tel Aviv, Rothschild 1",
			Dishes:            []string{"Sushi Combo", "Miso Soup"},
			Price:             89,
			Status:            models.StatusReceived,
			Priority:          models.PriorityNormal,
			CreatedAt:         at(-30 * time.Minute),
			UpdatedAt:         at(-30 * time.Minute),
			EstimatedDelivery: eta(30 * time.Minute),
			History: []models.StatusChange{
				{Status: models.StatusReceived, At: at(-30 * time.Minute)},
			},
		},
		{
			ID:                "ORD-002",
			CustomerName:      "Jane Smith",
			Phone:             "054-2222222",
			Address:           "Jerusalem, King George 25",
			Dishes:            []string{"Ramen Bowl", "Gyoza", "Green Tea"},
			Price:             67,
			Status:            models.StatusInPrep,
			Priority:          models.PriorityUrgent,
			CreatedAt:         at(-45 * time.Minute),
			UpdatedAt:         at(-15 * time.Minute),
			EstimatedDelivery: eta(15 * time.Minute),
			History: []models.StatusChange{
				{Status: models.StatusReceived, At: at(-45 * time.Minute)},
				{Status: models.StatusInPrep, At: at(-15 * time.Minute)},
			},
		},
		{
			ID:                "ORD-003",
			CustomerName:      "Ahmed Hassan",
			Phone:             "054-3333333",
			Address:           "Haifa, Herzl 10",
			Dishes:            []string{"Bento Box", "Sake"},
			Price:             78,
			Status:            models.StatusPacked,
			Priority:          models.PriorityNormal,
			AssignedCourier:   "David Cohen",
			AssignedCourierID: "1",
			CreatedAt:         at(-60 * time.Minute),
			UpdatedAt:         at(-10 * time.Minute),
			EstimatedDelivery: eta(20 * time.Minute),
			History: []models.StatusChange{
				{Status: models.StatusReceived, At: at(-60 * time.Minute)},
				{Status: models.StatusPacked, At: at(-10 * time.Minute)},
			},
		},
	}

	return State{
		Orders:       orders,
		Couriers:     couriers,
		Language:     models.LangEnglish,
		NextOrderSeq: len(orders) + 1,
	}
}
