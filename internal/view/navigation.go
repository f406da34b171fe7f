package view

import "delivery-ops/internal/models"

type navEntry struct {
	path  string
	key   string
	label models.Label
}

var (
	navDashboard       = navEntry{"/", "dashboard", models.Label{En: "Dashboard", He: "לוח בקרה"}}
	navOrders          = navEntry{"/orders", "orders", models.Label{En: "Orders", He: "הזמנות"}}
	navKitchen         = navEntry{"/kitchen", "kitchen", models.Label{En: "Kitchen", He: "מטבח"}}
	navPackaging       = navEntry{"/packaging", "packaging", models.Label{En: "Packaging", He: "אריזה"}}
	navDelivery        = navEntry{"/delivery", "delivery", models.Label{En: "Delivery", He: "משלוחים"}}
	navCustomerService = navEntry{"/customer-service", "customer_service", models.Label{En: "Customer Service", He: "שירות לקוחות"}}
	navReports         = navEntry{"/reports", "reports", models.Label{En: "Reports", He: "דוחות"}}
	navMyDeliveries    = navEntry{"/courier", "my_deliveries", models.Label{En: "My Deliveries", He: "המשלוחים שלי"}}
)

var roleNav = map[models.UserRole][]navEntry{
	models.RoleManager:         {navOrders, navKitchen, navPackaging, navDelivery, navCustomerService, navReports},
	models.RoleKitchen:         {navKitchen},
	models.RolePackaging:       {navPackaging},
	models.RoleCourier:         {navMyDeliveries},
	models.RoleCustomerService: {navCustomerService},
}

// Navigation returns the menu for role. Every role starts with the dashboard.
// The menu is a convenience only; pages are not guarded by role.
func Navigation(role models.UserRole, lang models.Language) []models.NavItem {
	entries := append([]navEntry{navDashboard}, roleNav[role]...)
	items := make([]models.NavItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, models.NavItem{Path: e.path, Key: e.key, Label: e.label.In(lang)})
	}
	return items
}

// Session describes the current session for the layout shell.
func Session(user *models.User, lang models.Language) models.SessionResponse {
	resp := models.SessionResponse{IsAuthenticated: user != nil, Language: lang}
	if user == nil {
		return resp
	}
	u := *user
	resp.User = &u
	resp.RoleLabel = models.RoleLabels[u.Role].In(lang)
	resp.Navigation = Navigation(u.Role, lang)
	return resp
}
