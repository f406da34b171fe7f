package models

// UserRole is the staff function of the signed-in user.
type UserRole string

const (
	RoleManager         UserRole = "MANAGER"
	RoleKitchen         UserRole = "KITCHEN"
	RolePackaging       UserRole = "PACKAGING"
	RoleCourier         UserRole = "COURIER"
	RoleCustomerService UserRole = "CUSTOMER_SERVICE"
)

// AllRoles lists the roles offered on the login screen.
var AllRoles = []UserRole{RoleManager, RoleKitchen, RolePackaging, RoleCourier, RoleCustomerService}

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case RoleManager, RoleKitchen, RolePackaging, RoleCourier, RoleCustomerService:
		return true
	default:
		return false
	}
}

// Language is the UI locale.
type Language string

const (
	LangEnglish Language = "en"
	LangHebrew  Language = "he"
)

func (l Language) IsValid() bool { return l == LangEnglish || l == LangHebrew }

// Toggle flips between the two supported locales.
func (l Language) Toggle() Language {
	if l == LangEnglish {
		return LangHebrew
	}
	return LangEnglish
}

// User is the currently signed-in staff member. Only one exists at a time.
type User struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Role UserRole `json:"role"`
}

// LoginRequest is the demo-mode sign in: a free-text name and a role.
type LoginRequest struct {
	Name string   `json:"name" validate:"required,notblank"`
	Role UserRole `json:"role" validate:"required,oneof=MANAGER KITCHEN PACKAGING COURIER CUSTOMER_SERVICE"`
}

// NavItem is one entry of the role-aware navigation shell.
type NavItem struct {
	Path  string `json:"path"`
	Key   string `json:"key"`
	Label string `json:"label"`
}

// SessionResponse describes the session as seen by the dashboard shell.
type SessionResponse struct {
	IsAuthenticated bool      `json:"is_authenticated"`
	User            *User     `json:"user,omitempty"`
	RoleLabel       string    `json:"role_label,omitempty"`
	Language        Language  `json:"language"`
	Navigation      []NavItem `json:"navigation,omitempty"`
}

// LoginResponse carries the session token next to the session view.
type LoginResponse struct {
	Token string `json:"token"`
	SessionResponse
}
