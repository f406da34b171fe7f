package models

// Label is a string in both UI languages.
type Label struct {
	En string `json:"en"`
	He string `json:"he"`
}

// In returns the label for lang, falling back to English.
func (l Label) In(lang Language) string {
	if lang == LangHebrew && l.He != "" {
		return l.He
	}
	return l.En
}

var StatusLabels = map[OrderStatus]Label{
	StatusReceived:     {En: "Received", He: "התקבל"},
	StatusInPrep:       {En: "In Preparation", He: "בהכנה"},
	StatusReadyForPack: {En: "Ready for Packing", He: "מוכן לאריזה"},
	StatusPacking:      {En: "Packing", He: "נארז"},
	StatusPacked:       {En: "Packed", He: "ארוז"},
	StatusAssigned:     {En: "Assigned", He: "הוקצה"},
	StatusOnTheWay:     {En: "On the Way", He: "בדרך"},
	StatusDelivered:    {En: "Delivered", He: "נמסר"},
}

// ActionLabels name the button that moves an order into the keyed status.
var ActionLabels = map[OrderStatus]Label{
	StatusReceived:     {En: "Received", He: "התקבל"},
	StatusInPrep:       {En: "Start Prep", He: "התחל הכנה"},
	StatusReadyForPack: {En: "Ready to Pack", He: "מוכן לאריזה"},
	StatusPacking:      {En: "Start Packing", He: "התחל אריזה"},
	StatusPacked:       {En: "Mark Packed", He: "סמן כארוז"},
	StatusAssigned:     {En: "Assign Courier", He: "הקצה שליח"},
	StatusOnTheWay:     {En: "On the Way", He: "בדרך"},
	StatusDelivered:    {En: "Mark Delivered", He: "סמן כנמסר"},
}

var RoleLabels = map[UserRole]Label{
	RoleManager:         {En: "Manager", He: "מנהל"},
	RoleKitchen:         {En: "Kitchen", He: "מטבח"},
	RolePackaging:       {En: "Packaging", He: "אריזה"},
	RoleCourier:         {En: "Courier", He: "שליח"},
	RoleCustomerService: {En: "Customer Service", He: "שירות לקוחות"},
}

var PriorityLabels = map[Priority]Label{
	PriorityUrgent: {En: "Urgent", He: "דחוף"},
	PriorityNormal: {En: "Normal", He: "רגיל"},
	PriorityLow:    {En: "Low", He: "נמוך"},
}
