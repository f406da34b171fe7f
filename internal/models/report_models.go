package models

// EmailReportRequest names who receives the plain-text report summary.
type EmailReportRequest struct {
	To string `json:"to" validate:"required,email"`
}
