package report

import (
	"errors"
	"net/http"

	"delivery-ops/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler serves the dashboard and reports pages.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc, validate: models.NewValidator()}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard", h.GetDashboard)
	g.GET("/reports", h.GetReports)
	g.POST("/reports/email", h.EmailReport)
}

func (h *Handler) GetDashboard(c echo.Context) error {
	d, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.GetDashboard: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load dashboard"})
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) GetReports(c echo.Context) error {
	rep, err := h.svc.Reports(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.GetReports: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to build report"})
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) EmailReport(c echo.Context) error {
	var req models.EmailReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	if err := h.svc.EmailReport(c.Request().Context(), req.To); err != nil {
		if errors.Is(err, models.ErrMailDisabled) {
			return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Message: "Report mail is not configured"})
		}
		c.Logger().Error("Handler.EmailReport: ", err)
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{Message: "Failed to send report"})
	}
	return c.NoContent(http.StatusAccepted)
}
