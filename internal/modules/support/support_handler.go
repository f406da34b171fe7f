package support

import (
	"net/http"

	"delivery-ops/internal/models"

	"github.com/labstack/echo/v4"
)

// Handler serves the customer service page.
type Handler struct {
	svc ServiceInterface
}

func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/support", h.GetOverview)
}

func (h *Handler) GetOverview(c echo.Context) error {
	overview, err := h.svc.Overview(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		c.Logger().Error("Handler.GetOverview: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load support overview"})
	}
	return c.JSON(http.StatusOK, overview)
}
