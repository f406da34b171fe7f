package courier

import (
	"errors"
	"net/http"

	"delivery-ops/internal/auth"
	"delivery-ops/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc, validate: models.NewValidator()}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/my/deliveries", h.MyDeliveries)
	g.POST("/my/deliveries/:orderId/advance", h.Advance)
}

func (h *Handler) MyDeliveries(c echo.Context) error {
	name, _ := c.Get(auth.CtxUserName).(string)

	board, err := h.svc.MyDeliveries(c.Request().Context(), name)
	if err != nil {
		c.Logger().Error("Handler.MyDeliveries: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load deliveries"})
	}
	return c.JSON(http.StatusOK, board)
}

func (h *Handler) Advance(c echo.Context) error {
	name, _ := c.Get(auth.CtxUserName).(string)

	var req models.AdvanceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	card, err := h.svc.Advance(c.Request().Context(), name, c.Param("orderId"), req.To)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Order not found"})
		case errors.Is(err, models.ErrActionNotOffered), errors.Is(err, models.ErrIllegalTransition):
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.Advance: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update delivery"})
	}
	return c.JSON(http.StatusOK, card)
}
