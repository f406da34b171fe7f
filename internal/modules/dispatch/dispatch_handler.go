package dispatch

import (
	"errors"
	"net/http"

	"delivery-ops/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler serves the delivery desk.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc, validate: models.NewValidator()}
}

// RegisterRoutes mounts the delivery desk on g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/dispatch", h.GetBoard)
	g.POST("/dispatch/orders/:orderId/assign", h.AssignOrder)
	g.GET("/couriers", h.ListCouriers)
	g.GET("/couriers/:courierId/orders", h.CourierOrders)
}

func (h *Handler) GetBoard(c echo.Context) error {
	board, err := h.svc.Board(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.GetBoard: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "failed to load delivery board"})
	}
	return c.JSON(http.StatusOK, board)
}

func (h *Handler) ListCouriers(c echo.Context) error {
	couriers, err := h.svc.ListCouriers(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.ListCouriers: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "failed to list couriers"})
	}
	return c.JSON(http.StatusOK, couriers)
}

func (h *Handler) CourierOrders(c echo.Context) error {
	cards, err := h.svc.CourierOrders(c.Request().Context(), c.Param("courierId"))
	if err != nil {
		if errors.Is(err, models.ErrCourierNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "courier not found"})
		}
		c.Logger().Error("Handler.CourierOrders: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "failed to list courier orders"})
	}
	return c.JSON(http.StatusOK, cards)
}

// AssignOrder hands a packed order to the courier named in the body.
func (h *Handler) AssignOrder(c echo.Context) error {
	orderID := c.Param("orderId")

	var req models.AssignCourierRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	card, err := h.svc.AssignOrder(c.Request().Context(), orderID, req.CourierID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrCourierNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "courier not found"})
		case errors.Is(err, models.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "order not found"})
		case errors.Is(err, models.ErrIllegalTransition):
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.AssignOrder: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "failed to assign order"})
	}
	return c.JSON(http.StatusOK, card)
}
