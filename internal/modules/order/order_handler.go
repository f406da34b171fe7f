package order

import (
	"errors"
	"net/http"
	"strings"

	"delivery-ops/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate // For request body validation
}

// NewHandler creates a new order handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: models.NewValidator(),
	}
}

// RegisterRoutes mounts the order endpoints on g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/orders", h.ListOrders)
	g.POST("/orders", h.CreateOrder)
	g.GET("/orders/by-status", h.ListByStatus)
	g.GET("/orders/:orderId", h.GetOrderDetails)
	g.PUT("/orders/:orderId/status", h.UpdateStatus)
	g.GET("/orders/:orderId/history", h.GetHistory)
}

func (h *Handler) ListOrders(c echo.Context) error {
	cards, err := h.svc.ListOrders(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		c.Logger().Error("Handler.ListOrders: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve orders"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": cards, "total": len(cards)})
}

func (h *Handler) CreateOrder(c echo.Context) error {
	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	card, err := h.svc.CreateOrder(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, ErrNoDishes) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "At least one dish is required"})
		}
		c.Logger().Error("Handler.CreateOrder: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create order"})
	}

	return c.JSON(http.StatusCreated, card)
}

func (h *Handler) GetOrderDetails(c echo.Context) error {
	orderID := c.Param("orderId")

	card, err := h.svc.GetOrderDetails(c.Request().Context(), orderID)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Order not found"})
		}
		c.Logger().Error("Handler.GetOrderDetails: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve order details"})
	}

	return c.JSON(http.StatusOK, card)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	orderID := c.Param("orderId")

	var req models.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	card, err := h.svc.UpdateStatus(c.Request().Context(), orderID, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Order not found"})
		case errors.Is(err, models.ErrIllegalTransition):
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: err.Error()})
		case errors.Is(err, models.ErrInvalidStatus):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid status"})
		}
		c.Logger().Error("Handler.UpdateStatus: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update order status"})
	}

	return c.JSON(http.StatusOK, card)
}

func (h *Handler) GetHistory(c echo.Context) error {
	orderID := c.Param("orderId")

	history, err := h.svc.GetHistory(c.Request().Context(), orderID)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Order not found"})
		}
		c.Logger().Error("Handler.GetHistory: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve order history"})
	}

	return c.JSON(http.StatusOK, history)
}

// ListByStatus accepts ?status=A,B or repeated status parameters.
func (h *Handler) ListByStatus(c echo.Context) error {
	var statuses []models.OrderStatus
	for _, raw := range c.QueryParams()["status"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				statuses = append(statuses, models.OrderStatus(strings.ToUpper(part)))
			}
		}
	}
	if len(statuses) == 0 {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "At least one status is required"})
	}

	cards, err := h.svc.ListByStatus(c.Request().Context(), statuses)
	if err != nil {
		if errors.Is(err, models.ErrInvalidStatus) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.ListByStatus: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve orders"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"orders": cards, "total": len(cards)})
}
