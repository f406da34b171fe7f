package station

import (
	"errors"
	"net/http"

	"delivery-ops/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler serves the kitchen, packaging and delivery boards.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc, validate: models.NewValidator()}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/stations/:station", h.GetBoard)
	g.POST("/stations/:station/orders/:orderId/advance", h.Advance)
}

func (h *Handler) GetBoard(c echo.Context) error {
	board, err := h.svc.Board(c.Request().Context(), c.Param("station"))
	if err != nil {
		if errors.Is(err, models.ErrUnknownStation) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Station not found"})
		}
		c.Logger().Error("Handler.GetBoard: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load station"})
	}
	return c.JSON(http.StatusOK, board)
}

func (h *Handler) Advance(c echo.Context) error {
	var req models.AdvanceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	card, err := h.svc.Advance(c.Request().Context(), c.Param("station"), c.Param("orderId"), req.To)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnknownStation):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Station not found"})
		case errors.Is(err, models.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Order not found"})
		case errors.Is(err, models.ErrActionNotOffered), errors.Is(err, models.ErrIllegalTransition):
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.Advance: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update order"})
	}
	return c.JSON(http.StatusOK, card)
}
