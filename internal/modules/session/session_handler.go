package session

import (
	"errors"
	"net/http"

	"delivery-ops/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler serves sign in, sign out and the layout shell.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc, validate: models.NewValidator()}
}

// RegisterPublicRoutes mounts the endpoints usable without a token.
func (h *Handler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/session/login", h.Login)
	g.GET("/session/state", h.State)
	g.POST("/language/toggle", h.ToggleLanguage)
}

// RegisterRoutes mounts the endpoints behind the session check.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/session/logout", h.Logout)
	g.GET("/session", h.State)
	g.GET("/navigation", h.Navigation)
}

func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	resp, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidRole) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Unknown role"})
		}
		c.Logger().Error("Handler.Login: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to sign in"})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.svc.Logout(c.Request().Context()); err != nil {
		c.Logger().Error("Handler.Logout: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to sign out"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) State(c echo.Context) error {
	resp, err := h.svc.Current(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.State: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load session"})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Navigation(c echo.Context) error {
	items, err := h.svc.Navigation(c.Request().Context())
	if err != nil {
		if errors.Is(err, models.ErrNotAuthenticated) {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Not signed in"})
		}
		c.Logger().Error("Handler.Navigation: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load navigation"})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ToggleLanguage(c echo.Context) error {
	resp, err := h.svc.ToggleLanguage(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.ToggleLanguage: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to switch language"})
	}
	return c.JSON(http.StatusOK, resp)
}
