package handlers

import (
	"net/http"

	"github.com/devarko/thunderstorm/backend/internal/models"
	"github.com/devarko/thunderstorm/backend/internal/repositories"
	"github.com/devarko/thunderstorm/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	accounts *services.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// RegisterAuthRoutes registers the unauthenticated account routes.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

// Register handles user registration. Responds 201 with the new user and a token.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, token, err := h.accounts.Register(c.Request().Context(), req)
	if err != nil {
		switch err {
		case services.ErrEmailTaken, services.ErrUsernameTaken:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Error creating new user")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"user": user, "token": token})
}

// Login handles user authentication with email and password.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, token, err := h.accounts.Login(c.Request().Context(), req)
	if err != nil {
		switch err {
		case repositories.ErrUserNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		case services.ErrInvalidCredentials:
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Error logging in")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user, "token": token})
}
