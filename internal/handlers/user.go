package handlers

import (
	"net/http"
	"strconv"

	"github.com/devarko/thunderstorm/backend/internal/middleware"
	"github.com/devarko/thunderstorm/backend/internal/models"
	"github.com/devarko/thunderstorm/backend/internal/repositories"
	"github.com/devarko/thunderstorm/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile and follower-graph HTTP requests.
type UserHandler struct {
	accounts *services.AccountService
	graph    *services.GraphService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(accounts *services.AccountService, graph *services.GraphService) *UserHandler {
	return &UserHandler{accounts: accounts, graph: graph}
}

// RegisterProtectedRoutes registers the routes that require a valid token.
func (h *UserHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.POST("/follow/:user_id", h.Follow)
	g.POST("/unfollow/:user_id", h.Unfollow)
}

// RegisterPublicRoutes registers the deliberately unauthenticated listings.
func (h *UserHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/followers/:user_id", h.ListFollowers)
	g.GET("/following/:user_id", h.ListFollowing)
}

// GetProfile retrieves the authenticated user's profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c)
	user, err := h.accounts.Profile(c.Request().Context(), claims.UserID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's profile.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.accounts.UpdateProfile(c.Request().Context(), claims.UserID, req)
	if err != nil {
		switch err {
		case repositories.ErrUserNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		case services.ErrUsernameTaken:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, user)
}

// Follow makes the caller follow the target user.
func (h *UserHandler) Follow(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c)
	targetID, err := parseUserID(c)
	if err != nil {
		return err
	}

	if err := h.graph.Follow(c.Request().Context(), claims.UserID, targetID); err != nil {
		switch err {
		case repositories.ErrUserNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		case services.ErrSelfFollow, services.ErrAlreadyFollowing:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Error following user")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully followed the user"})
}

// Unfollow makes the caller unfollow the target user.
func (h *UserHandler) Unfollow(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c)
	targetID, err := parseUserID(c)
	if err != nil {
		return err
	}

	if err := h.graph.Unfollow(c.Request().Context(), claims.UserID, targetID); err != nil {
		switch err {
		case repositories.ErrUserNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		case services.ErrNotFollowing:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Error unfollowing user")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully unfollowed the user"})
}

// ListFollowers returns the accounts following the subject user.
func (h *UserHandler) ListFollowers(c echo.Context) error {
	targetID, err := parseUserID(c)
	if err != nil {
		return err
	}
	followers, err := h.graph.ListFollowers(c.Request().Context(), targetID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching followers")
	}
	return c.JSON(http.StatusOK, followers)
}

// ListFollowing returns the accounts the subject user follows.
func (h *UserHandler) ListFollowing(c echo.Context) error {
	targetID, err := parseUserID(c)
	if err != nil {
		return err
	}
	following, err := h.graph.ListFollowing(c.Request().Context(), targetID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching following users")
	}
	return c.JSON(http.StatusOK, following)
}

func parseUserID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	return id, nil
}
