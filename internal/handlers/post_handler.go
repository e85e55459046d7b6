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

// PostHandler handles post upload, likes, soft deletion and exploration.
type PostHandler struct {
	posts *services.PostService
	graph *services.GraphService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *services.PostService, graph *services.GraphService) *PostHandler {
	return &PostHandler{posts: posts, graph: graph}
}

// RegisterProtectedRoutes registers the routes that require a valid token.
func (h *PostHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/upload", h.Upload)
	g.POST("/like/:post_id", h.Like)
	g.POST("/unlike/:post_id", h.Unlike)
	g.DELETE("/del/:post_id", h.Delete)
}

// RegisterPublicRoutes registers the deliberately unauthenticated reads.
func (h *PostHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/explore", h.Explore)
	g.GET("/liked-users/:post_id", h.LikedUsers)
}

// Upload creates a new post owned by the caller. Responds 201.
func (h *PostHandler) Upload(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.posts.Upload(c.Request().Context(), claims.UserID, req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error uploading post")
	}
	return c.JSON(http.StatusCreated, post)
}

// Like adds the caller to the post's like set.
func (h *PostHandler) Like(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c)
	postID := c.Param("post_id")

	if err := h.graph.Like(c.Request().Context(), claims.UserID, postID); err != nil {
		switch err {
		case repositories.ErrPostNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		case services.ErrSelfLike, services.ErrAlreadyLiked:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Error liking post")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post liked successfully"})
}

// Unlike removes the caller from the post's like set.
func (h *PostHandler) Unlike(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c)
	postID := c.Param("post_id")

	if err := h.graph.Unlike(c.Request().Context(), claims.UserID, postID); err != nil {
		switch err {
		case repositories.ErrPostNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		case services.ErrNotLiked:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Error unliking post")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post unliked successfully"})
}

// Delete soft-deletes a post. Only the author is allowed.
func (h *PostHandler) Delete(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c)
	postID := c.Param("post_id")

	if err := h.posts.Delete(c.Request().Context(), claims.UserID, postID); err != nil {
		switch err {
		case repositories.ErrPostNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		case services.ErrForbidden:
			return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting post")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

// LikedUsers returns the accounts that liked the post.
func (h *PostHandler) LikedUsers(c echo.Context) error {
	postID := c.Param("post_id")

	users, err := h.posts.LikedUsers(c.Request().Context(), postID)
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching liked users")
	}
	return c.JSON(http.StatusOK, users)
}

// Explore returns public, non-deleted posts.
func (h *PostHandler) Explore(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	posts, err := h.posts.Explore(c.Request().Context(), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error exploring posts")
	}
	return c.JSON(http.StatusOK, posts)
}
