package handlers

import (
	"net/http"

	"github.com/devarko/thunderstorm/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// GraphAuditHandler exposes the operator listing of incomplete two-phase
// graph writes, i.e. the relationships that may currently be one-directional.
type GraphAuditHandler struct {
	graph *services.GraphService
}

// NewGraphAuditHandler creates a new GraphAuditHandler.
func NewGraphAuditHandler(graph *services.GraphService) *GraphAuditHandler {
	return &GraphAuditHandler{graph: graph}
}

// RegisterRoutes registers the audit routes on a protected group.
func (h *GraphAuditHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/graph/audit", h.ListIncomplete)
}

// ListIncomplete returns journal rows whose peer write was never confirmed.
func (h *GraphAuditHandler) ListIncomplete(c echo.Context) error {
	entries, err := h.graph.IncompleteAudits(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error listing graph audit entries")
	}
	return c.JSON(http.StatusOK, entries)
}
