package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/screenplot/screenplot/store"
)

type CreateEdgeRequest struct {
	FromNodeID string           `json:"fromNodeId"`
	ToNodeID   string           `json:"toNodeId"`
	Type       string           `json:"type"`
	Props      store.Properties `json:"props"`
	Weight     float64          `json:"weight"`
}

// CreateEdge creates a directed edge between two nodes.
// POST /api/v1/edges
func (s *APIV1Service) CreateEdge(c echo.Context) error {
	ctx := c.Request().Context()
	request := &CreateEdgeRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if request.FromNodeID == "" || request.ToNodeID == "" || request.Type == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "fromNodeId, toNodeId and type are required"})
	}

	edge, err := s.Store.CreateEdge(ctx, &store.Edge{
		FromNodeID: request.FromNodeID,
		ToNodeID:   request.ToNodeID,
		Type:       store.EdgeType(request.Type),
		Props:      request.Props,
		Weight:     request.Weight,
	})
	if err != nil {
		slog.Error("failed to create edge", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create edge"})
	}
	return c.JSON(http.StatusOK, edge)
}

// GetEdge returns one edge by id.
// GET /api/v1/edges/:id
func (s *APIV1Service) GetEdge(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	edge, err := s.Store.GetEdge(ctx, id)
	if err != nil {
		slog.Error("failed to get edge", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get edge"})
	}
	if edge == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "edge not found"})
	}
	return c.JSON(http.StatusOK, edge)
}

// FindEdges lists edges filtered by query parameters.
// GET /api/v1/edges?from=&to=&type=&limit=
func (s *APIV1Service) FindEdges(c echo.Context) error {
	ctx := c.Request().Context()
	find := &store.FindEdge{}
	if v := c.QueryParam("from"); v != "" {
		find.FromNodeID = &v
	}
	if v := c.QueryParam("to"); v != "" {
		find.ToNodeID = &v
	}
	if v := c.QueryParam("type"); v != "" {
		edgeType := store.EdgeType(v)
		find.Type = &edgeType
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
		find.Limit = &limit
	}

	edges, err := s.Store.FindEdges(ctx, find)
	if err != nil {
		slog.Error("failed to find edges", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to find edges"})
	}
	return c.JSON(http.StatusOK, edges)
}

// DeleteEdge removes one edge.
// DELETE /api/v1/edges/:id
func (s *APIV1Service) DeleteEdge(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if err := s.Store.DeleteEdge(ctx, &store.DeleteEdge{ID: id}); err != nil {
		slog.Error("failed to delete edge", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete edge"})
	}
	return c.NoContent(http.StatusNoContent)
}
