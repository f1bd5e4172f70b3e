package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/screenplot/screenplot/store"
)

type CreateNodeRequest struct {
	Type     string           `json:"type"`
	EntityID *int32           `json:"entityId"`
	Label    string           `json:"label"`
	Props    store.Properties `json:"props"`
}

type UpdateNodeRequest struct {
	Label    *string           `json:"label"`
	EntityID *int32            `json:"entityId"`
	Props    *store.Properties `json:"props"`
}

// CreateNode creates a graph node.
// POST /api/v1/nodes
func (s *APIV1Service) CreateNode(c echo.Context) error {
	ctx := c.Request().Context()
	request := &CreateNodeRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if request.Type == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "node type is required"})
	}

	node := &store.Node{
		Type:  store.NodeType(request.Type),
		Label: request.Label,
		Props: request.Props,
	}
	if request.EntityID != nil {
		entityID := store.EntityID(*request.EntityID)
		node.EntityID = &entityID
	}
	created, err := s.Store.CreateNode(ctx, node)
	if err != nil {
		slog.Error("failed to create node", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create node"})
	}
	return c.JSON(http.StatusOK, created)
}

// GetNode returns one node by id.
// GET /api/v1/nodes/:id
func (s *APIV1Service) GetNode(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	node, err := s.Store.GetNode(ctx, id)
	if err != nil {
		slog.Error("failed to get node", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get node"})
	}
	if node == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "node not found"})
	}
	return c.JSON(http.StatusOK, node)
}

// FindNodes lists nodes filtered by query parameters.
// GET /api/v1/nodes?type=&entityId=&label=&limit=
func (s *APIV1Service) FindNodes(c echo.Context) error {
	ctx := c.Request().Context()
	find := &store.FindNode{}
	if v := c.QueryParam("type"); v != "" {
		nodeType := store.NodeType(v)
		find.Type = &nodeType
	}
	if v := c.QueryParam("entityId"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid entityId"})
		}
		entityID := store.EntityID(parsed)
		find.EntityID = &entityID
	}
	if v := c.QueryParam("label"); v != "" {
		find.LabelPattern = &v
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
		find.Limit = &limit
	}

	nodes, err := s.Store.FindNodes(ctx, find)
	if err != nil {
		slog.Error("failed to find nodes", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to find nodes"})
	}
	return c.JSON(http.StatusOK, nodes)
}

// UpdateNode patches a node's label, entity reference or properties.
// PATCH /api/v1/nodes/:id
func (s *APIV1Service) UpdateNode(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	request := &UpdateNodeRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	update := &store.UpdateNode{ID: id, Label: request.Label, Props: request.Props}
	if request.EntityID != nil {
		entityID := store.EntityID(*request.EntityID)
		update.EntityID = &entityID
	}
	node, err := s.Store.UpdateNode(ctx, update)
	if err != nil {
		slog.Error("failed to update node", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update node"})
	}
	if node == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "node not found"})
	}
	return c.JSON(http.StatusOK, node)
}

// DeleteNode removes a node and its incident edges.
// DELETE /api/v1/nodes/:id
func (s *APIV1Service) DeleteNode(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if err := s.Store.DeleteNode(ctx, id); err != nil {
		slog.Error("failed to delete node", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete node"})
	}
	return c.NoContent(http.StatusNoContent)
}
