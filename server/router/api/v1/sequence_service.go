package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/screenplot/screenplot/store"
)

type CreateScriptRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

type OrderResponse struct {
	ScriptID int32          `json:"scriptId"`
	Order    []*store.Scene `json:"order"`
}

// CreateScript registers a script.
// POST /api/v1/scripts
func (s *APIV1Service) CreateScript(c echo.Context) error {
	ctx := c.Request().Context()
	request := &CreateScriptRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if request.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "title is required"})
	}
	script, err := s.Store.CreateScript(ctx, &store.Script{Title: request.Title, Author: request.Author})
	if err != nil {
		slog.Error("failed to create script", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create script"})
	}
	return c.JSON(http.StatusOK, script)
}

// ListScripts lists registered scripts.
// GET /api/v1/scripts
func (s *APIV1Service) ListScripts(c echo.Context) error {
	ctx := c.Request().Context()
	scripts, err := s.Store.ListScripts(ctx, &store.FindScript{})
	if err != nil {
		slog.Error("failed to list scripts", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list scripts"})
	}
	return c.JSON(http.StatusOK, scripts)
}

// SyncGraph mirrors a script's relational rows into the graph.
// POST /api/v1/scripts/:id/graph/sync
func (s *APIV1Service) SyncGraph(c echo.Context) error {
	ctx := c.Request().Context()
	scriptID, ok := s.scriptID(c)
	if !ok {
		return nil
	}
	result, err := s.Graph.Sync(ctx, scriptID)
	if err != nil {
		slog.Error("failed to sync graph", "scriptID", scriptID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to sync graph"})
	}
	return c.JSON(http.StatusOK, result)
}

// EnsureScriptOrder normalizes the script order to a dense sequence.
// POST /api/v1/scripts/:id/orders/script
func (s *APIV1Service) EnsureScriptOrder(c echo.Context) error {
	ctx := c.Request().Context()
	scriptID, ok := s.scriptID(c)
	if !ok {
		return nil
	}
	scenes, err := s.Sequence.EnsureScriptOrder(ctx, scriptID)
	if err != nil {
		slog.Error("failed to normalize script order", "scriptID", scriptID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to normalize script order"})
	}
	return c.JSON(http.StatusOK, OrderResponse{ScriptID: scriptID, Order: scenes})
}

// InferTemporalOrder recomputes and persists the temporal order.
// POST /api/v1/scripts/:id/orders/temporal
func (s *APIV1Service) InferTemporalOrder(c echo.Context) error {
	ctx := c.Request().Context()
	scriptID, ok := s.scriptID(c)
	if !ok {
		return nil
	}
	scenes, err := s.Sequence.InferTemporalOrder(ctx, scriptID)
	if err != nil {
		slog.Error("failed to infer temporal order", "scriptID", scriptID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to infer temporal order"})
	}
	return c.JSON(http.StatusOK, OrderResponse{ScriptID: scriptID, Order: scenes})
}

// ComputeLogicalOrder recomputes and persists the logical order.
// POST /api/v1/scripts/:id/orders/logical
func (s *APIV1Service) ComputeLogicalOrder(c echo.Context) error {
	ctx := c.Request().Context()
	scriptID, ok := s.scriptID(c)
	if !ok {
		return nil
	}
	scenes, err := s.Sequence.GetLogicalOrder(ctx, scriptID)
	if err != nil {
		slog.Error("failed to compute logical order", "scriptID", scriptID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to compute logical order"})
	}
	return c.JSON(http.StatusOK, OrderResponse{ScriptID: scriptID, Order: scenes})
}

// AnalyzeDependencies runs dependency detection over a script.
// POST /api/v1/scripts/:id/dependencies/analyze
func (s *APIV1Service) AnalyzeDependencies(c echo.Context) error {
	ctx := c.Request().Context()
	scriptID, ok := s.scriptID(c)
	if !ok {
		return nil
	}
	deps, err := s.Sequence.AnalyzeLogicalDependencies(ctx, scriptID)
	if err != nil {
		slog.Error("failed to analyze dependencies", "scriptID", scriptID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to analyze dependencies"})
	}
	if deps == nil {
		deps = []*store.SceneDependency{}
	}
	return c.JSON(http.StatusOK, deps)
}

// ValidateConsistency reports ordering conflicts for a script.
// GET /api/v1/scripts/:id/consistency
func (s *APIV1Service) ValidateConsistency(c echo.Context) error {
	ctx := c.Request().Context()
	scriptID, ok := s.scriptID(c)
	if !ok {
		return nil
	}
	report, err := s.Sequence.ValidateOrderingConsistency(ctx, scriptID)
	if err != nil {
		slog.Error("failed to validate consistency", "scriptID", scriptID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to validate consistency"})
	}
	return c.JSON(http.StatusOK, report)
}

// GetSceneDependencies lists the dependencies a scene participates in.
// GET /api/v1/scenes/:id/dependencies
func (s *APIV1Service) GetSceneDependencies(c echo.Context) error {
	ctx := c.Request().Context()
	sceneID, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid scene id"})
	}
	deps, err := s.Sequence.GetSceneDependencies(ctx, int32(sceneID))
	if err != nil {
		slog.Error("failed to list scene dependencies", "sceneID", sceneID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list scene dependencies"})
	}
	if deps == nil {
		deps = []*store.SceneDependency{}
	}
	return c.JSON(http.StatusOK, deps)
}

// scriptID parses the :id path parameter and ensures the script exists.
// When it returns ok=false the response has already been written.
func (s *APIV1Service) scriptID(c echo.Context) (int32, bool) {
	ctx := c.Request().Context()
	parsed, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid script id"})
		return 0, false
	}
	scriptID := int32(parsed)
	script, err := s.Store.GetScript(ctx, scriptID)
	if err != nil {
		slog.Error("failed to get script", "scriptID", scriptID, "error", err)
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get script"})
		return 0, false
	}
	if script == nil {
		_ = c.JSON(http.StatusNotFound, map[string]string{"error": "script not found"})
		return 0, false
	}
	return scriptID, true
}
