package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/screenplot/screenplot/plugin/graph"
	"github.com/screenplot/screenplot/store"
)

type PathResponse struct {
	Found bool     `json:"found"`
	Path  []string `json:"path"`
}

type SubgraphResponse struct {
	Center string        `json:"center"`
	Radius int           `json:"radius"`
	Nodes  []*store.Node `json:"nodes"`
	Edges  []*store.Edge `json:"edges"`
}

// GetNeighbors lists the nodes adjacent to one node.
// GET /api/v1/nodes/:id/neighbors?edgeType=&direction=
func (s *APIV1Service) GetNeighbors(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	opts := graph.NeighborOptions{
		EdgeType:  store.EdgeType(c.QueryParam("edgeType")),
		Direction: graph.Direction(c.QueryParam("direction")),
	}
	neighbors, err := s.Graph.Neighbors(ctx, id, opts)
	if err != nil {
		if opts.Direction != "" && !opts.Direction.Valid() {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid direction"})
		}
		slog.Error("failed to list neighbors", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list neighbors"})
	}
	return c.JSON(http.StatusOK, neighbors)
}

// FindPath runs a shortest-path search along outgoing edges.
// GET /api/v1/graph/path?from=&to=&maxDepth=&edgeType=
func (s *APIV1Service) FindPath(c echo.Context) error {
	ctx := c.Request().Context()
	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from == "" || to == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "from and to are required"})
	}
	opts := graph.PathOptions{EdgeType: store.EdgeType(c.QueryParam("edgeType"))}
	if v := c.QueryParam("maxDepth"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil || depth < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid maxDepth"})
		}
		opts.MaxDepth = depth
	}

	path, err := s.Graph.FindPath(ctx, from, to, opts)
	if err != nil {
		slog.Error("failed to find path", "from", from, "to", to, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to find path"})
	}
	return c.JSON(http.StatusOK, PathResponse{Found: path != nil, Path: path})
}

// GetSubgraph expands a bounded neighborhood around one node.
// GET /api/v1/nodes/:id/subgraph?radius=&edgeType=
func (s *APIV1Service) GetSubgraph(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	radius := 1
	if v := c.QueryParam("radius"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid radius"})
		}
		radius = parsed
	}

	subgraph, err := s.Graph.Subgraph(ctx, id, radius, store.EdgeType(c.QueryParam("edgeType")))
	if err != nil {
		slog.Error("failed to expand subgraph", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to expand subgraph"})
	}
	return c.JSON(http.StatusOK, SubgraphResponse{
		Center: subgraph.Center,
		Radius: subgraph.Radius,
		Nodes:  subgraph.Nodes,
		Edges:  subgraph.Edges,
	})
}

// GetCentrality computes one centrality measure, for every node or for a
// single node when the node parameter is set.
// GET /api/v1/graph/centrality?measure=&normalized=&node=
func (s *APIV1Service) GetCentrality(c echo.Context) error {
	ctx := c.Request().Context()
	normalized := c.QueryParam("normalized") != "false"

	var scores map[string]float64
	var err error
	measure := c.QueryParam("measure")
	switch measure {
	case "", "degree":
		scores, err = s.Graph.DegreeCentrality(ctx, normalized)
	case "betweenness":
		scores, err = s.Graph.BetweennessCentrality(ctx, normalized)
	case "closeness":
		scores, err = s.Graph.ClosenessCentrality(ctx, normalized)
	case "eigenvector":
		scores, err = s.Graph.EigenvectorCentrality(ctx, graph.EigenvectorOptions{})
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown centrality measure"})
	}
	if err != nil {
		slog.Error("failed to compute centrality", "measure", measure, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to compute centrality"})
	}
	if nodeID := c.QueryParam("node"); nodeID != "" {
		score, ok := scores[nodeID]
		if !ok {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "node not found"})
		}
		return c.JSON(http.StatusOK, map[string]float64{nodeID: score})
	}
	return c.JSON(http.StatusOK, scores)
}
