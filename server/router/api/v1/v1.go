// Package v1 exposes the screenplay graph over a JSON REST API.
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/screenplot/screenplot/internal/profile"
	"github.com/screenplot/screenplot/plugin/graph"
	"github.com/screenplot/screenplot/server/service/sequence"
	"github.com/screenplot/screenplot/store"
)

type APIV1Service struct {
	Profile  *profile.Profile
	Store    *store.Store
	Graph    *graph.Engine
	Sequence *sequence.Service
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store) *APIV1Service {
	engine := graph.NewEngine(store)
	return &APIV1Service{
		Profile:  profile,
		Store:    store,
		Graph:    engine,
		Sequence: sequence.NewService(store, engine),
	}
}

// Register wires the v1 routes onto the echo instance.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	g := echoServer.Group("/api/v1")

	g.POST("/nodes", s.CreateNode)
	g.GET("/nodes", s.FindNodes)
	g.GET("/nodes/:id", s.GetNode)
	g.PATCH("/nodes/:id", s.UpdateNode)
	g.DELETE("/nodes/:id", s.DeleteNode)
	g.GET("/nodes/:id/neighbors", s.GetNeighbors)
	g.GET("/nodes/:id/subgraph", s.GetSubgraph)

	g.POST("/edges", s.CreateEdge)
	g.GET("/edges", s.FindEdges)
	g.GET("/edges/:id", s.GetEdge)
	g.DELETE("/edges/:id", s.DeleteEdge)

	g.GET("/graph/path", s.FindPath)
	g.GET("/graph/centrality", s.GetCentrality)

	g.POST("/scripts", s.CreateScript)
	g.GET("/scripts", s.ListScripts)
	g.POST("/scripts/:id/graph/sync", s.SyncGraph)
	g.POST("/scripts/:id/orders/script", s.EnsureScriptOrder)
	g.POST("/scripts/:id/orders/temporal", s.InferTemporalOrder)
	g.POST("/scripts/:id/orders/logical", s.ComputeLogicalOrder)
	g.POST("/scripts/:id/dependencies/analyze", s.AnalyzeDependencies)
	g.GET("/scripts/:id/consistency", s.ValidateConsistency)

	g.GET("/scenes/:id/dependencies", s.GetSceneDependencies)
}
