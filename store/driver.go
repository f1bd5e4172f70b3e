package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that a store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Graph node related methods.
	CreateNode(ctx context.Context, create *Node) (*Node, error)
	GetNode(ctx context.Context, id string) (*Node, error)
	UpdateNode(ctx context.Context, update *UpdateNode) (*Node, error)
	DeleteNode(ctx context.Context, id string) error
	FindNodes(ctx context.Context, find *FindNode) ([]*Node, error)

	// Graph edge related methods.
	CreateEdge(ctx context.Context, create *Edge) (*Edge, error)
	GetEdge(ctx context.Context, id string) (*Edge, error)
	DeleteEdge(ctx context.Context, delete *DeleteEdge) error
	FindEdges(ctx context.Context, find *FindEdge) ([]*Edge, error)

	// Script related methods.
	CreateScript(ctx context.Context, create *Script) (*Script, error)
	ListScripts(ctx context.Context, find *FindScript) ([]*Script, error)

	// Scene related methods.
	CreateScene(ctx context.Context, create *Scene) (*Scene, error)
	ListScenes(ctx context.Context, find *FindScene) ([]*Scene, error)
	UpdateScene(ctx context.Context, update *UpdateScene) error
	UpdateSceneOrder(ctx context.Context, update *UpdateSceneOrder) error
	UpdateSceneOrders(ctx context.Context, updates []*UpdateSceneOrder) error

	// Character related methods.
	CreateCharacter(ctx context.Context, create *Character) (*Character, error)
	ListCharacters(ctx context.Context, find *FindCharacter) ([]*Character, error)
	UpsertSceneCharacter(ctx context.Context, upsert *SceneCharacter) error
	ListSceneCharacters(ctx context.Context, find *FindSceneCharacter) ([]*SceneCharacter, error)

	// Location related methods.
	CreateLocation(ctx context.Context, create *Location) (*Location, error)
	ListLocations(ctx context.Context, find *FindLocation) ([]*Location, error)

	// SceneDependency related methods.
	UpsertSceneDependency(ctx context.Context, upsert *SceneDependency) (*SceneDependency, error)
	ListSceneDependencies(ctx context.Context, find *FindSceneDependency) ([]*SceneDependency, error)
	DeleteSceneDependency(ctx context.Context, delete *DeleteSceneDependency) error
}
