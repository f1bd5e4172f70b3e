package store

import (
	"context"

	"github.com/lithammer/shortuuid/v4"
)

// OrderType names one of the three parallel total orders over a script's
// scenes.
type OrderType string

const (
	// OrderTypeScript is the authored order, assigned at ingestion time.
	OrderTypeScript OrderType = "script"
	// OrderTypeTemporal is the inferred story-chronological order.
	OrderTypeTemporal OrderType = "temporal"
	// OrderTypeLogical is the dependency-derived order.
	OrderTypeLogical OrderType = "logical"
)

// Scene is one scene of a script. The three order columns are nullable
// until computed; recomputation overwrites prior values.
type Scene struct {
	ID            int32  `json:"id"`
	UID           string `json:"uid"`
	ScriptID      int32  `json:"scriptId"`
	Heading       string `json:"heading"`
	TimeOfDay     string `json:"timeOfDay"`
	Location      string `json:"location"`
	Content       string `json:"content"`
	ScriptOrder   *int32 `json:"scriptOrder"`
	TemporalOrder *int32 `json:"temporalOrder"`
	LogicalOrder  *int32 `json:"logicalOrder"`
	CreatedTs     int64  `json:"createdTs"`
	UpdatedTs     int64  `json:"updatedTs"`
}

type FindScene struct {
	ID       *int32
	UID      *string
	ScriptID *int32
	Limit    *int
}

// UpdateScene is a partial scene update; nil fields are left untouched.
type UpdateScene struct {
	ID        int32
	Heading   *string
	TimeOfDay *string
	Location  *string
	Content   *string
}

// UpdateSceneOrder writes one order column of one scene. A nil Value clears
// the column.
type UpdateSceneOrder struct {
	SceneID int32
	Type    OrderType
	Value   *int32
}

func (s *Store) CreateScene(ctx context.Context, create *Scene) (*Scene, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	return s.driver.CreateScene(ctx, create)
}

func (s *Store) ListScenes(ctx context.Context, find *FindScene) ([]*Scene, error) {
	return s.driver.ListScenes(ctx, find)
}

// GetScene returns the scene with the given id, or nil when absent.
func (s *Store) GetScene(ctx context.Context, id int32) (*Scene, error) {
	scenes, err := s.driver.ListScenes(ctx, &FindScene{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(scenes) == 0 {
		return nil, nil
	}
	return scenes[0], nil
}

func (s *Store) UpdateScene(ctx context.Context, update *UpdateScene) error {
	return s.driver.UpdateScene(ctx, update)
}

func (s *Store) UpdateSceneOrder(ctx context.Context, update *UpdateSceneOrder) error {
	return s.driver.UpdateSceneOrder(ctx, update)
}

// UpdateSceneOrders applies a batch of order writes in one transaction, so a
// recomputation either lands fully or not at all.
func (s *Store) UpdateSceneOrders(ctx context.Context, updates []*UpdateSceneOrder) error {
	return s.driver.UpdateSceneOrders(ctx, updates)
}

// OrderValue returns the scene's value for the given order type.
func (sc *Scene) OrderValue(orderType OrderType) *int32 {
	switch orderType {
	case OrderTypeScript:
		return sc.ScriptOrder
	case OrderTypeTemporal:
		return sc.TemporalOrder
	case OrderTypeLogical:
		return sc.LogicalOrder
	}
	return nil
}
