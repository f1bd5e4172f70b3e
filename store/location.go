package store

import (
	"context"
)

// Location is a shooting/story location extracted from scene headings.
type Location struct {
	ID        int32  `json:"id"`
	ScriptID  int32  `json:"scriptId"`
	Name      string `json:"name"`
	CreatedTs int64  `json:"createdTs"`
}

type FindLocation struct {
	ID       *int32
	ScriptID *int32
	Name     *string
}

func (s *Store) CreateLocation(ctx context.Context, create *Location) (*Location, error) {
	return s.driver.CreateLocation(ctx, create)
}

func (s *Store) ListLocations(ctx context.Context, find *FindLocation) ([]*Location, error) {
	return s.driver.ListLocations(ctx, find)
}
