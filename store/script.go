package store

import (
	"context"

	"github.com/lithammer/shortuuid/v4"
)

// Script is one screenplay.
type Script struct {
	ID        int32  `json:"id"`
	UID       string `json:"uid"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	CreatedTs int64  `json:"createdTs"`
	UpdatedTs int64  `json:"updatedTs"`
}

type FindScript struct {
	ID    *int32
	UID   *string
	Limit *int
}

func (s *Store) CreateScript(ctx context.Context, create *Script) (*Script, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	return s.driver.CreateScript(ctx, create)
}

func (s *Store) ListScripts(ctx context.Context, find *FindScript) ([]*Script, error) {
	return s.driver.ListScripts(ctx, find)
}

// GetScript returns the script with the given id, or nil when absent.
func (s *Store) GetScript(ctx context.Context, id int32) (*Script, error) {
	scripts, err := s.driver.ListScripts(ctx, &FindScript{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(scripts) == 0 {
		return nil, nil
	}
	return scripts[0], nil
}
