package domain

import (
	"context"
	"time"
)

// Tag is a user-owned label. Names are unique per owner and compared exactly.
type Tag struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
}

// TagRepository persists tags, scoped to the owning user like RecipeRepository.
type TagRepository interface {
	Create(ctx context.Context, tag *Tag) error
	GetByID(ctx context.Context, ownerID, id int64) (*Tag, error)
	// ListByOwner returns the owner's tags ordered by name, descending.
	ListByOwner(ctx context.Context, ownerID int64) ([]Tag, error)
	Update(ctx context.Context, tag *Tag) error
	Delete(ctx context.Context, ownerID, id int64) error
}
