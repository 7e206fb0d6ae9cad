package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is a user-owned recipe. UserID is fixed at creation.
type Recipe struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	TimeMinutes int
	Price       decimal.Decimal
	Link        string
	Tags        []Tag
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TagNames returns the names of the recipe's tags in order.
func (r *Recipe) TagNames() []string {
	names := make([]string, len(r.Tags))
	for i, t := range r.Tags {
		names[i] = t.Name
	}
	return names
}

// RecipeRepository persists recipes. Every lookup and mutation is scoped to
// the owning user; a recipe owned by someone else is reported as ErrNotFound.
//
// Create and Update store recipe.Tags as the recipe's complete tag membership.
// Tags with a zero ID are inserted for the recipe's owner in the same
// transaction, and their IDs are filled in.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *Recipe) error
	GetByID(ctx context.Context, ownerID, id int64) (*Recipe, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Recipe, error)
	Update(ctx context.Context, recipe *Recipe) error
	Delete(ctx context.Context, ownerID, id int64) error
}
