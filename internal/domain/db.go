package domain

import "context"

// Database is the storage backend: schema lifecycle plus the repositories
// built on it. Each implementation owns its own migration files.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
	Users() UserRepository
	Recipes() RecipeRepository
	Tags() TagRepository
}
