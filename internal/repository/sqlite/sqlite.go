package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/msomdec/recipe-api/internal/domain"
	"github.com/msomdec/recipe-api/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection and hands out the repositories built on it.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// WAL mode, foreign keys and a busy timeout are set through the DSN so they
// apply to every connection the pool opens.
func New(dbPath string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Set a reasonable connection pool for SQLite.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: sqlDB}, nil
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() domain.UserRepository {
	return NewUserRepository(db)
}

func (db *DB) Recipes() domain.RecipeRepository {
	return NewRecipeRepository(db)
}

func (db *DB) Tags() domain.TagRepository {
	return NewTagRepository(db)
}
