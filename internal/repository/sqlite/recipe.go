package sqlite

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/msomdec/recipe-api/internal/domain"
)

const recipeColumns = `id, user_id, title, description, time_minutes, price, link, created_at, updated_at`

// RecipeRepository implements domain.RecipeRepository using SQLite.
type RecipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new SQLite-backed RecipeRepository.
func NewRecipeRepository(db *DB) *RecipeRepository {
	return &RecipeRepository{db: db.SqlDB}
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO recipes (user_id, title, description, time_minutes, price, link, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe.UserID, recipe.Title, recipe.Description, recipe.TimeMinutes,
		recipe.Price.StringFixed(2), recipe.Link, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}

	recipeID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get recipe id: %w", err)
	}

	tags, err := saveTags(ctx, tx, recipe.UserID, recipe.Tags)
	if err != nil {
		return err
	}
	if err := replaceRecipeTags(ctx, tx, recipeID, tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	recipe.ID = recipeID
	recipe.Tags = tags
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	return nil
}

func (r *RecipeRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Recipe, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ? AND user_id = ?`, id, ownerID)
	recipe, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	tags, err := r.loadTags(ctx, `WHERE rt.recipe_id = ?`, id)
	if err != nil {
		return nil, err
	}
	recipe.Tags = tags[id]
	if recipe.Tags == nil {
		recipe.Tags = []domain.Tag{}
	}
	return recipe, nil
}

func (r *RecipeRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE user_id = ? ORDER BY id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	var recipes []domain.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *recipe)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	tags, err := r.loadTags(ctx, `JOIN recipes r ON r.id = rt.recipe_id WHERE r.user_id = ?`, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range recipes {
		recipes[i].Tags = tags[recipes[i].ID]
		if recipes[i].Tags == nil {
			recipes[i].Tags = []domain.Tag{}
		}
	}
	return recipes, nil
}

// Update writes the recipe's scalar fields and replaces its tag membership
// with recipe.Tags. The recipe is matched on both ID and UserID.
func (r *RecipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`UPDATE recipes SET title = ?, description = ?, time_minutes = ?, price = ?, link = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		recipe.Title, recipe.Description, recipe.TimeMinutes, recipe.Price.StringFixed(2),
		recipe.Link, now, recipe.ID, recipe.UserID,
	)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	tags, err := saveTags(ctx, tx, recipe.UserID, recipe.Tags)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, recipe.ID); err != nil {
		return fmt.Errorf("clear recipe tags: %w", err)
	}
	if err := replaceRecipeTags(ctx, tx, recipe.ID, tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	recipe.Tags = tags
	recipe.UpdatedAt = now
	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, ownerID, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// loadTags returns tags keyed by recipe ID. filter is appended after the
// recipe_tags/tags join and receives args.
func (r *RecipeRepository) loadTags(ctx context.Context, filter string, args ...any) (map[int64][]domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rt.recipe_id, t.id, t.user_id, t.name, t.created_at
		 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id `+filter+`
		 ORDER BY rt.recipe_id, t.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query recipe tags: %w", err)
	}
	defer rows.Close()

	byRecipe := make(map[int64][]domain.Tag)
	for rows.Next() {
		var recipeID int64
		var t domain.Tag
		if err := rows.Scan(&recipeID, &t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe tag: %w", err)
		}
		byRecipe[recipeID] = append(byRecipe[recipeID], t)
	}
	return byRecipe, rows.Err()
}

// saveTags makes sure every tag exists for the owner and returns a copy with
// IDs filled in, ordered by ID like loadTags. Tags carrying an ID must already belong to the owner. New
// tags are inserted with ON CONFLICT DO NOTHING and re-selected, so two
// writers creating the same name end up sharing one row.
func saveTags(ctx context.Context, tx *sql.Tx, ownerID int64, tags []domain.Tag) ([]domain.Tag, error) {
	saved := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		if t.ID != 0 {
			err := tx.QueryRowContext(ctx,
				`SELECT name, created_at FROM tags WHERE id = ? AND user_id = ?`, t.ID, ownerID,
			).Scan(&t.Name, &t.CreatedAt)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return nil, fmt.Errorf("%w: tag %d", domain.ErrNotFound, t.ID)
				}
				return nil, fmt.Errorf("check tag: %w", err)
			}
			t.UserID = ownerID
			saved = append(saved, t)
			continue
		}

		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tags (user_id, name, created_at) VALUES (?, ?, ?)
			 ON CONFLICT (user_id, name) DO NOTHING`,
			ownerID, t.Name, now,
		); err != nil {
			return nil, fmt.Errorf("insert tag: %w", err)
		}

		if err := tx.QueryRowContext(ctx,
			`SELECT id, created_at FROM tags WHERE user_id = ? AND name = ?`, ownerID, t.Name,
		).Scan(&t.ID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("select tag: %w", err)
		}
		t.UserID = ownerID
		saved = append(saved, t)
	}
	slices.SortFunc(saved, func(a, b domain.Tag) int { return cmp.Compare(a.ID, b.ID) })
	return saved, nil
}

func replaceRecipeTags(ctx context.Context, tx *sql.Tx, recipeID int64, tags []domain.Tag) error {
	for _, t := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			recipeID, t.ID,
		); err != nil {
			return fmt.Errorf("insert recipe tag: %w", err)
		}
	}
	return nil
}

func scanRecipe(s scanner) (*domain.Recipe, error) {
	recipe := &domain.Recipe{}
	var price string
	err := s.Scan(&recipe.ID, &recipe.UserID, &recipe.Title, &recipe.Description,
		&recipe.TimeMinutes, &price, &recipe.Link, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		return nil, err
	}

	recipe.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	return recipe, nil
}
