package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/recipe-api/internal/domain"
)

// TagRepository implements domain.TagRepository using SQLite.
type TagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new SQLite-backed TagRepository.
func NewTagRepository(db *DB) *TagRepository {
	return &TagRepository{db: db.SqlDB}
}

func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tags (user_id, name, created_at) VALUES (?, ?, ?)`,
		tag.UserID, tag.Name, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateTagName
		}
		return fmt.Errorf("insert tag: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	tag.ID = id
	tag.CreatedAt = now
	return nil
}

func (r *TagRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Tag, error) {
	tag := &domain.Tag{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at FROM tags WHERE id = ? AND user_id = ?`, id, ownerID,
	).Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query tag by id: %w", err)
	}
	return tag, nil
}

func (r *TagRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at FROM tags WHERE user_id = ? ORDER BY name DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *TagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tags SET name = ? WHERE id = ? AND user_id = ?`,
		tag.Name, tag.ID, tag.UserID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateTagName
		}
		return fmt.Errorf("update tag: %w", err)
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

// Delete removes the tag. Its recipe memberships go with it through the
// recipe_tags foreign key; the recipes themselves are untouched.
func (r *TagRepository) Delete(ctx context.Context, ownerID, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
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
