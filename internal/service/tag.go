package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/recipe-api/internal/domain"
	"github.com/msomdec/recipe-api/internal/validation"
)

// TagPatch carries a partial tag update.
type TagPatch struct {
	Name *string `json:"name" validate:"omitnil,min=1,max=255"`
}

// TagService manages the acting user's tags.
type TagService struct {
	tags      domain.TagRepository
	validator *validation.Validator
}

// NewTagService creates a new TagService.
func NewTagService(tags domain.TagRepository, v *validation.Validator) *TagService {
	return &TagService{tags: tags, validator: v}
}

// List returns the owner's tags ordered by name, descending.
func (s *TagService) List(ctx context.Context, ownerID int64) ([]domain.Tag, error) {
	tags, err := s.tags.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (s *TagService) Get(ctx context.Context, ownerID, id int64) (*domain.Tag, error) {
	return s.tags.GetByID(ctx, ownerID, id)
}

// Create stores a new tag for the owner. A name the owner already uses is
// rejected with domain.ErrDuplicateTagName.
func (s *TagService) Create(ctx context.Context, ownerID int64, in TagInput) (*domain.Tag, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	tag := &domain.Tag{UserID: ownerID, Name: in.Name}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

// Update renames one of the owner's tags.
func (s *TagService) Update(ctx context.Context, ownerID, id int64, in TagInput) (*domain.Tag, error) {
	name := in.Name
	return s.Patch(ctx, ownerID, id, TagPatch{Name: &name})
}

// Patch applies a partial update. A nil name leaves the tag unchanged.
func (s *TagService) Patch(ctx context.Context, ownerID, id int64, p TagPatch) (*domain.Tag, error) {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		p.Name = &name
	}
	if err := s.validator.Validate(p); err != nil {
		return nil, err
	}

	tag, err := s.tags.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if p.Name == nil || *p.Name == tag.Name {
		return tag, nil
	}

	tag.Name = *p.Name
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return tag, nil
}

// Delete removes one of the owner's tags and detaches it from every recipe.
func (s *TagService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.tags.Delete(ctx, ownerID, id)
}
