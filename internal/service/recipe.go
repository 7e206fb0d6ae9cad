package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/msomdec/recipe-api/internal/domain"
	"github.com/msomdec/recipe-api/internal/validation"
)

// TagInput names a tag to attach to a recipe.
type TagInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// RecipeInput is the complete field set of a recipe, used by Create and by
// full updates. Tags left nil mean no tags.
type RecipeInput struct {
	Title       string           `json:"title" validate:"required,max=255"`
	Description string           `json:"description"`
	TimeMinutes *int             `json:"time_minutes" validate:"required,gte=0"`
	Price       *decimal.Decimal `json:"price" validate:"required,money"`
	Link        string           `json:"link" validate:"max=255"`
	Tags        []TagInput       `json:"tags" validate:"dive"`

	nullTags bool
}

// UnmarshalJSON records an explicit "tags": null so it can be rejected
// instead of being read as an empty tag list.
func (in *RecipeInput) UnmarshalJSON(data []byte) error {
	type plain RecipeInput
	if err := json.Unmarshal(data, (*plain)(in)); err != nil {
		return err
	}
	in.nullTags = isNullMember(data, "tags")
	return nil
}

// RecipePatch carries the fields of a partial update. Nil fields are left
// unchanged; a non-nil Tags replaces the tag set, even when empty.
type RecipePatch struct {
	Title       *string          `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string          `json:"description"`
	TimeMinutes *int             `json:"time_minutes" validate:"omitnil,gte=0"`
	Price       *decimal.Decimal `json:"price" validate:"omitnil,money"`
	Link        *string          `json:"link" validate:"omitnil,max=255"`
	Tags        *[]TagInput      `json:"tags" validate:"omitnil,dive"`

	nullTags bool
}

// UnmarshalJSON records an explicit "tags": null, which would otherwise
// decode the same as an absent key.
func (p *RecipePatch) UnmarshalJSON(data []byte) error {
	type plain RecipePatch
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	p.nullTags = isNullMember(data, "tags")
	return nil
}

// RecipeService implements recipe CRUD for a single acting user at a time.
// Every method takes the acting user's ID; recipes owned by anyone else are
// reported as domain.ErrNotFound.
type RecipeService struct {
	recipes   domain.RecipeRepository
	tags      domain.TagRepository
	validator *validation.Validator
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(recipes domain.RecipeRepository, tags domain.TagRepository, v *validation.Validator) *RecipeService {
	return &RecipeService{recipes: recipes, tags: tags, validator: v}
}

// List returns the owner's recipes, newest first.
func (s *RecipeService) List(ctx context.Context, ownerID int64) ([]domain.Recipe, error) {
	recipes, err := s.recipes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Get returns one of the owner's recipes.
func (s *RecipeService) Get(ctx context.Context, ownerID, id int64) (*domain.Recipe, error) {
	return s.recipes.GetByID(ctx, ownerID, id)
}

// Create validates the input and stores a new recipe owned by ownerID.
func (s *RecipeService) Create(ctx context.Context, ownerID int64, in RecipeInput) (*domain.Recipe, error) {
	in = in.normalized()
	if in.nullTags {
		return nil, nullTagsError()
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, ownerID, in.Tags)
	if err != nil {
		return nil, err
	}

	recipe := &domain.Recipe{
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		TimeMinutes: *in.TimeMinutes,
		Price:       *in.Price,
		Link:        in.Link,
		Tags:        tags,
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return recipe, nil
}

// Update replaces every field of the recipe. Description and link fall back
// to empty when omitted, and omitted tags clear the tag set.
func (s *RecipeService) Update(ctx context.Context, ownerID, id int64, in RecipeInput) (*domain.Recipe, error) {
	in = in.normalized()
	if in.nullTags {
		return nil, nullTagsError()
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	recipe, err := s.recipes.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, ownerID, in.Tags)
	if err != nil {
		return nil, err
	}

	recipe.Title = in.Title
	recipe.Description = in.Description
	recipe.TimeMinutes = *in.TimeMinutes
	recipe.Price = *in.Price
	recipe.Link = in.Link
	recipe.Tags = tags

	if err := s.recipes.Update(ctx, recipe); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return recipe, nil
}

// Patch applies the non-nil fields of p. The tag set is only touched when
// p.Tags is non-nil.
func (s *RecipeService) Patch(ctx context.Context, ownerID, id int64, p RecipePatch) (*domain.Recipe, error) {
	p = p.normalized()
	if p.nullTags {
		return nil, nullTagsError()
	}
	if err := s.validator.Validate(p); err != nil {
		return nil, err
	}

	recipe, err := s.recipes.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		recipe.Title = *p.Title
	}
	if p.Description != nil {
		recipe.Description = *p.Description
	}
	if p.TimeMinutes != nil {
		recipe.TimeMinutes = *p.TimeMinutes
	}
	if p.Price != nil {
		recipe.Price = *p.Price
	}
	if p.Link != nil {
		recipe.Link = *p.Link
	}
	if p.Tags != nil {
		tags, err := s.resolveTags(ctx, ownerID, *p.Tags)
		if err != nil {
			return nil, err
		}
		recipe.Tags = tags
	}

	if err := s.recipes.Update(ctx, recipe); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return recipe, nil
}

// Delete removes one of the owner's recipes. Its tags are kept.
func (s *RecipeService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.recipes.Delete(ctx, ownerID, id)
}

func (s *RecipeService) resolveTags(ctx context.Context, ownerID int64, in []TagInput) ([]domain.Tag, error) {
	if len(in) == 0 {
		return []domain.Tag{}, nil
	}

	existing, err := s.tags.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	names := make([]string, len(in))
	for i, t := range in {
		names[i] = t.Name
	}
	return ResolveTags(ownerID, names, existing), nil
}

func (in RecipeInput) normalized() RecipeInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Tags = trimTagInputs(in.Tags)
	return in
}

func (p RecipePatch) normalized() RecipePatch {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		p.Title = &title
	}
	if p.Tags != nil {
		tags := trimTagInputs(*p.Tags)
		p.Tags = &tags
	}
	return p
}

func trimTagInputs(in []TagInput) []TagInput {
	if in == nil {
		return nil
	}
	out := make([]TagInput, len(in))
	for i, t := range in {
		out[i] = TagInput{Name: strings.TrimSpace(t.Name)}
	}
	return out
}

func nullTagsError() error {
	return domain.NewValidationError(map[string]string{"tags": "may not be null"})
}

// isNullMember reports whether the JSON object in data has key set to null.
// Keys match case-insensitively, as encoding/json does when decoding.
func isNullMember(data []byte, key string) bool {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return false
	}
	for k, v := range raw {
		if strings.EqualFold(k, key) && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return true
		}
	}
	return false
}
