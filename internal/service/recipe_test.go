package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/recipe-api/internal/domain"
	"github.com/msomdec/recipe-api/internal/service"
)

func ptr[T any](v T) *T { return &v }

func recipeInput(title string, tags ...string) service.RecipeInput {
	in := service.RecipeInput{
		Title:       title,
		TimeMinutes: ptr(22),
		Price:       ptr(decimal.RequireFromString("5.25")),
		Link:        "https://example.com/recipe.pdf",
	}
	for _, name := range tags {
		in.Tags = append(in.Tags, service.TagInput{Name: name})
	}
	return in
}

func tagIDs(tags []domain.Tag) []int64 {
	ids := make([]int64, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}

func TestRecipeService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "cook@example.com")

	recipe, err := env.recipes.Create(ctx, user.ID, recipeInput("  Curry  ", "Indian", "Dinner", "Indian"))
	require.NoError(t, err)

	assert.NotZero(t, recipe.ID)
	assert.Equal(t, user.ID, recipe.UserID)
	assert.Equal(t, "Curry", recipe.Title)
	assert.Equal(t, []string{"Indian", "Dinner"}, recipe.TagNames())

	got, err := env.recipes.Get(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 22, got.TimeMinutes)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("5.25")))
	assert.ElementsMatch(t, []string{"Indian", "Dinner"}, got.TagNames())
}

func TestRecipeService_Create_ReusesExistingTag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "cook@example.com")

	indian, err := env.tags.Create(ctx, user.ID, service.TagInput{Name: "Indian"})
	require.NoError(t, err)

	recipe, err := env.recipes.Create(ctx, user.ID, recipeInput("Curry", "Indian", "Breakfast"))
	require.NoError(t, err)
	assert.Contains(t, tagIDs(recipe.Tags), indian.ID)

	tags, err := env.tags.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestRecipeService_Create_DoesNotReuseOtherUsersTag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "owner@example.com")
	other := env.newUser(t, "other@example.com")

	foreign, err := env.tags.Create(ctx, other.ID, service.TagInput{Name: "Vegan"})
	require.NoError(t, err)

	recipe, err := env.recipes.Create(ctx, owner.ID, recipeInput("Salad", "Vegan"))
	require.NoError(t, err)
	require.Len(t, recipe.Tags, 1)
	assert.NotEqual(t, foreign.ID, recipe.Tags[0].ID)
	assert.Equal(t, owner.ID, recipe.Tags[0].UserID)
}

func TestRecipeService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "cook@example.com")

	tests := []struct {
		name   string
		mutate func(in *service.RecipeInput)
		field  string
	}{
		{"blank title", func(in *service.RecipeInput) { in.Title = "   " }, "title"},
		{"missing time", func(in *service.RecipeInput) { in.TimeMinutes = nil }, "time_minutes"},
		{"negative time", func(in *service.RecipeInput) { in.TimeMinutes = ptr(-1) }, "time_minutes"},
		{"missing price", func(in *service.RecipeInput) { in.Price = nil }, "price"},
		{"negative price", func(in *service.RecipeInput) { in.Price = ptr(decimal.RequireFromString("-0.01")) }, "price"},
		{"long link", func(in *service.RecipeInput) { in.Link = string(make([]byte, 256)) }, "link"},
		{"blank tag", func(in *service.RecipeInput) { in.Tags = []service.TagInput{{Name: "ok"}, {Name: " "}} }, "tags[1].name"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := recipeInput("Curry")
			tc.mutate(&in)

			_, err := env.recipes.Create(ctx, user.ID, in)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}

	recipes, err := env.recipes.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, recipes, "nothing should be persisted on validation failure")

	tags, err := env.tags.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, tags, "valid tags next to an invalid one must not be created")
}

func TestRecipeService_CrossUserIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.newUser(t, "owner@example.com")
	other := env.newUser(t, "other@example.com")

	recipe, err := env.recipes.Create(ctx, owner.ID, recipeInput("Curry", "Indian"))
	require.NoError(t, err)
	_, err = env.recipes.Create(ctx, other.ID, recipeInput("Pasta"))
	require.NoError(t, err)

	_, err = env.recipes.Get(ctx, other.ID, recipe.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.recipes.Update(ctx, other.ID, recipe.ID, recipeInput("Stolen"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.recipes.Patch(ctx, other.ID, recipe.ID, service.RecipePatch{Title: ptr("Stolen")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = env.recipes.Delete(ctx, other.ID, recipe.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := env.recipes.List(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pasta", list[0].Title)

	got, err := env.recipes.Get(ctx, owner.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Curry", got.Title)
	assert.Equal(t, []string{"Indian"}, got.TagNames())
}

func TestRecipeService_List_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "cook@example.com")

	first, err := env.recipes.Create(ctx, user.ID, recipeInput("First"))
	require.NoError(t, err)
	second, err := env.recipes.Create(ctx, user.ID, recipeInput("Second"))
	require.NoError(t, err)

	list, err := env.recipes.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestRecipeService_Patch_TagsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "cook@example.com")

	recipe, err := env.recipes.Create(ctx, user.ID, recipeInput("Curry"))
	require.NoError(t, err)

	patch := service.RecipePatch{Tags: &[]service.TagInput{{Name: "Lunch"}, {Name: "Spicy"}}}
	first, err := env.recipes.Patch(ctx, user.ID, recipe.ID, patch)
	require.NoError(t, err)
	second, err := env.recipes.Patch(ctx, user.ID, recipe.ID, patch)
	require.NoError(t, err)

	assert.Equal(t, tagIDs(first.Tags), tagIDs(second.Tags))

	tags, err := env.tags.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestRecipeService_Patch_ReusedTagIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "cook@example.com")

	breakfast, err := env.tags.Create(ctx, user.ID, service.TagInput{Name: "Breakfast"})
	require.NoError(t, err)
	recipe, err := env.recipes.Create(ctx, user.ID, recipeInput("Eggs", "Breakfast"))
	require.NoError(t, err)

	lunch, err := env.tags.Create(ctx, user.ID, service.TagInput{Name: "Lunch"})
	require.NoError(t, err)

	updated, err := env.recipes.Patch(ctx, user.ID, recipe.ID, service.RecipePatch{
		Tags: &[]service.TagInput{{Name: "Lunch"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{lunch.ID}, tagIDs(updated.Tags))

	// The detached tag still exists.
	_, err = env.tags.Get(ctx, user.ID, breakfast.ID)
	assert.NoError(t, err)
}

func TestRecipeService_Patch_ClearAndAbsentTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "cook@example.com")

	recipe, err := env.recipes.Create(ctx, user.ID, recipeInput("Curry", "Indian", "Dinner"))
	require.NoError(t, err)

	// Absent tags leave membership untouched.
	updated, err := env.recipes.Patch(ctx, user.ID, recipe.ID, service.RecipePatch{Title: ptr("Hot Curry")})
	require.NoError(t, err)
	assert.Equal(t, "Hot Curry", updated.Title)
	assert.ElementsMatch(t, []string{"Indian", "Dinner"}, updated.TagNames())
	assert.Equal(t, "https://example.com/recipe.pdf", updated.Link)

	// Present but empty clears it.
	cleared, err := env.recipes.Patch(ctx, user.ID, recipe.ID, service.RecipePatch{Tags: &[]service.TagInput{}})
	require.NoError(t, err)
	assert.Empty(t, cleared.Tags)

	got, err := env.recipes.Get(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	tags, err := env.tags.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 2, "clearing must not delete tags")
}

func TestRecipeService_Patch_InvalidTagsKeepMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "cook@example.com")

	recipe, err := env.recipes.Create(ctx, user.ID, recipeInput("Curry", "Indian", "Dinner"))
	require.NoError(t, err)

	blank := service.RecipePatch{Tags: &[]service.TagInput{{Name: "Lunch"}, {Name: "  "}}}
	_, err = env.recipes.Patch(ctx, user.ID, recipe.ID, blank)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "tags[1].name")

	var null service.RecipePatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Changed","tags":null}`), &null))
	_, err = env.recipes.Patch(ctx, user.ID, recipe.ID, null)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "may not be null", verr.Fields["tags"])

	got, err := env.recipes.Get(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Curry", got.Title)
	assert.Equal(t, tagIDs(recipe.Tags), tagIDs(got.Tags))

	tags, err := env.tags.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 2, "no tag may be created by a rejected patch")
}

func TestRecipeInput_NullTagsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "cook@example.com")

	var in service.RecipeInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Curry","time_minutes":5,"price":"1.00","tags":null}`), &in))
	_, err := env.recipes.Create(ctx, user.ID, in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// An absent key is still fine.
	var absent service.RecipeInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Curry","time_minutes":5,"price":"1.00"}`), &absent))
	recipe, err := env.recipes.Create(ctx, user.ID, absent)
	require.NoError(t, err)
	assert.Empty(t, recipe.Tags)
}

func TestRecipeService_Update_ResetsOmittedFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "cook@example.com")

	in := recipeInput("Curry", "Indian")
	in.Description = "A hot one"
	recipe, err := env.recipes.Create(ctx, user.ID, in)
	require.NoError(t, err)

	full := service.RecipeInput{
		Title:       "Spaghetti",
		TimeMinutes: ptr(10),
		Price:       ptr(decimal.RequireFromString("2.50")),
	}
	updated, err := env.recipes.Update(ctx, user.ID, recipe.ID, full)
	require.NoError(t, err)

	got, err := env.recipes.Get(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ID, got.ID)
	assert.Equal(t, "Spaghetti", got.Title)
	assert.Equal(t, 10, got.TimeMinutes)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("2.5")))
	assert.Empty(t, got.Link)
	assert.Empty(t, got.Description)
	assert.Empty(t, got.Tags)
	assert.Equal(t, user.ID, got.UserID)
}

func TestRecipeService_Update_RequiresFullFieldSet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "cook@example.com")

	recipe, err := env.recipes.Create(ctx, user.ID, recipeInput("Curry"))
	require.NoError(t, err)

	_, err = env.recipes.Update(ctx, user.ID, recipe.ID, service.RecipeInput{Title: "Only a title"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	got, err := env.recipes.Get(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Curry", got.Title)
}

func TestRecipeService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "cook@example.com")

	recipe, err := env.recipes.Create(ctx, user.ID, recipeInput("Curry", "Indian"))
	require.NoError(t, err)

	require.NoError(t, env.recipes.Delete(ctx, user.ID, recipe.ID))

	_, err = env.recipes.Get(ctx, user.ID, recipe.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, env.recipes.Delete(ctx, user.ID, recipe.ID), domain.ErrNotFound)

	tags, err := env.tags.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestRecipeService_Create_TrimsTagNamesBeforeResolving(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "cook@example.com")

	first, err := env.recipes.Create(ctx, user.ID, recipeInput("Curry", "Dinner"))
	require.NoError(t, err)

	second, err := env.recipes.Create(ctx, user.ID, recipeInput("Stew", " Dinner ", "Dinner"))
	require.NoError(t, err)
	require.Len(t, second.Tags, 1)
	assert.Equal(t, first.Tags[0].ID, second.Tags[0].ID)
}
