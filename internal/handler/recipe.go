package handler

import (
	"net/http"

	"github.com/msomdec/recipe-api/internal/service"
)

// RecipeHandler serves the acting user's recipes as JSON. Recipes of other
// users are indistinguishable from missing ones.
type RecipeHandler struct {
	recipes *service.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// HandleList returns the user's recipes, newest first, without descriptions.
// GET /api/recipe/recipes
func (h *RecipeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	recipes, err := h.recipes.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]recipeDTO, len(recipes))
	for i := range recipes {
		out[i] = toRecipeDTO(&recipes[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreate creates a recipe owned by the authenticated user. Any owner
// field in the payload is ignored.
// POST /api/recipe/recipes
func (h *RecipeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req service.RecipeInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	recipe, err := h.recipes.Create(r.Context(), user.ID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecipeDetailDTO(recipe))
}

// HandleGet returns one recipe in detail.
// GET /api/recipe/recipes/{id}
func (h *RecipeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeDetailDTO(recipe))
}

// HandleUpdate replaces every field of a recipe.
// PUT /api/recipe/recipes/{id}
func (h *RecipeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.RecipeInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	recipe, err := h.recipes.Update(r.Context(), user.ID, id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeDetailDTO(recipe))
}

// HandlePatch updates the fields present in the payload. A "tags" key, even
// an empty list, replaces the tag set; without it the tags are kept.
// PATCH /api/recipe/recipes/{id}
func (h *RecipeHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.RecipePatch
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	recipe, err := h.recipes.Patch(r.Context(), user.ID, id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeDetailDTO(recipe))
}

// HandleDelete removes a recipe.
// DELETE /api/recipe/recipes/{id}
func (h *RecipeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.recipes.Delete(r.Context(), user.ID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
