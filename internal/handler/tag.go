package handler

import (
	"net/http"

	"github.com/msomdec/recipe-api/internal/service"
)

// TagHandler serves the acting user's tags as JSON.
type TagHandler struct {
	tags *service.TagService
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tags *service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// HandleList returns the user's tags ordered by name, descending.
// GET /api/recipe/tags
func (h *TagHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	tags, err := h.tags.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTagDTOs(tags))
}

// HandleCreate creates a tag.
// POST /api/recipe/tags
func (h *TagHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req service.TagInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	tag, err := h.tags.Create(r.Context(), user.ID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTagDTO(tag))
}

// HandleGet returns one tag.
// GET /api/recipe/tags/{id}
func (h *TagHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	tag, err := h.tags.Get(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTagDTO(tag))
}

// HandleUpdate renames a tag.
// PUT /api/recipe/tags/{id}
func (h *TagHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.TagInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	tag, err := h.tags.Update(r.Context(), user.ID, id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTagDTO(tag))
}

// HandlePatch applies a partial update.
// PATCH /api/recipe/tags/{id}
func (h *TagHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.TagPatch
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	tag, err := h.tags.Patch(r.Context(), user.ID, id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTagDTO(tag))
}

// HandleDelete removes a tag from the user's collection and from every
// recipe using it.
// DELETE /api/recipe/tags/{id}
func (h *TagHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.tags.Delete(r.Context(), user.ID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
