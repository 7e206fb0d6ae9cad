package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/recipe-api/internal/domain"
	"github.com/msomdec/recipe-api/internal/service"
	"github.com/msomdec/recipe-api/internal/view"
)

// AdminHandler serves the staff-only user management pages.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// HandleUserList renders the user list.
// GET /admin/users
func (h *AdminHandler) HandleUserList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	users, err := h.admin.SearchUsers(r.Context(), q)
	if err != nil {
		slog.Error("list users", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	renderPage(w, r, http.StatusOK, view.UserListPage(users, q))
}

// HandleUserSearch patches the user rows for the current search signal.
// GET /admin/users/search
func (h *AdminHandler) HandleUserSearch(w http.ResponseWriter, r *http.Request) {
	var signals struct {
		Q string `json:"q"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	users, err := h.admin.SearchUsers(r.Context(), signals.Q)
	if err != nil {
		slog.Error("search users", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(
		view.UserRows(users),
		datastar.WithSelectorID(view.UserRowsID),
		datastar.WithModeInner(),
	)
}

// HandleUserAddForm renders the add-user form.
// GET /admin/users/add
func (h *AdminHandler) HandleUserAddForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, view.UserAddPage("", "", ""))
}

// HandleUserAdd creates a user from the add form.
// POST /admin/users/add
func (h *AdminHandler) HandleUserAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	name := r.PostFormValue("name")
	password := r.PostFormValue("password")
	if password != r.PostFormValue("password2") {
		renderPage(w, r, http.StatusBadRequest, view.UserAddPage(email, name, "The two password fields didn't match."))
		return
	}

	in := service.RegisterInput{Email: email, Name: name, Password: password}
	user, err := h.admin.AddUser(r.Context(), in, r.PostFormValue("is_staff") != "")
	if err != nil {
		status, msg := adminFormError(err)
		if status == http.StatusInternalServerError {
			slog.Error("add user", "error", err)
		}
		renderPage(w, r, status, view.UserAddPage(email, name, msg))
		return
	}

	slog.Info("admin added user", "user_id", user.ID, "by", UserFromContext(r.Context()).ID)
	http.Redirect(w, r, fmt.Sprintf("/admin/users/%d", user.ID), http.StatusSeeOther)
}

// HandleUserDetail renders the edit page for one user.
// GET /admin/users/{id}
func (h *AdminHandler) HandleUserDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.admin.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("get user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	renderPage(w, r, http.StatusOK, view.UserEditPage(user, ""))
}

// HandleUserUpdate saves the edit form.
// POST /admin/users/{id}
func (h *AdminHandler) HandleUserUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	in := service.AdminUserUpdate{
		Name:     r.PostFormValue("name"),
		IsActive: r.PostFormValue("is_active") != "",
		IsStaff:  r.PostFormValue("is_staff") != "",
	}
	user, err := h.admin.UpdateUser(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		status, msg := adminFormError(err)
		if status == http.StatusInternalServerError {
			slog.Error("update user", "error", err)
		}
		current, getErr := h.admin.GetUser(r.Context(), id)
		if getErr != nil {
			http.Error(w, http.StatusText(status), status)
			return
		}
		renderPage(w, r, status, view.UserEditPage(current, msg))
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/admin/users/%d", user.ID), http.StatusSeeOther)
}

func adminFormError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "A user with that email already exists."
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "An unexpected error occurred. Please try again."
	}
}

func renderPage(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render page", "error", err)
	}
}
