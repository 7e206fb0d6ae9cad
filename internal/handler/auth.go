package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/msomdec/recipe-api/internal/domain"
	"github.com/msomdec/recipe-api/internal/service"
)

// AuthHandler handles the user account endpoints.
type AuthHandler struct {
	auth         *service.AuthService
	cookieSecure bool
	tokenTTL     time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, cookieSecure bool, tokenTTL time.Duration) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = service.DefaultTokenTTL
	}
	return &AuthHandler{auth: auth, cookieSecure: cookieSecure, tokenTTL: tokenTTL}
}

// HandleCreate registers a new account.
// POST /api/user/create
// Request:  {"email":"...","password":"...","name":"..."}
// Response: 201 {"id":1,"email":"...","name":"..."}
func (h *AuthHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// HandleToken exchanges credentials for a token.
// POST /api/user/token
// Request:  {"email":"...","password":"..."}
// Response: {"token":"...","user":{...}} plus the auth_token cookie
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusBadRequest, "Unable to authenticate with provided credentials.")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.tokenTTL.Seconds()),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserDTO(user),
	})
}

// HandleLogout clears the auth cookie.
// POST /api/user/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the authenticated user.
// GET /api/user/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserDTO(UserFromContext(r.Context())))
}

// HandleUpdateMe changes the authenticated user's name and/or password.
// PATCH /api/user/me
// Request: {"name":"...","password":"..."} (both optional)
func (h *AuthHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req service.ProfilePatch
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), UserFromContext(r.Context()).ID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}
