package httpadapter

import (
	"net/http"

	"github.com/rfp-optimize/platform/internal/auth"
	"github.com/rfp-optimize/platform/internal/core/domain"
)

func (rt *Router) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	role := domain.RoleClient
	if req.Role == string(domain.RoleAdmin) {
		role = domain.RoleAdmin
	}

	session, err := rt.auth.Register(r.Context(), auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	}, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (rt *Router) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var creds auth.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}

	session, err := rt.auth.Login(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
