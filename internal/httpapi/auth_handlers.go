package httpapi

import (
	"context"
	"net/http"
	"time"

	"woopm.dev/internal/api"
	"woopm.dev/internal/audit"
	"woopm.dev/internal/auth"
)

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginCredentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.backend.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		a.audit(r.Context(), audit.EventLoginFailed, map[string]any{"email": req.Email})
		handleBackendError(w, r, err)
		return
	}
	a.issue(w, r, user, audit.EventLogin)
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterData
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.backend.Register(r.Context(), req)
	if err != nil {
		handleBackendError(w, r, err)
		return
	}
	a.issue(w, r, user, audit.EventRegister)
}

func (a *API) issue(w http.ResponseWriter, r *http.Request, user api.User, event string) {
	token, expiresAt, err := auth.GenerateToken(user.ID, auth.TokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	ctx := auth.ContextWithUser(r.Context(), user.ID)
	a.audit(ctx, event, map[string]any{
		"email":      user.Email,
		"expires_at": expiresAt.Format(time.RFC3339),
	})

	respond(w, http.StatusOK, api.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (a *API) audit(ctx context.Context, event string, fields map[string]any) {
	_ = audit.LogEvent(ctx, event, fields)
}
