package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/snippets/internal/apperror"
	"github.com/sakif/snippets/internal/auth"
	"github.com/sakif/snippets/internal/service"
)

const stateCookieName = "oauth_state"

// AuthHandler manages accounts and sessions:
//   - HandleRegister / HandleLogin   → username+password, issues the token cookie
//   - HandleGitHubLogin / Callback   → GitHub OAuth (only when configured)
//   - HandleLogout                   → clears the cookie
//   - HandleMe / HandleDeleteMe      → the current account
type AuthHandler struct {
	auth   *service.AuthService
	users  *service.UserService
	tokens *auth.TokenService
	github *auth.GitHubProvider // nil when GitHub login is not configured
	logger *slog.Logger
}

func NewAuthHandler(
	authService *service.AuthService,
	users *service.UserService,
	tokens *auth.TokenService,
	github *auth.GitHubProvider,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		users:  users,
		tokens: tokens,
		github: github,
		logger: logger,
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// setTokenCookie stores the JWT in an HttpOnly cookie that lives as long as
// the token does.
func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// respond sets the token cookie and writes the result with the user's
// snippet ids filled in.
func (h *AuthHandler) respond(w http.ResponseWriter, r *http.Request, status int, result *service.AuthResult) {
	user, err := h.users.Get(r.Context(), result.User.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	result.User = user

	h.setTokenCookie(w, result.Token)
	writeJSON(w, status, result)
}

// HandleRegister creates a username/password account and logs it in.
//
// HTTP: POST /auth/register
// Body: {"username": "alice", "password": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Register(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respond(w, r, http.StatusCreated, result)
}

// HandleLogin checks credentials and issues a token.
//
// HTTP: POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respond(w, r, http.StatusOK, result)
}

// HandleLogout clears the token cookie. Tokens are stateless, so a copied
// token stays valid until it expires.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearTokenCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleGitHubLogin redirects to GitHub's authorization page. A random state
// value goes into a short-lived cookie and is checked on callback (CSRF).
//
// HTTP: GET /auth/github/login
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow: verify state, exchange the
// code, upsert the account, set the token cookie, redirect home.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		writeError(w, apperror.ValidationFailed("state", "invalid OAuth state"))
		return
	}

	q := r.URL.Query()
	if q.Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		writeError(w, apperror.ValidationFailed("state", "invalid OAuth state"))
		return
	}

	// Single use.
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

	if errParam := q.Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := q.Get("code")
	if code == "" {
		writeError(w, apperror.ValidationFailed("code", "missing OAuth code"))
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		writeError(w, apperror.Unauthorized("GitHub authentication failed"))
		return
	}

	result, err := h.auth.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setTokenCookie(w, result.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleMe returns the authenticated user with their snippet ids.
//
// HTTP: GET /api/me (RequireAuth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleDeleteMe deletes the account together with its snippets and logs out.
//
// HTTP: DELETE /api/me (RequireAuth)
func (h *AuthHandler) HandleDeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	if err := h.users.Delete(r.Context(), userID, userID); err != nil {
		writeError(w, err)
		return
	}

	clearTokenCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
