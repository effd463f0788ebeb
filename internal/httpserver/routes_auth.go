// internal/httpserver/routes_auth.go
//
// Account routes:
//   - POST /auth/signup, /auth/login, /auth/logout
//   - GET  /auth/me, /stats/me, /games/mine (require auth)
//
// Signing up or logging in claims the guest's recorded games and daily
// results for the account.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordscramble/internal/auth"
)

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers authentication + gated routes.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, currentUser(r))
		})
		r.Get("/stats/me", s.handleStats)
		r.Get("/games/mine", s.handleMyGames)
	})
}

// handleSignup creates a new user, signs a JWT, sets the auth cookie, and claims guest history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.users.Create(r.Context(), body.Username, body.Password)
	if errors.Is(err, auth.ErrUsernameTaken) {
		writeError(w, http.StatusConflict, "username_taken")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.signIn(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleLogin authenticates the user, sets the cookie, and claims guest history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.users.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if !s.signIn(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": u.ID, "username": u.Username})
}

// signIn issues the auth cookie and moves guest games to the account.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, u *auth.User) bool {
	tok, exp, err := s.tokens.Sign(u.ID, u.Username)
	if err != nil {
		logger(r).Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.cookies.SetAuth(w, tok, exp)
	if err := s.history.ClaimAnonymous(r.Context(), anonID(r), u.ID); err != nil {
		logger(r).Warn().Err(err).Str("user", u.ID).Msg("claim anon games")
	}
	if err := s.daily.ClaimAnonymous(r.Context(), anonID(r), u.ID); err != nil {
		logger(r).Warn().Err(err).Str("user", u.ID).Msg("claim anon daily results")
	}
	return true
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.cookies.ClearAuth(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.history.Stats(r.Context(), currentUser(r).ID)
	if err != nil {
		logger(r).Error().Err(err).Msg("load stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.history.RecentGames(r.Context(), currentUser(r).ID, 50)
	if err != nil {
		logger(r).Error().Err(err).Msg("recent games")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, games)
}
