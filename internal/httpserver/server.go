// internal/httpserver/server.go
//
// HTTP server wiring for the Word Scramble backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): mounted under /game.
//   - Daily leaderboard: mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is present;
//     routes can still run for guests, who are tracked by an anonymous cookie.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/internal/auth"
	"github.com/robalobadob/wordscramble/internal/config"
	"github.com/robalobadob/wordscramble/internal/daily"
	"github.com/robalobadob/wordscramble/internal/history"
	"github.com/robalobadob/wordscramble/internal/store"
	"github.com/robalobadob/wordscramble/internal/words"
)

const anonCookieName = "scramble_anon"

// Server bundles the router, live sessions, word lists, and DB-backed stores.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	store   store.Store
	words   *words.Lists
	users   *auth.Users
	history *history.Store
	daily   *daily.Store
	tokens  auth.Tokens
	cookies auth.Cookies
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, wl *words.Lists, db *sql.DB) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		store:   st,
		words:   wl,
		users:   auth.NewUsers(db),
		history: history.NewStore(db),
		daily:   daily.NewStore(db),
		tokens:  auth.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL()},
		cookies: auth.Cookies{Name: cfg.CookieName, Secure: cfg.Production()},
		now:     time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(requestTimeout(cfg)))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"wordscramble-go","endpoints":["/health","POST /game/new","POST /game/submit","POST /game/restart","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		c, d := s.words.Stats()
		writeJSON(w, http.StatusOK, map[string]int{"candidates": c, "dictionary": d, "sessions": s.store.Len()})
	})

	// Game + daily — OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth)
		s.mountGame(r)
		s.mountDaily(r)
	})

	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one line per request through the request-scoped logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("reqId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("took", d).
		Msg("request")
})

// ------------------------------ identity -----------------------------------

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

func currentUser(r *http.Request) *authUser {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return me
}

// userFromToken resolves a bearer/cookie token to a still-existing user.
func (s *Server) userFromToken(r *http.Request) *authUser {
	tok := s.cookies.BearerOrCookie(r)
	if tok == "" {
		return nil
	}
	claims, err := s.tokens.Parse(tok)
	if err != nil {
		return nil
	}
	u, err := s.users.FindByID(r.Context(), claims.ID)
	if err != nil {
		return nil
	}
	return &authUser{ID: u.ID, Username: u.Username}
}

// withOptionalAuth decorates requests with user context if a valid JWT is present.
// It never 401s.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if me := s.userFromToken(r); me != nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, me))
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth enforces a valid JWT and injects authUser into request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		me := s.userFromToken(r)
		if me == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, me)))
	})
}

// anonID returns the guest cookie value, or "" if none is set.
func anonID(r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil {
		return c.Value
	}
	return ""
}

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if id := anonID(r); id != "" {
		return id
	}
	id := auth.GenID()
	s.cookies.SetAnon(w, anonCookieName, id)
	return id
}

// ------------------------------- small util --------------------------------

func requestTimeout(cfg config.Config) time.Duration {
	if cfg.RequestTimeout > 0 {
		return cfg.RequestTimeout
	}
	return 10 * time.Second
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// logger returns the request-scoped logger.
func logger(r *http.Request) *zerolog.Logger { return hlog.FromRequest(r) }
