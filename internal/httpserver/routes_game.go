// internal/httpserver/routes_game.go
//
// Game endpoints under /game:
//   - POST /game/new      → start a session ("random" or "daily" root word)
//   - GET  /game/{id}     → current snapshot
//   - POST /game/submit   → submit one word
//   - POST /game/restart  → record the finished game, pick a new root word
//                           (a daily game only on the day it started)
//   - POST /game/finish   → record the finished game, drop the session
//
// Rejections are normal 200 responses carrying the rejection reason plus the
// title/message to show; HTTP errors are reserved for bad requests and
// unknown sessions.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordscramble/internal/daily"
	"github.com/robalobadob/wordscramble/internal/game"
	"github.com/robalobadob/wordscramble/internal/history"
	"github.com/robalobadob/wordscramble/internal/store"
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/submit", s.handleSubmit)
		r.Post("/restart", s.handleRestart)
		r.Post("/finish", s.handleFinish)
		r.Get("/{id}", s.handleGetGame)
	})
}

// newGameReq is the payload for POST /game/new.
type newGameReq struct {
	Mode string `json:"mode"` // "random" (default) | "daily"
}

// handleNewGame creates a session owned by the caller.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	mode := game.Mode(strings.ToLower(strings.TrimSpace(req.Mode)))
	if mode == "" {
		mode = game.ModeRandom
	}

	cands, err := s.words.CandidateRootWords()
	if err != nil {
		logger(r).Error().Err(err).Msg("candidate root words")
		writeError(w, http.StatusServiceUnavailable, "no_root_words")
		return
	}

	opts := []game.Option{game.WithMode(mode), game.WithLanguage(s.cfg.Language), game.WithClock(s.now)}
	anon := s.ensureAnonID(w, r)
	entry := &store.Entry{AnonymousID: anon}
	if me := currentUser(r); me != nil {
		entry.UserID = me.ID
	}

	switch mode {
	case game.ModeRandom:
	case game.ModeDaily:
		now := s.now()
		player := entry.UserID
		if player == "" {
			player = anon
		}
		played, err := s.daily.AlreadyPlayed(r.Context(), player, daily.DateKey(now))
		if err != nil {
			logger(r).Warn().Err(err).Msg("daily already played")
		}
		if played {
			writeError(w, http.StatusConflict, "daily_already_played")
			return
		}
		opts = append(opts, game.WithPicker(daily.Picker(now, s.cfg.DailySalt)))
	default:
		writeError(w, http.StatusBadRequest, "unknown_mode")
		return
	}

	sess, err := game.NewSession(cands, s.words.Dictionary(), opts...)
	if err != nil {
		logger(r).Error().Err(err).Msg("new session")
		writeError(w, http.StatusServiceUnavailable, "no_root_words")
		return
	}
	entry.Session = sess
	if err := s.store.Save(r.Context(), entry); err != nil {
		logger(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	snap := sess.Snapshot()
	logger(r).Info().Str("gameId", snap.ID).Str("mode", string(mode)).Str("root", snap.RootWord).Msg("game started")
	writeJSON(w, http.StatusOK, snap)
}

// handleGetGame returns the caller's session snapshot.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	e, ok := s.ownedEntry(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, e.Session.Snapshot())
}

// submitReq is the payload for POST /game/submit.
type submitReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
}

// submitRes flattens a game.Outcome for the client.
type submitRes struct {
	Accepted   bool          `json:"accepted"`
	Word       string        `json:"word"`
	Reason     game.Reason   `json:"reason,omitempty"`
	Title      string        `json:"title,omitempty"`
	Message    string        `json:"message,omitempty"`
	ScoreDelta int           `json:"scoreDelta"`
	Score      int           `json:"score"`
	Game       game.Snapshot `json:"game"`
}

// handleSubmit runs one word through the session.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	e, ok := s.ownedEntry(w, r, req.GameID)
	if !ok {
		return
	}

	out, snap := e.Session.SubmitSnapshot(req.Word)
	res := submitRes{
		Accepted:   out.Accepted,
		Word:       out.Word,
		ScoreDelta: out.ScoreDelta,
		Score:      out.Score,
		Game:       snap,
	}
	ev := logger(r).Debug().Str("gameId", req.GameID).Str("word", out.Word).Int("score", out.Score)
	if rej := out.Rejection; rej != nil {
		res.Reason = rej.Reason
		res.Title = rej.Title()
		res.Message = rej.Message()
		ev = ev.Str("reason", string(rej.Reason))
	}
	ev.Bool("accepted", out.Accepted).Msg("submission")
	writeJSON(w, http.StatusOK, res)
}

// gameReq is the payload for POST /game/restart and /game/finish.
type gameReq struct {
	GameID string `json:"gameId"`
}

// handleRestart records the current game and starts a new one in the same session.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	var req gameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	e, ok := s.ownedEntry(w, r, req.GameID)
	if !ok {
		return
	}
	cands, err := s.words.CandidateRootWords()
	if err != nil {
		logger(r).Error().Err(err).Msg("candidate root words")
		writeError(w, http.StatusServiceUnavailable, "no_root_words")
		return
	}

	snap := e.Session.Snapshot()
	// The daily root is fixed to its date; a new day needs a new daily game.
	if snap.Mode == game.ModeDaily && daily.DateKey(snap.StartedAt) != daily.DateKey(s.now()) {
		writeError(w, http.StatusConflict, "daily_expired")
		return
	}
	s.recordFinished(r, e, snap)
	if _, err := e.Session.Restart(cands); err != nil {
		logger(r).Error().Err(err).Str("gameId", req.GameID).Msg("restart")
		status := http.StatusInternalServerError
		if errors.Is(err, game.ErrDataUnavailable) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, "restart_failed")
		return
	}
	writeJSON(w, http.StatusOK, e.Session.Snapshot())
}

// handleFinish records the game and forgets the session.
func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	var req gameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	e, ok := s.ownedEntry(w, r, req.GameID)
	if !ok {
		return
	}
	snap := e.Session.Snapshot()
	s.recordFinished(r, e, snap)
	if err := s.store.Delete(r.Context(), req.GameID); err != nil {
		logger(r).Warn().Err(err).Msg("delete session")
	}
	writeJSON(w, http.StatusOK, snap)
}

// ownedEntry loads a session and checks it belongs to the caller.
// Someone else's session is reported as not found.
func (s *Server) ownedEntry(w http.ResponseWriter, r *http.Request, id string) (*store.Entry, bool) {
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_game_id")
		return nil, false
	}
	e, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	var uid string
	if me := currentUser(r); me != nil {
		uid = me.ID
	}
	if !e.OwnedBy(uid, anonID(r)) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return e, true
}

// recordFinished persists a game that has ended (best effort, never fails the request).
// Games with no accepted words are not recorded.
func (s *Server) recordFinished(r *http.Request, e *store.Entry, snap game.Snapshot) {
	if len(snap.UsedWords) == 0 {
		return
	}
	now := s.now()
	g := history.FromSnapshot(snap, now)
	switch me := currentUser(r); {
	case me != nil:
		g.UserID = me.ID
	case e.UserID != "":
		g.UserID = e.UserID
	default:
		g.AnonymousID = e.AnonymousID
	}
	if err := s.history.RecordGame(r.Context(), g); err != nil {
		logger(r).Warn().Err(err).Str("gameId", snap.ID).Msg("record game")
	}

	if snap.Mode != game.ModeDaily {
		return
	}
	player := g.UserID
	if player == "" {
		player = g.AnonymousID
	}
	err := s.daily.InsertResult(r.Context(), daily.Result{
		UserID:    player,
		Date:      daily.DateKey(snap.StartedAt),
		RootWord:  snap.RootWord,
		Score:     snap.Score,
		Words:     len(snap.UsedWords),
		ElapsedMs: int(now.Sub(snap.StartedAt).Milliseconds()),
	})
	if err != nil {
		logger(r).Warn().Err(err).Str("gameId", snap.ID).Msg("record daily result")
	}
}
