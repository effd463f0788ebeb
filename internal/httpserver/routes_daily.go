// internal/httpserver/routes_daily.go
//
// Daily challenge routes. Starting a daily game goes through
// POST /game/new {"mode":"daily"}; results are written when that game is
// restarted or finished. This file exposes:
//   - GET /daily/today       → today's date and whether the caller has played
//   - GET /daily/leaderboard → top results for today (or ?date=YYYY-MM-DD)

package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordscramble/internal/daily"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/today", s.handleDailyToday)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

type todayRes struct {
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleDailyToday reports whether the caller already has a result today.
func (s *Server) handleDailyToday(w http.ResponseWriter, r *http.Request) {
	date := daily.DateKey(s.now())
	player := anonID(r)
	if me := currentUser(r); me != nil {
		player = me.ID
	}
	var played bool
	if player != "" {
		var err error
		played, err = s.daily.AlreadyPlayed(r.Context(), player, date)
		if err != nil {
			logger(r).Error().Err(err).Msg("daily already played")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
	}
	writeJSON(w, http.StatusOK, todayRes{Date: date, Played: played})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = n
	}
	rows, err := s.daily.Leaderboard(r.Context(), date, limit)
	if err != nil {
		logger(r).Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
