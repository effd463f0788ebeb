// Package history records finished games and per-user totals in SQLite.
//
// Live sessions never read from here; it only backs /games/mine and /stats/me.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/wordscramble/internal/game"
)

// Game is one finished game row.
type Game struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	AnonymousID string    `json:"-"`
	Mode        game.Mode `json:"mode"`
	RootWord    string    `json:"rootWord"`
	Score       int       `json:"score"`
	Words       int       `json:"words"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// Stats are a user's running totals.
type Stats struct {
	UserID      string `json:"id"`
	GamesPlayed int    `json:"gamesPlayed"`
	BestScore   int    `json:"bestScore"`
	WordsFound  int    `json:"wordsFound"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// FromSnapshot builds a Game row for a session that has just finished.
func FromSnapshot(snap game.Snapshot, finishedAt time.Time) Game {
	return Game{
		ID:         fmt.Sprintf("%s-%d", snap.ID, snap.Round),
		Mode:       snap.Mode,
		RootWord:   snap.RootWord,
		Score:      snap.Score,
		Words:      len(snap.UsedWords),
		StartedAt:  snap.StartedAt,
		FinishedAt: finishedAt.UTC(),
	}
}

// RecordGame inserts g and, for signed-in owners, bumps their totals in the
// same transaction. Recording the same game twice is a no-op. A game owned by
// a user is never stored under a guest id.
func (s *Store) RecordGame(ctx context.Context, g Game) error {
	if g.UserID == "" && g.AnonymousID == "" {
		return errors.New("history: game has no owner")
	}
	if g.UserID != "" {
		g.AnonymousID = ""
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO games
		    (id, user_id, anonymous_id, mode, root_word, score, words, started_at, finished_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		g.ID, nullable(g.UserID), nullable(g.AnonymousID), string(g.Mode), g.RootWord,
		g.Score, g.Words, g.StartedAt.UTC().Format(time.RFC3339), g.FinishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 && g.UserID != "" {
		if err := bumpStats(ctx, tx, g.UserID, g.Score, g.Words); err != nil {
			return fmt.Errorf("bump stats: %w", err)
		}
	}
	return tx.Commit()
}

// bumpStats increments games played and words found and raises the best score.
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, score, words int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET games_played = games_played + 1,
		    words_found  = words_found + ?,
		    best_score   = MAX(best_score, ?)
		WHERE id=?`, words, score, userID)
	return err
}

// RecentGames returns a user's most recent finished games, newest first.
func (s *Store) RecentGames(ctx context.Context, userID string, limit int) ([]Game, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mode, root_word, score, words, started_at, finished_at
		FROM games WHERE user_id=? ORDER BY finished_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Game{}
	for rows.Next() {
		var (
			g                 Game
			mode              string
			started, finished string
		)
		if err := rows.Scan(&g.ID, &mode, &g.RootWord, &g.Score, &g.Words, &started, &finished); err != nil {
			return nil, err
		}
		g.UserID = userID
		g.Mode = game.Mode(mode)
		g.StartedAt = mustParse(started)
		g.FinishedAt = mustParse(finished)
		out = append(out, g)
	}
	return out, rows.Err()
}

// Stats loads a user's totals.
func (s *Store) Stats(ctx context.Context, userID string) (Stats, error) {
	st := Stats{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		`SELECT games_played, best_score, words_found FROM users WHERE id=?`, userID,
	).Scan(&st.GamesPlayed, &st.BestScore, &st.WordsFound)
	return st, err
}

// ClaimAnonymous moves a guest's games to a user account and credits them.
// Games that already belong to an account are left alone.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT score, words FROM games WHERE anonymous_id=? AND user_id IS NULL`, anonID)
	if err != nil {
		return err
	}
	type sw struct{ score, words int }
	var claimed []sw
	for rows.Next() {
		var x sw
		if err := rows.Scan(&x.score, &x.words); err != nil {
			rows.Close()
			return err
		}
		claimed = append(claimed, x)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=? AND user_id IS NULL`, userID, anonID); err != nil {
		return err
	}
	for _, x := range claimed {
		if err := bumpStats(ctx, tx, userID, x.score, x.words); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
