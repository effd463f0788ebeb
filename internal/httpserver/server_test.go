package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordscramble/internal/config"
	"github.com/robalobadob/wordscramble/internal/db"
	"github.com/robalobadob/wordscramble/internal/game"
	"github.com/robalobadob/wordscramble/internal/store"
	"github.com/robalobadob/wordscramble/internal/words"
)

var testNow = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	srv   *Server
	ts    *httptest.Server
	clock *testClock
}

// testClock is a settable clock shared with the server's handlers.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	start := filepath.Join(dir, "start.txt")
	require.NoError(t, os.WriteFile(start, []byte("silkworm\n"), 0o644))
	wl, err := words.Load(words.Config{StartFile: start})
	require.NoError(t, err)

	conn, err := db.Open(filepath.Join(dir, "app.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { _ = conn.Close() })

	cfg := config.Config{
		JWTSecret:      "test-secret",
		JWTExpiresDays: 1,
		CookieName:     "scramble_token",
		ClientOrigin:   "http://localhost:5173",
		DailySalt:      "salt",
		Language:       "en",
		RequestTimeout: 5 * time.Second,
	}
	srv := New(cfg, store.NewMemoryStore(), wl, conn)
	clock := &testClock{t: testNow}
	srv.now = clock.Now

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &testEnv{srv: srv, ts: ts, clock: clock}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (e *testEnv) do(t *testing.T, c *http.Client, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := c.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func (e *testEnv) newGame(t *testing.T, c *http.Client, mode string) game.Snapshot {
	t.Helper()
	var snap game.Snapshot
	status := e.do(t, c, http.MethodPost, "/game/new", map[string]string{"mode": mode}, &snap)
	require.Equal(t, http.StatusOK, status)
	return snap
}

func (e *testEnv) submit(t *testing.T, c *http.Client, id, word string) submitRes {
	t.Helper()
	var res submitRes
	status := e.do(t, c, http.MethodPost, "/game/submit", submitReq{GameID: id, Word: word}, &res)
	require.Equal(t, http.StatusOK, status)
	return res
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	var out map[string]bool
	status := env.do(t, newClient(t), http.MethodGet, "/health", nil, &out)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, out["ok"])
}

func TestGameFlow(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)

	snap := env.newGame(t, c, "")
	assert.Equal(t, "silkworm", snap.RootWord)
	assert.Equal(t, game.ModeRandom, snap.Mode)
	assert.Empty(t, snap.UsedWords)

	res := env.submit(t, c, snap.ID, " Silk ")
	assert.True(t, res.Accepted)
	assert.Equal(t, "silk", res.Word)
	assert.Equal(t, 5, res.ScoreDelta)
	assert.Equal(t, 5, res.Score)
	assert.Equal(t, []string{"silk"}, res.Game.UsedWords)

	res = env.submit(t, c, snap.ID, "silk")
	assert.False(t, res.Accepted)
	assert.Equal(t, game.ReasonAlreadyUsed, res.Reason)
	assert.Equal(t, "Word used already", res.Title)
	assert.Equal(t, -2, res.ScoreDelta)
	assert.Equal(t, 3, res.Score)

	res = env.submit(t, c, snap.ID, "silkworms")
	assert.Equal(t, game.ReasonNotSubsetOfRoot, res.Reason)
	assert.Equal(t, "You can't spell 'silkworms' from 'silkworm'", res.Message)
	assert.Equal(t, 1, res.Score)

	res = env.submit(t, c, snap.ID, "mors")
	assert.Equal(t, game.ReasonNotARealWord, res.Reason)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, -1, res.ScoreDelta)

	var got game.Snapshot
	status := env.do(t, c, http.MethodGet, "/game/"+snap.ID, nil, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"silk"}, got.UsedWords)

	var restarted game.Snapshot
	status = env.do(t, c, http.MethodPost, "/game/restart", gameReq{GameID: snap.ID}, &restarted)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, snap.ID, restarted.ID)
	assert.Equal(t, 2, restarted.Round)
	assert.Empty(t, restarted.UsedWords)
	assert.Zero(t, restarted.Score)
}

func TestGame_OtherPlayersCannotUseSession(t *testing.T) {
	env := newTestEnv(t)
	owner := newClient(t)
	other := newClient(t)

	snap := env.newGame(t, owner, "random")

	status := env.do(t, other, http.MethodPost, "/game/submit", submitReq{GameID: snap.ID, Word: "silk"}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status = env.do(t, other, http.MethodGet, "/game/"+snap.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGame_BadRequests(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)

	status := env.do(t, c, http.MethodPost, "/game/new", map[string]string{"mode": "hard"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = env.do(t, c, http.MethodPost, "/game/submit", submitReq{Word: "silk"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = env.do(t, c, http.MethodPost, "/game/submit", submitReq{GameID: "nope", Word: "silk"}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGame_FinishDropsSession(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)

	snap := env.newGame(t, c, "")
	env.submit(t, c, snap.ID, "silk")

	var final game.Snapshot
	status := env.do(t, c, http.MethodPost, "/game/finish", gameReq{GameID: snap.ID}, &final)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5, final.Score)
	assert.Zero(t, env.srv.store.Len())
}

func TestDaily_OncePerDayAndLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)

	snap := env.newGame(t, c, "daily")
	assert.Equal(t, game.ModeDaily, snap.Mode)
	env.submit(t, c, snap.ID, "silk")
	env.submit(t, c, snap.ID, "worm")

	status := env.do(t, c, http.MethodPost, "/game/finish", gameReq{GameID: snap.ID}, nil)
	require.Equal(t, http.StatusOK, status)

	var today todayRes
	status = env.do(t, c, http.MethodGet, "/daily/today", nil, &today)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2026-10-17", today.Date)
	assert.True(t, today.Played)

	status = env.do(t, c, http.MethodPost, "/game/new", map[string]string{"mode": "daily"}, nil)
	assert.Equal(t, http.StatusConflict, status)

	var lb lbRes
	status = env.do(t, c, http.MethodGet, "/daily/leaderboard", nil, &lb)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 11, lb.Top[0].Score)
	assert.Equal(t, 2, lb.Top[0].Words)

	status = env.do(t, c, http.MethodGet, "/daily/leaderboard?date=yesterday", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAuth_SignupClaimsGuestGamesAndStats(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)

	status := env.do(t, c, http.MethodGet, "/stats/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Play as a guest first.
	snap := env.newGame(t, c, "")
	env.submit(t, c, snap.ID, "silk")
	status = env.do(t, c, http.MethodPost, "/game/finish", gameReq{GameID: snap.ID}, nil)
	require.Equal(t, http.StatusOK, status)

	status = env.do(t, c, http.MethodPost, "/auth/signup", credentialsReq{Username: "scrambler", Password: "password123"}, nil)
	require.Equal(t, http.StatusOK, status)

	status = env.do(t, c, http.MethodPost, "/auth/signup", credentialsReq{Username: "Scrambler", Password: "password123"}, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Then as the signed-in user.
	snap = env.newGame(t, c, "")
	env.submit(t, c, snap.ID, "silk")
	env.submit(t, c, snap.ID, "worm")
	status = env.do(t, c, http.MethodPost, "/game/restart", gameReq{GameID: snap.ID}, nil)
	require.Equal(t, http.StatusOK, status)

	var stats map[string]any
	status = env.do(t, c, http.MethodGet, "/stats/me", nil, &stats)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, stats["gamesPlayed"])
	assert.EqualValues(t, 11, stats["bestScore"])
	assert.EqualValues(t, 3, stats["wordsFound"])

	var mine []map[string]any
	status = env.do(t, c, http.MethodGet, "/games/mine", nil, &mine)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, mine, 2)

	status = env.do(t, c, http.MethodPost, "/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, status)
	status = env.do(t, c, http.MethodGet, "/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuth_LoggedOutFinishStaysWithOwner(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)

	status := env.do(t, c, http.MethodPost, "/auth/signup", credentialsReq{Username: "alice", Password: "password123"}, nil)
	require.Equal(t, http.StatusOK, status)
	snap := env.newGame(t, c, "")
	env.submit(t, c, snap.ID, "silk")

	// alice logs out and finishes on the same browser; bob signs up there next.
	status = env.do(t, c, http.MethodPost, "/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, status)
	status = env.do(t, c, http.MethodPost, "/game/finish", gameReq{GameID: snap.ID}, nil)
	require.Equal(t, http.StatusOK, status)
	status = env.do(t, c, http.MethodPost, "/auth/signup", credentialsReq{Username: "bob", Password: "password123"}, nil)
	require.Equal(t, http.StatusOK, status)

	var stats map[string]any
	status = env.do(t, c, http.MethodGet, "/stats/me", nil, &stats)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, stats["gamesPlayed"])
	var mine []map[string]any
	status = env.do(t, c, http.MethodGet, "/games/mine", nil, &mine)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, mine)

	alice := newClient(t)
	status = env.do(t, alice, http.MethodPost, "/auth/login", credentialsReq{Username: "alice", Password: "password123"}, nil)
	require.Equal(t, http.StatusOK, status)
	status = env.do(t, alice, http.MethodGet, "/stats/me", nil, &stats)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, stats["gamesPlayed"])
	assert.EqualValues(t, 5, stats["bestScore"])
	status = env.do(t, alice, http.MethodGet, "/games/mine", nil, &mine)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, mine, 1)
}

func TestDaily_SignupKeepsGuestResult(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)

	snap := env.newGame(t, c, "daily")
	env.submit(t, c, snap.ID, "silk")
	env.submit(t, c, snap.ID, "worm")
	status := env.do(t, c, http.MethodPost, "/game/finish", gameReq{GameID: snap.ID}, nil)
	require.Equal(t, http.StatusOK, status)

	var me authUser
	status = env.do(t, c, http.MethodPost, "/auth/signup", credentialsReq{Username: "daily", Password: "password123"}, &me)
	require.Equal(t, http.StatusOK, status)

	status = env.do(t, c, http.MethodPost, "/game/new", map[string]string{"mode": "daily"}, nil)
	assert.Equal(t, http.StatusConflict, status)

	var today todayRes
	status = env.do(t, c, http.MethodGet, "/daily/today", nil, &today)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, today.Played)

	var lb lbRes
	status = env.do(t, c, http.MethodGet, "/daily/leaderboard", nil, &lb)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, me.ID, lb.Top[0].UserID)
	assert.Equal(t, 11, lb.Top[0].Score)
}

func TestDaily_RestartAfterMidnightIsRefused(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)

	snap := env.newGame(t, c, "daily")
	env.submit(t, c, snap.ID, "silk")

	env.clock.Advance(24 * time.Hour)
	var errRes map[string]string
	status := env.do(t, c, http.MethodPost, "/game/restart", gameReq{GameID: snap.ID}, &errRes)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "daily_expired", errRes["error"])

	// Finishing still records the result under the day it was played.
	status = env.do(t, c, http.MethodPost, "/game/finish", gameReq{GameID: snap.ID}, nil)
	require.Equal(t, http.StatusOK, status)

	var lb lbRes
	status = env.do(t, c, http.MethodGet, "/daily/leaderboard?date=2026-10-17", nil, &lb)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 5, lb.Top[0].Score)

	status = env.do(t, c, http.MethodGet, "/daily/leaderboard?date=2026-10-18", nil, &lb)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, lb.Top)
}

func TestAuth_Login(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)

	status := env.do(t, c, http.MethodPost, "/auth/signup", credentialsReq{Username: "player", Password: "password123"}, nil)
	require.Equal(t, http.StatusOK, status)

	fresh := newClient(t)
	status = env.do(t, fresh, http.MethodPost, "/auth/login", credentialsReq{Username: "player", Password: "wrongpass"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = env.do(t, fresh, http.MethodPost, "/auth/login", credentialsReq{Username: "PLAYER", Password: "password123"}, nil)
	require.Equal(t, http.StatusOK, status)

	var me authUser
	status = env.do(t, fresh, http.MethodGet, "/auth/me", nil, &me)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "player", me.Username)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/game/new", nil)
	w := httptest.NewRecorder()
	env.srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
