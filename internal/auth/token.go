package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields carried in an auth token.
type Claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 auth tokens.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
}

// Sign creates a token for id/username that expires after TTL.
func (t Tokens) Sign(id, username string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(t.TTL)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID:       id,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := tok.SignedString(t.Secret)
	return ss, exp, err
}

// Parse verifies a token and returns its claims.
func (t Tokens) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.ID == "" || claims.Username == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Cookies writes the auth and anonymous-player cookies.
type Cookies struct {
	Name   string // auth token cookie name
	Secure bool   // production: Secure + SameSite=None
}

func (c Cookies) sameSite() http.SameSite {
	if c.Secure {
		return http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return http.SameSiteLaxMode
}

// SetAuth writes the auth token cookie.
func (c Cookies) SetAuth(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
		Expires:  exp,
	})
}

// ClearAuth deletes the auth token cookie.
func (c Cookies) ClearAuth(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
		MaxAge:   -1,
	})
}

// SetAnon writes a long-lived anonymous player cookie.
func (c Cookies) SetAnon(w http.ResponseWriter, name, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
}

// BearerOrCookie extracts a bearer token from the Authorization header or the auth cookie.
func (c Cookies) BearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if ck, err := r.Cookie(c.Name); err == nil {
		return ck.Value
	}
	return ""
}
