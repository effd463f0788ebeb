// Package auth holds user accounts, password hashing, and JWT/cookie helpers.
package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrUsernameTaken is returned by Create when the username already exists.
var ErrUsernameTaken = errors.New("username taken")

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Users reads and writes the users table.
type Users struct{ db *sql.DB }

func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

// Create validates input, checks uniqueness, hashes the password, and inserts a new user.
func (u *Users) Create(ctx context.Context, username, pw string) (*User, error) {
	username = normalizeUsername(username)
	if err := ValidateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = u.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, ErrUsernameTaken
	}
	h, err := hashPassword(pw)
	if err != nil {
		return nil, err
	}
	user := &User{
		ID:           GenID(),
		Username:     username,
		PasswordHash: h,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if _, err := u.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByUsername loads a user by case-insensitive username.
func (u *Users) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := u.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at
	                                  FROM users WHERE lower(username)=lower(?)`, normalizeUsername(username))
	return scanUser(row)
}

// FindByID loads a user by id.
func (u *Users) FindByID(ctx context.Context, id string) (*User, error) {
	row := u.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at
	                                  FROM users WHERE id=?`, id)
	return scanUser(row)
}

// Authenticate returns the user when username and password match.
func (u *Users) Authenticate(ctx context.Context, username, pw string) (*User, error) {
	user, err := u.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, pw) {
		return nil, errors.New("invalid password")
	}
	return user, nil
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		return nil, err
	}
	t, _ := time.Parse(time.RFC3339, created)
	u.CreatedAt = t
	return &u, nil
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword is a bcrypt verifier.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// ValidateSignup enforces basic username/password rules.
func ValidateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8–100 chars")
	}
	return nil
}

// GenID creates a 22-char URL-safe, crypto-random identifier (no padding).
func GenID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
