package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"chathub-backend/models"
)

var (
	ErrUserExists   = errors.New("username already exists")
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	Create(identity, username, hashedPwd, email string) (*models.User, error)
	FindByIdentity(identity string) (*models.User, error)
	UpdateLastLogin(identity string, at time.Time) error
	UpdateProfile(identity string, upd models.ProfileUpdate) (*models.User, error)
}

type SQLiteUserRepo struct {
	conn *sql.DB
}

func NewSQLiteUserRepo(conn *sql.DB) *SQLiteUserRepo {
	return &SQLiteUserRepo{conn: conn}
}

func (r *SQLiteUserRepo) Create(identity, username, hashedPwd, email string) (*models.User, error) {
	u := &models.User{
		Identity:  identity,
		Username:  username,
		Password:  hashedPwd,
		Email:     email,
		Status:    "Available",
		CreatedAt: time.Now(),
	}

	_, err := r.conn.Exec(
		`INSERT INTO users (identity, username, password_hash, email, bio, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Identity, u.Username, u.Password, u.Email, u.Bio, u.Status, u.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return u, nil
}

func (r *SQLiteUserRepo) FindByIdentity(identity string) (*models.User, error) {
	row := r.conn.QueryRow(
		`SELECT identity, username, password_hash, email, bio, status, created_at, last_login
		 FROM users WHERE identity = ?`, identity)

	var u models.User
	var createdAt, lastLogin string
	err := row.Scan(&u.Identity, &u.Username, &u.Password, &u.Email, &u.Bio, &u.Status, &createdAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if lastLogin != "" {
		u.LastLogin, _ = time.Parse(time.RFC3339, lastLogin)
	}
	return &u, nil
}

func (r *SQLiteUserRepo) UpdateLastLogin(identity string, at time.Time) error {
	res, err := r.conn.Exec(
		`UPDATE users SET last_login = ? WHERE identity = ?`,
		at.UTC().Format(time.RFC3339), identity)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *SQLiteUserRepo) UpdateProfile(identity string, upd models.ProfileUpdate) (*models.User, error) {
	u, err := r.FindByIdentity(identity)
	if err != nil {
		return nil, err
	}

	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.Status != nil {
		u.Status = *upd.Status
	}

	_, err = r.conn.Exec(
		`UPDATE users SET bio = ?, status = ? WHERE identity = ?`,
		u.Bio, u.Status, identity)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// isUniqueViolation matches SQLite's primary-key constraint error without
// depending on driver error codes.
func isUniqueViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY constraint failed"))
}
