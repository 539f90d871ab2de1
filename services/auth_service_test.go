package services

import (
	"os"
	"testing"

	"chathub-backend/config"
	"chathub-backend/db"
	"chathub-backend/models"
	"chathub-backend/repository"

	"github.com/stretchr/testify/require"
)

// newTestAuthService backs the credential store with a throwaway SQLite file.
func newTestAuthService(t *testing.T, ttlHours int) *AuthService {
	t.Helper()

	tmp, err := os.CreateTemp("", "chathub-test-*.db")
	require.NoError(t, err)
	tmp.Close()
	os.Remove(tmp.Name())

	conn, err := db.Open(tmp.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
		os.Remove(tmp.Name())
	})

	cfg := &config.Config{JWTSecret: "test-secret", SessionTTLHours: ttlHours}
	return NewAuthService(repository.NewSQLiteUserRepo(conn), cfg)
}

func TestRegisterThenLogin(t *testing.T) {
	req := require.New(t)
	svc := newTestAuthService(t, 1)

	u, err := svc.Register("Alice", "secret123", "alice@example.com")
	req.NoError(err)
	req.Equal("alice", u.Identity, "identity is the lowercase handle")
	req.Equal("Alice", u.Username)

	token, logged, err := svc.Login("Alice", "secret123")
	req.NoError(err)
	req.NotEmpty(token)
	req.Equal("alice", logged.Identity)

	identity, username, err := svc.ValidateSession(token)
	req.NoError(err)
	req.Equal("alice", identity)
	req.Equal("Alice", username)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	req := require.New(t)
	svc := newTestAuthService(t, 1)

	_, err := svc.Register("alice", "secret123", "")
	req.NoError(err)

	// Same handle with different casing collides on identity.
	_, err = svc.Register("ALICE", "secret123", "")
	req.ErrorIs(err, repository.ErrUserExists)
}

func TestLogin_WrongPassword(t *testing.T) {
	req := require.New(t)
	svc := newTestAuthService(t, 1)

	_, err := svc.Register("alice", "secret123", "")
	req.NoError(err)

	_, _, err = svc.Login("alice", "nope")
	req.ErrorIs(err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody", "secret123")
	req.ErrorIs(err, ErrInvalidCredentials)
}

func TestValidateSession_GarbageToken(t *testing.T) {
	svc := newTestAuthService(t, 1)

	_, _, err := svc.ValidateSession("not-a-token")
	require.ErrorIs(t, err, ErrSessionInvalid)
}

func TestValidateSession_Expired(t *testing.T) {
	req := require.New(t)
	svc := newTestAuthService(t, -1) // tokens are born expired

	_, err := svc.Register("alice", "secret123", "")
	req.NoError(err)
	token, _, err := svc.Login("alice", "secret123")
	req.NoError(err)

	_, _, err = svc.ValidateSession(token)
	req.ErrorIs(err, ErrSessionExpired)
}

func TestLogout_RevokesSession(t *testing.T) {
	req := require.New(t)
	svc := newTestAuthService(t, 1)

	_, err := svc.Register("alice", "secret123", "")
	req.NoError(err)
	token, _, err := svc.Login("alice", "secret123")
	req.NoError(err)

	_, _, err = svc.ValidateSession(token)
	req.NoError(err)

	svc.Logout(token)

	_, _, err = svc.ValidateSession(token)
	req.ErrorIs(err, ErrSessionInvalid)

	// A second login mints a fresh session id; the revocation does not
	// outlive the token it was aimed at.
	token2, _, err := svc.Login("alice", "secret123")
	req.NoError(err)
	_, _, err = svc.ValidateSession(token2)
	req.NoError(err)
}

func TestUpdateProfile(t *testing.T) {
	req := require.New(t)
	svc := newTestAuthService(t, 1)

	_, err := svc.Register("alice", "secret123", "")
	req.NoError(err)

	bio := "hello there"
	u, err := svc.UpdateProfile("Alice", models.ProfileUpdate{Bio: &bio})
	req.NoError(err)
	req.Equal("hello there", u.Bio)
	req.Equal("Available", u.Status, "untouched field keeps its value")

	stored, err := svc.Profile("alice")
	req.NoError(err)
	req.Equal("hello there", stored.Bio)
}
