package services

import (
	"errors"
	"strings"
	"sync"
	"time"

	"chathub-backend/config"
	"chathub-backend/models"
	"chathub-backend/repository"
	"chathub-backend/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionInvalid     = errors.New("invalid session")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService is the credential store the hub collaborates with. It is the
// only durable component; the hub itself calls ValidateSession exactly once
// per connection and otherwise never touches it.
type AuthService struct {
	users  repository.UserRepository
	config *config.Config

	mu      sync.Mutex
	revoked map[string]struct{} // jti of logged-out sessions
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		users:   userRepo,
		config:  cfg,
		revoked: make(map[string]struct{}),
	}
}

func (s *AuthService) Register(username, password, email string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	identity := strings.ToLower(username)
	return s.users.Create(identity, username, string(hashed), email)
}

func (s *AuthService) Login(username, password string) (string, *models.User, error) {
	if username == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	u, err := s.users.FindByIdentity(strings.ToLower(username))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	ttl := time.Duration(s.config.SessionTTLHours) * time.Hour
	token, err := utils.GenerateJWT(s.config.JWTSecret, u.Identity, u.Username, ttl)
	if err != nil {
		return "", nil, err
	}

	if err := s.users.UpdateLastLogin(u.Identity, time.Now()); err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// ValidateSession resolves an opaque session token into a stable identity and
// display name, or a typed failure.
func (s *AuthService) ValidateSession(token string) (identity, username string, err error) {
	claims, err := utils.ParseJWT(s.config.JWTSecret, token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrSessionExpired
		}
		return "", "", ErrSessionInvalid
	}

	s.mu.Lock()
	_, dead := s.revoked[claims.ID]
	s.mu.Unlock()
	if dead {
		return "", "", ErrSessionInvalid
	}

	return claims.Identity, claims.Username, nil
}

// Logout revokes the token's session id. Revoking an already-dead or
// malformed token is not an error; logout always succeeds from the client's
// point of view.
func (s *AuthService) Logout(token string) {
	claims, err := utils.ParseJWT(s.config.JWTSecret, token)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.revoked[claims.ID] = struct{}{}
	s.mu.Unlock()
}

func (s *AuthService) Profile(username string) (*models.User, error) {
	return s.users.FindByIdentity(strings.ToLower(username))
}

func (s *AuthService) UpdateProfile(username string, upd models.ProfileUpdate) (*models.User, error) {
	return s.users.UpdateProfile(strings.ToLower(username), upd)
}
