package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims is what a parsed session token resolves to. ID is the token's
// jti, used for logout revocation.
type SessionClaims struct {
	Identity string
	Username string
	ID       string
}

func GenerateJWT(secret, identity, username string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"uid":   identity,
		"uname": username,
		"jti":   uuid.NewString(),
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
		"iss":   "chathub-backend",
		"sub":   "user-session",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseJWT returns the session claims, or the underlying jwt error so callers
// can distinguish an expired token from a malformed one.
func ParseJWT(secret, tokenStr string) (*SessionClaims, error) {
	if tokenStr == "" {
		return nil, errors.New("token is empty")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	uid, ok1 := claims["uid"].(string)
	uname, ok2 := claims["uname"].(string)
	jti, ok3 := claims["jti"].(string)
	if !ok1 || !ok2 || !ok3 {
		return nil, errors.New("bad claims")
	}

	return &SessionClaims{Identity: uid, Username: uname, ID: jti}, nil
}
