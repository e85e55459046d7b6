package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is the fixed validity window of issued tokens. There is no refresh
// or revocation: a token stays valid for the full window even if the account
// changes afterwards.
const TokenTTL = 2 * time.Hour

var (
	// ErrExpired means the token parsed and verified but its expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrMalformed means the token could not be parsed or its signature did not verify.
	ErrMalformed = errors.New("token malformed")
)

// Claims is the identity claim set embedded in every issued token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email_id"`
	Username string `json:"user_name"`
	jwt.RegisteredClaims
}

// Service issues and validates HS256-signed bearer tokens. The signing secret
// is injected at construction; nothing reads it ambiently.
type Service struct {
	secret []byte
	now    func() time.Time
}

// NewService creates a token Service signing with the given secret.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

// Issue signs a token carrying the user's id, email and username, expiring
// TokenTTL from now.
func (s *Service) Issue(userID int64, email, username string) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:   userID,
		Email:    email,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate verifies signature and expiry and returns the embedded claims.
// Returns ErrExpired past the expiry timestamp, ErrMalformed for anything the
// parser or verifier rejects.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformed
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	if !parsed.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}
