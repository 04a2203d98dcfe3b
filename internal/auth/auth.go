package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"challenge-quiz-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Service verifies and issues the platform's bearer tokens. Registration
// and login live in the user service; this side only needs HS256 parse
// plus issue for internal tooling and tests.
type Service struct {
	hmac []byte
	ttl  time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{hmac: []byte(secret), ttl: ttl}
}

type Claims struct {
	Role string `json:"role"` // student, company, or admin
	jwt.RegisteredClaims
}

func (s *Service) IssueToken(userID, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.hmac)
}

// Parse validates a token and returns the identity it carries.
func (s *Service) Parse(tokenStr string) (domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.hmac, nil
	})
	if err != nil {
		return domain.Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return domain.Identity{}, errors.New("invalid token claims")
	}
	return domain.Identity{ID: claims.Subject, Role: claims.Role}, nil
}

// Middleware rejects requests without a valid bearer token and attaches
// the verified identity to the request context. Handlers must read the
// caller's id from the context only; a body-supplied student id is never
// trusted.
func Middleware(s *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "not authorized, no token provided", http.StatusUnauthorized)
				return
			}
			identity, err := s.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "not authorized, token failed", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}
