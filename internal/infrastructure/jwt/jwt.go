package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Service struct {
	jwtSecret string
	ttl       time.Duration
	now       func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for iat and exp.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(jwtSecret string, ttl time.Duration, opts ...Option) *Service {
	s := &Service{jwtSecret: jwtSecret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Claims identify an account by its immutable id in sub.
type Claims struct {
	jwt.RegisteredClaims
}

func (s *Service) TTL() time.Duration { return s.ttl }

func (s *Service) GenerateJWT(subject string, expiresIn time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.jwtSecret))
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuedAt(),
	)
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" || claims.IssuedAt == nil {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}
