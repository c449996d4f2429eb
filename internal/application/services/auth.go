package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lkhorasandzhian/aton-web-api/internal/application/ports"
	"github.com/lkhorasandzhian/aton-web-api/internal/domain/access"
	"github.com/lkhorasandzhian/aton-web-api/internal/domain/user"
	"github.com/lkhorasandzhian/aton-web-api/internal/infrastructure/jwt"
)

const (
	SchemeBasic  = "Basic"
	SchemeBearer = "Bearer"
)

var (
	ErrNoCredentials         = errors.New("no credentials")
	ErrMalformedCredentials  = errors.New("malformed credentials")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountRevoked        = errors.New("account revoked")
	ErrFailedToGenerateToken = errors.New("failed to generate token")
)

// IsAuthError reports whether err is one of the credential failures.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMalformedCredentials) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrAccountRevoked) ||
		errors.Is(err, access.ErrUnauthenticated)
}

type AuthService struct {
	userRepository user.Repository
	jwtService     *jwt.Service
	mCounter       *prometheus.CounterVec
}

func NewAuthService(
	userRepository user.Repository,
	jwtService *jwt.Service,
	mCounter *prometheus.CounterVec,
) ports.Auth {
	return &AuthService{
		userRepository: userRepository,
		jwtService:     jwtService,
		mCounter:       mCounter,
	}
}

// Authenticate turns an Authorization header value into a Principal.
// An empty header yields ErrNoCredentials, which callers may treat as an
// anonymous request. Revoked accounts never receive a Principal.
func (as *AuthService) Authenticate(ctx context.Context, header string) (*access.Principal, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, ErrNoCredentials
	}

	scheme, param, ok := strings.Cut(header, " ")
	param = strings.TrimSpace(param)
	if !ok || param == "" {
		return nil, ErrMalformedCredentials
	}

	var (
		u   *user.User
		err error
	)
	switch {
	case strings.EqualFold(scheme, SchemeBasic):
		u, err = as.basic(ctx, param)
	case strings.EqualFold(scheme, SchemeBearer):
		u, err = as.bearer(ctx, param)
	default:
		return nil, ErrMalformedCredentials
	}
	if err != nil {
		if IsAuthError(err) {
			as.inc("auth_failed_total")
		}
		return nil, err
	}

	if !u.IsActive() {
		as.inc("auth_failed_total")
		return nil, fmt.Errorf("%w on %s", ErrAccountRevoked, u.Revoked.At.Format(time.RFC3339))
	}

	principal := access.NewPrincipal(u.Login, u.Name, u.Admin)
	principal.ID = u.ID.String()

	return principal, nil
}

func (as *AuthService) GenerateToken(p *access.Principal) (string, error) {
	if p == nil || p.ID == "" {
		return "", access.ErrUnauthenticated
	}

	token, err := as.jwtService.GenerateJWT(p.ID, as.jwtService.TTL())
	if err != nil {
		return "", ErrFailedToGenerateToken
	}

	return token, nil
}

func (as *AuthService) basic(ctx context.Context, param string) (*user.User, error) {
	login, password, err := ParseBasic(param)
	if err != nil {
		return nil, err
	}

	u, err := as.userRepository.FetchUserByLoginAndPassword(ctx, login, password)
	if err != nil {
		return nil, fmt.Errorf("fetch user by credentials: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// bearer resolves the token subject by account id, never by login, since
// logins are reused after a rename or revocation. Tokens issued before the
// last change of the account are refused.
func (as *AuthService) bearer(ctx context.Context, token string) (*user.User, error) {
	claims, err := as.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := as.userRepository.FetchUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch user by id: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	// iat has second precision
	if u.Modified != nil && claims.IssuedAt.Time.Before(u.Modified.At.Truncate(time.Second)) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// ParseBasic decodes base64("login:password"), splitting on the first colon.
func ParseBasic(param string) (login, password string, err error) {
	raw, err := base64.StdEncoding.DecodeString(param)
	if err != nil {
		return "", "", ErrMalformedCredentials
	}

	login, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", ErrMalformedCredentials
	}

	return login, password, nil
}

func (as *AuthService) inc(label string) {
	if as.mCounter != nil {
		as.mCounter.WithLabelValues(label).Inc()
	}
}
