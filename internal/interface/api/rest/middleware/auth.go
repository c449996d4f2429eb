package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lkhorasandzhian/aton-web-api/internal/application/ports"
	"github.com/lkhorasandzhian/aton-web-api/internal/application/services"
	"github.com/lkhorasandzhian/aton-web-api/internal/domain/access"
)

const (
	CtxPrincipal = "principal"

	Challenge = `Basic realm="AtonWebAPI", charset="UTF-8"`
)

// Authenticate resolves the Authorization header into a Principal.
// Requests without credentials continue anonymously; bad credentials are
// rejected here so handlers never see them.
func Authenticate(auth ports.Auth, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := auth.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		switch {
		case err == nil:
			c.Set(CtxPrincipal, p)
		case errors.Is(err, services.ErrNoCredentials):
		case services.IsAuthError(err):
			c.Header("WWW-Authenticate", Challenge)
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": err.Error()},
			)
			return
		default:
			logger.Error("Authenticate() error", zap.Error(err))
			c.AbortWithStatusJSON(
				http.StatusInternalServerError,
				gin.H{"error": "internal server error"},
			)
			return
		}

		c.Next()
	}
}

// PrincipalFrom returns the caller set by Authenticate, nil when anonymous.
func PrincipalFrom(c *gin.Context) *access.Principal {
	v, ok := c.Get(CtxPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*access.Principal)
	return p
}
