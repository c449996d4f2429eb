package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lkhorasandzhian/aton-web-api/internal/application/services"
	"github.com/lkhorasandzhian/aton-web-api/internal/domain/access"
	domain "github.com/lkhorasandzhian/aton-web-api/internal/domain/user"
	"github.com/lkhorasandzhian/aton-web-api/internal/interface/api/rest/middleware"
)

// writeError maps a service error onto the response. Only unexpected errors
// are logged, under the name of the failing call.
func writeError(c *gin.Context, logger *zap.Logger, call string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": verr.Fields,
		})
	case errors.Is(err, domain.ErrLoginTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, access.ErrUnauthenticated), services.IsAuthError(err):
		c.Header("WWW-Authenticate", middleware.Challenge)
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, access.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyActive):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		logger.Error(call+"() error", zap.Error(err))
	}
}
