package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lkhorasandzhian/aton-web-api/internal/application/ports"
	"github.com/lkhorasandzhian/aton-web-api/internal/domain/access"
	"github.com/lkhorasandzhian/aton-web-api/internal/interface/api/rest/dto/auth"
	"github.com/lkhorasandzhian/aton-web-api/internal/interface/api/rest/middleware"
)

type AuthController struct {
	logger      *zap.Logger
	authService ports.Auth
	tokenTTL    time.Duration
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	authService ports.Auth,
	authMW gin.HandlerFunc,
	tokenTTL time.Duration,
) *AuthController {
	ac := &AuthController{
		logger:      logger,
		authService: authService,
		tokenTTL:    tokenTTL,
	}

	r.POST(RouteLogin, authMW, ac.LoginHandler)

	return ac
}

// LoginHandler exchanges Basic credentials for a Bearer token.
func (ac *AuthController) LoginHandler(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		writeError(c, ac.logger, "Login", access.ErrUnauthenticated)
		return
	}

	token, err := ac.authService.GenerateToken(p)
	if err != nil {
		writeError(c, ac.logger, "GenerateToken", err)
		return
	}

	c.JSON(http.StatusOK, auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ac.tokenTTL.Seconds()),
	})
}
