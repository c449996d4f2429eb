package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lkhorasandzhian/aton-web-api/internal/application/ports"
	"github.com/lkhorasandzhian/aton-web-api/internal/interface/api/rest/dto/user"
	"github.com/lkhorasandzhian/aton-web-api/internal/interface/api/rest/middleware"
	"github.com/lkhorasandzhian/aton-web-api/internal/interface/api/rest/validator"
)

const (
	allowedMethods = "GET, POST, PUT, DELETE, HEAD, OPTIONS"
	resourceType   = "User"
	resourceAuthor = "AtonWebAPI"
)

type UserController struct {
	userService ports.UserService
	logger      *zap.Logger
}

func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	logger *zap.Logger,
	authMW gin.HandlerFunc,
	debug bool,
) *UserController {
	uc := &UserController{
		userService: userService,
		logger:      logger,
	}

	r.POST(RouteRegister, authMW, uc.RegisterHandler)
	r.PUT(RouteChangeProfile, authMW, uc.ChangeProfileHandler)
	r.PUT(RouteChangePassword, authMW, uc.ChangePasswordHandler)
	r.PUT(RouteChangeLogin, authMW, uc.ChangeLoginHandler)
	r.GET(RouteActiveUsers, authMW, uc.ActiveUsersHandler)
	r.GET(RouteByLogin, authMW, uc.ByLoginHandler)
	r.GET(RoutePersonal, authMW, uc.PersonalProfileHandler)
	r.GET(RouteOverAge, authMW, uc.OverAgeHandler)
	r.DELETE(RouteDelete, authMW, uc.DeleteUserHandler)
	r.PUT(RouteRestore, authMW, uc.RestoreUserHandler)
	r.OPTIONS(RouteOptions, uc.OptionsHandler)
	r.HEAD(RouteHead, uc.HeadHandler)
	if debug {
		r.GET(RouteDebugAllUsers, authMW, uc.AllUsersHandler)
	}

	return uc
}

func (uc *UserController) RegisterHandler(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	reg, err := user.ToRegistration(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": gin.H{"birthday": err.Error()},
		})
		return
	}

	u, err := uc.userService.Register(c.Request.Context(), middleware.PrincipalFrom(c), reg)
	if err != nil {
		writeError(c, uc.logger, "Register", err)
		return
	}

	c.JSON(http.StatusCreated, user.ToResponseUser(*u))
}

func (uc *UserController) ChangeProfileHandler(c *gin.Context) {
	var req user.ChangeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	p, err := user.ToProfileChange(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": gin.H{"birthday": err.Error()},
		})
		return
	}

	u, err := uc.userService.ChangeProfile(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("login"), p)
	if err != nil {
		writeError(c, uc.logger, "ChangeProfile", err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) ChangePasswordHandler(c *gin.Context) {
	var req user.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	u, err := uc.userService.ChangePassword(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("login"), req.Password)
	if err != nil {
		writeError(c, uc.logger, "ChangePassword", err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) ChangeLoginHandler(c *gin.Context) {
	var req user.ChangeLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	u, err := uc.userService.ChangeLogin(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("login"), req.Login)
	if err != nil {
		writeError(c, uc.logger, "ChangeLogin", err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) ActiveUsersHandler(c *gin.Context) {
	users, err := uc.userService.ListActive(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		writeError(c, uc.logger, "ListActive", err)
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{
		Data: user.ToResponseUsers(users),
	})
}

func (uc *UserController) AllUsersHandler(c *gin.Context) {
	users, err := uc.userService.ListAll(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		writeError(c, uc.logger, "ListAll", err)
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{
		Data: user.ToResponseUsers(users),
	})
}

func (uc *UserController) ByLoginHandler(c *gin.Context) {
	login := c.Query("login")
	if errs := validator.RequiredQuery(map[string]string{"login": login}); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": errs,
		})
		return
	}

	u, err := uc.userService.LookupByLogin(c.Request.Context(), middleware.PrincipalFrom(c), login)
	if err != nil {
		writeError(c, uc.logger, "LookupByLogin", err)
		return
	}

	c.JSON(http.StatusOK, user.ToSummary(*u))
}

func (uc *UserController) PersonalProfileHandler(c *gin.Context) {
	login, password := c.Query("login"), c.Query("password")
	if errs := validator.RequiredQuery(map[string]string{
		"login":    login,
		"password": password,
	}); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": errs,
		})
		return
	}

	u, err := uc.userService.PersonalProfile(c.Request.Context(), middleware.PrincipalFrom(c), login, password)
	if err != nil {
		writeError(c, uc.logger, "PersonalProfile", err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) OverAgeHandler(c *gin.Context) {
	age, errs := validator.ParseAge(c.Query("age"))
	if errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": errs,
		})
		return
	}

	users, err := uc.userService.ListOverAge(c.Request.Context(), middleware.PrincipalFrom(c), age)
	if err != nil {
		writeError(c, uc.logger, "ListOverAge", err)
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{
		Data: user.ToResponseUsers(users),
	})
}

func (uc *UserController) DeleteUserHandler(c *gin.Context) {
	login := c.Query("login")
	errs := validator.RequiredQuery(map[string]string{"login": login})
	hard, hardErrs := validator.ParseHardDelete(c.Query("isHardDelete"))
	for k, v := range hardErrs {
		if errs == nil {
			errs = map[string]string{}
		}
		errs[k] = v
	}
	if errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": errs,
		})
		return
	}

	if err := uc.userService.DeleteUser(c.Request.Context(), middleware.PrincipalFrom(c), login, hard); err != nil {
		writeError(c, uc.logger, "DeleteUser", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (uc *UserController) RestoreUserHandler(c *gin.Context) {
	u, err := uc.userService.RestoreUser(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("login"))
	if err != nil {
		writeError(c, uc.logger, "RestoreUser", err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) OptionsHandler(c *gin.Context) {
	c.Header("Allow", allowedMethods)
	c.JSON(http.StatusOK, gin.H{"methods": strings.Split(allowedMethods, ", ")})
}

func (uc *UserController) HeadHandler(c *gin.Context) {
	c.Header("X-Resource-Type", resourceType)
	c.Header("X-Resource-Author", resourceAuthor)
	c.Status(http.StatusOK)
}
