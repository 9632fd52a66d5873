package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"Gin_postgres_redis_asset_lending/app"
	"Gin_postgres_redis_asset_lending/ledger"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	u, err := ac.Backend.FindUserByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil && !errors.Is(err, ledger.ErrNotFound) {
		ac.writeError(c, err)
		return
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid username or password"})
		return
	}

	sess, err := ac.Sessions.Create(ctx, u)
	if err != nil {
		ac.writeError(c, err)
		return
	}
	if err := ac.Backend.TouchUserLogin(ctx, u.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		ac.Logger.Warn("touch user login", zap.String("user_id", u.ID), zap.Error(err)) // 不阻塞
	}
	ac.setAppCookie(c.Writer, sess.ID, ac.Cfg.Session.TTL)

	c.JSON(http.StatusOK, app.H{"user": u, "expiresAt": sess.ExpiresAt})
}

// POST /api/auth/logout：删会话，Cookie 置空
func (ac *AuthController) Logout(c *gin.Context) {
	if sess := app.CurrentSession(c); sess != nil {
		_ = ac.Sessions.Delete(c.Request.Context(), sess.ID)
	}
	ac.setAppCookie(c.Writer, "", -1)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/auth/whoami
func (ac *AuthController) WhoAmI(c *gin.Context) {
	sess := app.CurrentSession(c)
	u, err := ac.Backend.FindUserByID(c.Request.Context(), sess.UserID)
	if err != nil {
		ac.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{
		"user":      u,
		"isAdmin":   u.IsAdmin(),
		"expiresAt": sess.ExpiresAt,
	})
}
