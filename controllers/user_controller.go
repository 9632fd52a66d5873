package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"Gin_postgres_redis_asset_lending/app"
	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/models"
)

const minPasswordLen = 8

type UserController struct{ *Srv }

func GetUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /api/users?q=alice&page=1&size=20
func (uc *UserController) ListUsers(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Backend.ListUsers(c.Request.Context(), q, page, size)
	if err != nil {
		uc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{
		"total": res.Total,
		"users": res.Users,
	})
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid"})
		return
	}
	user, err := uc.Backend.FindUserByID(c.Request.Context(), id)
	if err != nil {
		uc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": user})
}

// POST /api/users
func (uc *UserController) CreateUser(c *gin.Context) {
	var in struct {
		Username    string          `json:"username" binding:"required"`
		DisplayName string          `json:"displayName"`
		Password    string          `json:"password" binding:"required"`
		Role        models.UserRole `json:"role"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	in.Username = strings.TrimSpace(in.Username)
	if in.Role == "" {
		in.Role = models.RoleStudent
	}
	switch {
	case in.Username == "":
		uc.writeError(c, &ledger.ValidationError{Field: "username", Reason: "is required"})
		return
	case !in.Role.Valid():
		uc.writeError(c, &ledger.ValidationError{Field: "role", Reason: "must be admin or student"})
		return
	case len(in.Password) < minPasswordLen:
		uc.writeError(c, &ledger.ValidationError{Field: "password", Reason: "must be at least 8 characters"})
		return
	}

	// 用户名唯一（不区分大小写）
	if _, err := uc.Backend.FindUserByUsername(ctx, in.Username); err == nil {
		uc.writeError(c, &ledger.StateError{Entity: "user", ID: in.Username, Status: "taken", Op: "create"})
		return
	} else if !errors.Is(err, ledger.ErrNotFound) {
		uc.writeError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.writeError(c, err)
		return
	}
	if in.DisplayName == "" {
		in.DisplayName = in.Username
	}
	u := &models.User{
		Username:     in.Username,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	if err := uc.Backend.SaveUser(ctx, u); err != nil {
		uc.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"user": u})
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	// 不允许删除自己，避免锁死
	if sess := app.CurrentSession(c); sess != nil && sess.UserID == id {
		c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete yourself"})
		return
	}

	if err := uc.Backend.DeleteUser(c.Request.Context(), id); err != nil {
		uc.writeError(c, err)
		return
	}
	// 撤销该用户的所有登录会话
	_ = uc.Sessions.RevokeAllForUser(c.Request.Context(), id)
	c.JSON(http.StatusOK, app.H{"ok": true})
}
