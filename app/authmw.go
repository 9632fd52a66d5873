package app

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/session"
)

const (
	AppSessionCookie = "app_session"
	sessionKey       = "session"
)

// AuthRequired resolves the session cookie and puts the Session into the request context.
func AuthRequired(sessions session.Store, backend Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		sess, err := sessions.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		// 确认用户仍存在，角色以数据库为准
		u, err := backend.FindUserByID(c.Request.Context(), sess.UserID)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				_ = sessions.Delete(c.Request.Context(), ck.Value)
				c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, H{"error": "internal error"})
			return
		}
		sess.Role = u.Role
		sess.Username = u.Username

		c.Set(sessionKey, sess)
		c.Set("userID", sess.UserID)
		c.Next()
	}
}

// AdminOnly 必须挂在 AuthRequired 之后
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if !sess.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session set by AuthRequired, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
