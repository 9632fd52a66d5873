// controllers/srv.go
package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Gin_postgres_redis_asset_lending/app"
	"Gin_postgres_redis_asset_lending/config"
	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/session"
)

type Srv struct {
	Backend  app.Backend
	Ledger   *ledger.Ledger
	Sessions session.Store
	Cfg      *config.Config
	Logger   *zap.Logger
	secure   bool
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Backend:  a.Backend,
		Ledger:   a.Ledger,
		Sessions: a.Sessions,
		Cfg:      a.Config,
		Logger:   a.Logger.Named("controllers"),
		secure:   a.SecureCookies(),
	}
}

// --- helpers ---

// 统一设置业务会话 Cookie；maxAge < 0 表示删除
func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	ma := int(maxAge / time.Second)
	if maxAge < 0 {
		ma = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
		MaxAge:   ma,
	})
}

// writeError 按错误种类映射 HTTP 状态码
func (s *Srv) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrState):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	default:
		s.Logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, app.H{"error": "invalid request: " + err.Error()})
}

// parseDate 解析 YYYY-MM-DD；空串返回零值
func parseDate(field, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, &ledger.ValidationError{Field: field, Reason: "must be a YYYY-MM-DD date"}
	}
	return t, nil
}

func parseOptionalDate(field string, v *string) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	t, err := parseDate(field, *v)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}
