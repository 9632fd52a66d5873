// app/seenmw.go
package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

const seenThrottleLimit = 4096

// TouchLastSeen records user activity at most once per throttle window. The
// window lives in Redis when configured, otherwise in process.
func TouchLastSeen(backend Backend, rdb *redis.Client, throttle time.Duration) gin.HandlerFunc {
	var local *expirable.LRU[string, struct{}]
	if rdb == nil {
		local = expirable.NewLRU[string, struct{}](seenThrottleLimit, nil, throttle)
	}

	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil || sess.UserID == "" {
			c.Next()
			return
		}
		uid := sess.UserID

		first := false
		if rdb != nil {
			key := "user:lastseen:" + uid
			first, _ = rdb.SetNX(c, key, "1", throttle).Result()
		} else if !local.Contains(uid) {
			local.Add(uid, struct{}{})
			first = true
		}
		if first {
			_ = backend.TouchUserSeen(c, uid) // 忽略错误，不阻塞请求
		}
		c.Next()
	}
}
