package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/institutoavanca/portal-api/pkg/helpers"
	"github.com/institutoavanca/portal-api/pkg/response"
)

// Context keys set by Auth.
const (
	CtxAccountIDKey = "accountID"
	CtxProfileIDKey = "profileID"
	CtxRoleKey      = "role"
)

// Auth validates the access token and ensures an active session exists in
// Redis, then sets accountID, profileID and role in the Gin context. The
// role is re-read from the session on every request so a revocation takes
// effect without waiting for token expiry.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}

		key := "user:session:" + claims.AccountID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}

		c.Set(CtxAccountIDKey, data["account_id"])
		c.Set(CtxProfileIDKey, data["profile_id"])
		c.Set(CtxRoleKey, data["role"])
		c.Next()
	}
}
