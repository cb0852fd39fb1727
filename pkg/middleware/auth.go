package middleware

import (
	"net/http"
	"strings"

	"github.com/annaylee/estore-apis/pkg/token"
	"github.com/gin-gonic/gin"
)

// UserIDKey 认证通过后存入 gin context 的用户 ID 键
const UserIDKey = "auth_user_id"

// IsAdminKey 认证通过后存入 gin context 的管理员标记键
const IsAdminKey = "auth_is_admin"

// RequireAuth Bearer token 鉴权中间件
// 校验通过后将 userId 与 isAdmin 写入 gin context，后续 handler 据此做能力判断
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid authorization header")
			return
		}

		claims, err := token.Parse(secret, parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(IsAdminKey, claims.IsAdmin)
		c.Next()
	}
}

// RequireAdmin 管理员能力校验，须位于 RequireAuth 之后
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(IsAdminKey) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "admin privileges required",
				"data":    nil,
			})
			return
		}
		c.Next()
	}
}

// AuthUserID 读取当前请求的认证用户 ID
func AuthUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// IsAdmin 读取当前请求的管理员标记
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(IsAdminKey)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   msg,
		"data":    nil,
	})
}
