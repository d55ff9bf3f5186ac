package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtmw "github.com/Gopher0727/StudyHub/middleware/jwt"
)

var tokenManager *jwtmw.TokenManager

// InitAuth 注入 TokenManager，必须在路由注册前调用
func InitAuth(tm *jwtmw.TokenManager) {
	tokenManager = tm
}

// AuthMiddleware JWT 认证中间件
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		// 从请求头解析 Bearer token
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}

		if token == "" {
			c.JSON(
				http.StatusUnauthorized,
				gin.H{"error": "未提供认证 Token"},
			)
			c.Abort()
			return
		}

		claims, err := tokenManager.ParseToken(token)
		if err != nil {
			c.JSON(
				http.StatusUnauthorized,
				gin.H{"error": "Token 无效或已过期"},
			)
			c.Abort()
			return
		}

		// 将身份信息存储在 context 中
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		c.Next()
	}
}
