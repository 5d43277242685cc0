package middleware

import (
	"strings"

	"qcm_backend/internal/model"
	"qcm_backend/internal/service"
	"qcm_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the bearer token to a user. Tokens are opaque
// strings looked up verbatim; there is nothing to parse or verify beyond the
// database match.
func AuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if token == "" {
			token = c.Query("token")
		}

		if token == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		user := auth.ResolveToken(token)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		util.SetPrincipal(c, &util.Principal{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   user.Role,
		})
		c.Next()
	}
}

func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range roles {
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

type UserActivityRepo interface {
	UpdateLastSeen(userID uint) error
}

func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user != nil {
			// 异步更新，不阻塞主流程
			go repo.UpdateLastSeen(user.UserID)
		}
		c.Next()
	}
}
