package util

import (
	"qcm_backend/internal/model"

	"github.com/gin-gonic/gin"
)

// Principal is the authenticated caller, resolved once by the auth middleware
// from the opaque bearer token. Handlers never re-read the Authorization
// header themselves.
type Principal struct {
	UserID uint
	Name   string
	Email  string
	Role   model.UserRole
}

func (p *Principal) IsTeacher() bool { return p.Role == model.Teacher }
func (p *Principal) IsStudent() bool { return p.Role == model.Student }

const principalKey = "principal"

func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(principalKey, p)
}

func GetUserFromContext(c *gin.Context) *Principal {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	p, ok := v.(*Principal)
	if !ok {
		return nil
	}
	return p
}
