package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anuragkumar-code/snapengine-v2/models"
)

// User is authenticated and pre-loaded
type HandlerFunc func(c *gin.Context, user *models.User)

// Router is a wrapper that adds the auth check + User pre-loading
type Router struct {
	Base *gin.Engine
	DB   *gorm.DB
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc) {
	session := LoadSession(c)
	user := session.User(cr.DB)
	if user.ID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
		return
	}
	handler(c, &user)
}

func (cr *Router) POST(path string, handler HandlerFunc) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}

func (cr *Router) PUT(path string, handler HandlerFunc) {
	cr.Base.PUT(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}

func (cr *Router) DELETE(path string, handler HandlerFunc) {
	cr.Base.DELETE(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}
