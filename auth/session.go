package auth

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anuragkumar-code/snapengine-v2/models"
)

const userIdKey = "id"

type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) LoginUser(userID uint64) {
	s.Set(userIdKey, userID)
	_ = s.Save()
}

func (s *Session) LogoutUser() {
	s.Delete(userIdKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = s.Save()
}

func (s *Session) User(db *gorm.DB) (user models.User) {
	id := s.Get(userIdKey)
	if id == nil {
		return
	}
	uid, ok := id.(uint64)
	if !ok {
		return
	}
	user.ID = uid
	if db.First(&user).Error != nil {
		user.ID = 0
	}
	return
}
