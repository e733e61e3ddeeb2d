package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/anuragkumar-code/snapengine-v2/auth"
	"github.com/anuragkumar-code/snapengine-v2/models"
)

type UserHandlers struct {
	Auth *auth.Service
}

type UserRegisterRequest struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type UserLoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type UserInfo struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func userInfo(user *models.User) UserInfo {
	return UserInfo{ID: user.ID, Name: user.Name, Email: user.Email}
}

func (h *UserHandlers) Register(c *gin.Context) {
	r := UserRegisterRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	user, err := h.Auth.Register(r.Name, r.Email, r.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			c.JSON(http.StatusConflict, Response{err.Error()})
		case errors.Is(err, auth.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, Response{err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, Response{"internal error"})
		}
		return
	}
	auth.LoadSession(c).LoginUser(user.ID)
	c.JSON(http.StatusOK, gin.H{"error": "", "user": userInfo(&user)})
}

func (h *UserHandlers) Login(c *gin.Context) {
	r := UserLoginRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	user, err := h.Auth.Login(r.Email, r.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, Response{err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, Response{"internal error"})
		return
	}
	auth.LoadSession(c).LoginUser(user.ID)
	c.JSON(http.StatusOK, gin.H{"error": "", "user": userInfo(&user)})
}

type UserUpdateRequest struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

// UpdateProfile changes the caller's own account. Empty form fields are left
// unchanged.
func (h *UserHandlers) UpdateProfile(c *gin.Context, user *models.User) {
	r := UserUpdateRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	input := auth.UpdateProfileInput{}
	if r.Name != "" {
		input.Name = &r.Name
	}
	if r.Email != "" {
		input.Email = &r.Email
	}
	if r.Password != "" {
		input.Password = &r.Password
	}
	updated, err := h.Auth.UpdateProfile(user.ID, input)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			c.JSON(http.StatusConflict, Response{err.Error()})
		case errors.Is(err, auth.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, Response{err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, Response{"internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "user": userInfo(&updated)})
}

func (h *UserHandlers) Logout(c *gin.Context, user *models.User) {
	auth.LoadSession(c).LogoutUser()
	c.JSON(http.StatusOK, OKResponse)
}

func (h *UserHandlers) Me(c *gin.Context, user *models.User) {
	c.JSON(http.StatusOK, userInfo(user))
}

// OAuthBegin starts the provider redirect dance.
func (h *UserHandlers) OAuthBegin(c *gin.Context) {
	auth.Begin(c)
}

// OAuthCallback provisions or links the local account and opens a session.
func (h *UserHandlers) OAuthCallback(c *gin.Context) {
	identity, err := auth.Complete(c)
	if err != nil {
		logrus.Warnf("oauth callback failed: %v", err)
		c.JSON(http.StatusUnauthorized, Response{"authentication failed"})
		return
	}
	user, err := h.Auth.OAuthLogin(identity)
	if err != nil {
		logrus.Errorf("oauth user provisioning failed: %v", err)
		c.JSON(http.StatusInternalServerError, Response{"internal error"})
		return
	}
	auth.LoadSession(c).LoginUser(user.ID)
	c.JSON(http.StatusOK, gin.H{"error": "", "user": userInfo(&user)})
}

// UserList lets an authenticated user find share recipients.
func (h *UserHandlers) UserList(c *gin.Context, user *models.User) {
	rows, err := h.Auth.DB.Table("users").
		Select("id, name, email").
		Where("id != ?", user.ID).
		Order("name ASC").Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"internal error"})
		return
	}
	defer rows.Close()
	result := []UserInfo{}
	for rows.Next() {
		info := UserInfo{}
		if err = rows.Scan(&info.ID, &info.Name, &info.Email); err != nil {
			c.JSON(http.StatusInternalServerError, Response{"internal error"})
			return
		}
		result = append(result, info)
	}
	c.JSON(http.StatusOK, result)
}
