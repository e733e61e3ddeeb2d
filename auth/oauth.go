package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
	"gorm.io/gorm"

	"github.com/anuragkumar-code/snapengine-v2/config"
	"github.com/anuragkumar-code/snapengine-v2/models"
)

// InitOAuth registers the configured providers. Returns false when no provider
// is configured so main can skip the routes.
func InitOAuth() bool {
	providers := []goth.Provider{}
	if config.GOOGLE_OAUTH_KEY != "" && config.GOOGLE_OAUTH_SECRET != "" {
		providers = append(providers,
			google.New(config.GOOGLE_OAUTH_KEY, config.GOOGLE_OAUTH_SECRET,
				config.BASE_URL+"/auth/google/callback"))
	}
	if config.FACEBOOK_OAUTH_KEY != "" && config.FACEBOOK_OAUTH_SECRET != "" {
		providers = append(providers,
			facebook.New(config.FACEBOOK_OAUTH_KEY, config.FACEBOOK_OAUTH_SECRET,
				config.BASE_URL+"/auth/facebook/callback"))
	}
	if len(providers) == 0 {
		return false
	}
	store := sessions.NewCookieStore([]byte(config.SESSION_KEY))
	store.MaxAge(3600)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	gothic.Store = store

	goth.UseProviders(providers...)
	return true
}

// Begin redirects to the provider's consent page.
func Begin(c *gin.Context) {
	withProvider(c)
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// Complete finishes the OAuth dance and returns the provider identity.
func Complete(c *gin.Context) (goth.User, error) {
	withProvider(c)
	return gothic.CompleteUserAuth(c.Writer, c.Request)
}

// OAuthLogin finds or provisions the local user for a provider identity.
func (s *Service) OAuthLogin(identity goth.User) (models.User, error) {
	var user models.User
	err := s.DB.
		Where("oauth_provider = ? AND oauth_id = ?", identity.Provider, identity.UserID).
		First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}
	// Link to an existing local account with the same email, if any
	if identity.Email != "" {
		err = s.DB.First(&user, "email = ?", identity.Email).Error
		if err == nil {
			user.OauthProvider = identity.Provider
			user.OauthID = identity.UserID
			return user, s.DB.Save(&user).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, err
		}
	}
	name := identity.Name
	if name == "" {
		name = identity.NickName
	}
	user = models.User{
		Name:          name,
		Email:         identity.Email,
		OauthProvider: identity.Provider,
		OauthID:       identity.UserID,
	}
	return user, s.DB.Create(&user).Error
}

// gothic resolves the provider from the query string
func withProvider(c *gin.Context) {
	q := c.Request.URL.Query()
	if q.Get("provider") == "" {
		q.Set("provider", c.Param("provider"))
		c.Request.URL.RawQuery = q.Encode()
	}
}
