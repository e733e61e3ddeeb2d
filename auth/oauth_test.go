package auth

import (
	"testing"

	"github.com/markbates/goth"

	"github.com/anuragkumar-code/snapengine-v2/config"
)

func TestInitOAuth(t *testing.T) {
	defer func() {
		config.GOOGLE_OAUTH_KEY = ""
		config.GOOGLE_OAUTH_SECRET = ""
		config.FACEBOOK_OAUTH_KEY = ""
		config.FACEBOOK_OAUTH_SECRET = ""
		goth.ClearProviders()
	}()

	config.GOOGLE_OAUTH_KEY = ""
	config.GOOGLE_OAUTH_SECRET = ""
	config.FACEBOOK_OAUTH_KEY = ""
	config.FACEBOOK_OAUTH_SECRET = ""
	if InitOAuth() {
		t.Error("InitOAuth() = true with no provider configured")
	}

	config.GOOGLE_OAUTH_KEY = "gk"
	config.GOOGLE_OAUTH_SECRET = "gs"
	config.FACEBOOK_OAUTH_KEY = "fk"
	config.FACEBOOK_OAUTH_SECRET = "fs"
	if !InitOAuth() {
		t.Fatal("InitOAuth() = false with both providers configured")
	}
	for _, name := range []string{"google", "facebook"} {
		if _, err := goth.GetProvider(name); err != nil {
			t.Errorf("provider %s not registered: %v", name, err)
		}
	}
}
