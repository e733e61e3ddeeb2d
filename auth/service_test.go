package auth

import (
	"errors"
	"testing"

	"github.com/markbates/goth"
	"gorm.io/gorm"

	"github.com/anuragkumar-code/snapengine-v2/db"
	"github.com/anuragkumar-code/snapengine-v2/models"
)

func testAuthService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dbInstance, err := db.Connect("", ":memory:")
	if err != nil {
		t.Fatalf("cannot open test database: %v", err)
	}
	if err = models.Init(dbInstance); err != nil {
		t.Fatalf("cannot migrate test database: %v", err)
	}
	return NewService(dbInstance), dbInstance
}

func TestRegister(t *testing.T) {
	service, _ := testAuthService(t)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid", userName: "Ana", email: "ana@example.com", password: "long enough"},
		{name: "email is normalized", userName: "Ana", email: "  ANA2@Example.COM ", password: "long enough"},
		{name: "missing name", email: "no-name@example.com", password: "long enough", wantErr: ErrInvalidInput},
		{name: "not an email", userName: "Ana", email: "nope", password: "long enough", wantErr: ErrInvalidInput},
		{name: "short password", userName: "Ana", email: "short@example.com", password: "short", wantErr: ErrInvalidInput},
		{name: "duplicate email", userName: "Ana", email: "ana@example.com", password: "long enough", wantErr: ErrEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := service.Register(tt.userName, tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if user.ID == 0 {
				t.Error("Register() did not persist the user")
			}
			if user.Password == tt.password {
				t.Error("password stored in plain text")
			}
		})
	}

	// Case-insensitive duplicate check through normalization
	if _, err := service.Register("Ana", "ana2@example.com", "long enough"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register() with normalized duplicate error = %v, want %v", err, ErrEmailTaken)
	}
}

func TestLogin(t *testing.T) {
	service, _ := testAuthService(t)
	if _, err := service.Register("Ana", "ana@example.com", "correct horse"); err != nil {
		t.Fatal(err)
	}

	user, err := service.Login("Ana@example.com ", "correct horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("Login() email = %v", user.Email)
	}

	if _, err = service.Login("ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() with wrong password error = %v, want %v", err, ErrInvalidCredentials)
	}
	// Unknown accounts fail exactly like wrong passwords
	if _, err = service.Login("ghost@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() with unknown email error = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestUpdateProfile(t *testing.T) {
	service, _ := testAuthService(t)
	user, err := service.Register("Ana", "ana@example.com", "long enough")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = service.Register("Ben", "ben@example.com", "long enough"); err != nil {
		t.Fatal(err)
	}

	name := "Ana Maria"
	email := "Ana.Maria@Example.com"
	updated, err := service.UpdateProfile(user.ID, UpdateProfileInput{Name: &name, Email: &email})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Name != "Ana Maria" || updated.Email != "ana.maria@example.com" {
		t.Errorf("UpdateProfile() = %+v, fields not applied", updated)
	}

	password := "a new long password"
	if _, err = service.UpdateProfile(user.ID, UpdateProfileInput{Password: &password}); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if _, err = service.Login("ana.maria@example.com", "a new long password"); err != nil {
		t.Errorf("Login() with the new password error = %v", err)
	}
	if _, err = service.Login("ana.maria@example.com", "long enough"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() with the old password error = %v, want %v", err, ErrInvalidCredentials)
	}

	taken := "ben@example.com"
	if _, err = service.UpdateProfile(user.ID, UpdateProfileInput{Email: &taken}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("UpdateProfile() with a taken email error = %v, want %v", err, ErrEmailTaken)
	}
	short := "short"
	if _, err = service.UpdateProfile(user.ID, UpdateProfileInput{Password: &short}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("UpdateProfile() with a short password error = %v, want %v", err, ErrInvalidInput)
	}
	empty := ""
	if _, err = service.UpdateProfile(user.ID, UpdateProfileInput{Name: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("UpdateProfile() with an empty name error = %v, want %v", err, ErrInvalidInput)
	}
	if _, err = service.UpdateProfile(99999, UpdateProfileInput{Name: &name}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("UpdateProfile() for unknown user error = %v, want %v", err, ErrInvalidInput)
	}
}

func TestOAuthLogin(t *testing.T) {
	service, dbInstance := testAuthService(t)
	local, err := service.Register("Ben", "ben@example.com", "long enough")
	if err != nil {
		t.Fatal(err)
	}

	// A brand-new identity provisions an account
	created, err := service.OAuthLogin(goth.User{
		Provider: "google",
		UserID:   "g-100",
		Email:    "carla@example.com",
		Name:     "Carla",
	})
	if err != nil {
		t.Fatalf("OAuthLogin() error = %v", err)
	}
	if created.ID == 0 || created.OauthProvider != "google" || created.OauthID != "g-100" {
		t.Errorf("OAuthLogin() = %+v, want a provisioned google account", created)
	}

	// The same identity maps back to the same account
	again, err := service.OAuthLogin(goth.User{Provider: "google", UserID: "g-100"})
	if err != nil {
		t.Fatalf("OAuthLogin() error = %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("OAuthLogin() twice = users %d and %d", created.ID, again.ID)
	}

	// A matching email links the identity to the existing local account
	linked, err := service.OAuthLogin(goth.User{
		Provider: "google",
		UserID:   "g-200",
		Email:    "ben@example.com",
	})
	if err != nil {
		t.Fatalf("OAuthLogin() error = %v", err)
	}
	if linked.ID != local.ID {
		t.Errorf("OAuthLogin() linked user %d, want the local account %d", linked.ID, local.ID)
	}
	var stored models.User
	if err = dbInstance.First(&stored, local.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.OauthProvider != "google" || stored.OauthID != "g-200" {
		t.Errorf("link not persisted: %+v", stored)
	}
}
