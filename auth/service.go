package auth

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/anuragkumar-code/snapengine-v2/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
)

// Service handles local accounts. OAuth provisioning lives in oauth.go.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

func (s *Service) Register(name, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return models.User{}, ErrInvalidInput
	}
	if len(password) < 8 {
		return models.User{}, ErrInvalidInput
	}
	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return models.User{}, err
	}
	if count > 0 {
		return models.User{}, ErrEmailTaken
	}
	user := models.User{Name: name, Email: email}
	user.SetPassword(password)
	if err := s.DB.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UpdateProfile changes the account's own name, email or password. Nil fields
// are left untouched.
func (s *Service) UpdateProfile(userID uint64, input UpdateProfileInput) (models.User, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidInput
		}
		return models.User{}, err
	}
	if input.Name != nil {
		if *input.Name == "" {
			return models.User{}, ErrInvalidInput
		}
		user.Name = *input.Name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" || !strings.Contains(email, "@") {
			return models.User{}, ErrInvalidInput
		}
		if email != user.Email {
			var count int64
			if err := s.DB.Model(&models.User{}).Where("email = ? AND id <> ?", email, userID).Count(&count).Error; err != nil {
				return models.User{}, err
			}
			if count > 0 {
				return models.User{}, ErrEmailTaken
			}
			user.Email = email
		}
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return models.User{}, ErrInvalidInput
		}
		user.SetPassword(*input.Password)
	}
	if err := s.DB.Save(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Service) Login(email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := s.DB.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if !user.CheckPassword(password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}
