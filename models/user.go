package models

import (
	"github.com/anuragkumar-code/snapengine-v2/utils"
)

const saltSize = 60

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	Name      string `gorm:"type:varchar(100)"`
	Email     string `gorm:"type:varchar(150);index:uniq_email,unique"`
	Password  string `gorm:"type:varchar(128)"`
	PassSalt  string `gorm:"type:varchar(200)"`
	// Set for users provisioned through an OAuth callback
	OauthProvider string `gorm:"type:varchar(30);index:oauth_lookup,priority:1"`
	OauthID       string `gorm:"type:varchar(150);index:oauth_lookup,priority:2"`
}

func (u *User) SetPassword(plainTextPassword string) {
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
}

func (u *User) CheckPassword(plainTextPassword string) bool {
	if u.Password == "" {
		// OAuth-only account
		return false
	}
	return u.Password == utils.Sha512String(plainTextPassword+u.PassSalt)
}
