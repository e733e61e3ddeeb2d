package models

import (
	"gorm.io/datatypes"
)

type AlbumType string

const (
	AlbumTypePersonal  AlbumType = "personal"
	AlbumTypeShareable AlbumType = "shareable"
)

// PrivacySettings is an informational bag of booleans, stored as JSON
type PrivacySettings struct {
	AllowComments     bool `json:"allow_comments"`
	AllowDownloads    bool `json:"allow_downloads"`
	PasswordProtected bool `json:"password_protected"`
}

func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{AllowComments: true, AllowDownloads: true}
}

type Album struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64  `gorm:"index:user_album_created,priority:2"`
	UpdatedAt   int64
	UserID      uint64 `gorm:"not null;index:user_album_created,priority:1"`
	User        User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Title       string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	Date        int64
	// Comma-joined at the storage boundary, use TagList/SetTagList
	Tags            string    `gorm:"type:text"`
	Location        string    `gorm:"type:varchar(255)"`
	Type            AlbumType `gorm:"type:varchar(20);not null;default:personal;index"`
	CoverPhoto      *string   `gorm:"type:varchar(500)"` // original-derivative path of the cover Photo
	PrivacySettings datatypes.JSONType[PrivacySettings]
	// Denormalized aggregates over live photos, updated atomically in SQL
	TotalPhotos int64 `gorm:"not null;default:0"`
	TotalSize   int64 `gorm:"not null;default:0"`
}

func (a *Album) TagList() []string {
	return DecodeTags(a.Tags)
}

func (a *Album) SetTagList(tags []string) {
	a.Tags = EncodeTags(tags)
}
