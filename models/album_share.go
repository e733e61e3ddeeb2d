package models

import "time"

type ShareStatus string

const (
	ShareStatusPending  ShareStatus = "pending"
	ShareStatusAccepted ShareStatus = "accepted"
	ShareStatusDeclined ShareStatus = "declined"
)

type AlbumShare struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	AlbumID   uint64 `gorm:"not null;index:uniq_album_recipient,unique,priority:1"`
	Album     Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	// SharedBy must be the album owner at the time of sharing
	SharedByID   uint64 `gorm:"not null;index"`
	SharedBy     User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	SharedWithID uint64 `gorm:"not null;index:uniq_album_recipient,unique,priority:2"`
	SharedWith   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	// pending -> accepted or pending -> declined, no further transitions
	Status      ShareStatus      `gorm:"type:varchar(20);not null;default:pending;index"`
	Permissions SharePermissions `gorm:"embedded"`
	Message     string           `gorm:"type:text"`
	ExpiresAt   int64            `gorm:"not null"` // 0 indicates no expiration
	AcceptedAt  *int64
}

func NewAlbumShare(albumID, sharedBy, sharedWith uint64, permissions SharePermissions) AlbumShare {
	return AlbumShare{
		AlbumID:      albumID,
		SharedByID:   sharedBy,
		SharedWithID: sharedWith,
		Status:       ShareStatusPending,
		Permissions:  permissions,
	}
}

// Expired reports whether the invitation has an expiry in the past.
func (s *AlbumShare) Expired(now time.Time) bool {
	return s.ExpiresAt > 0 && s.ExpiresAt < now.Unix()
}
