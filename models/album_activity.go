package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

type ActivityAction string

const (
	ActivityCreated      ActivityAction = "created"
	ActivityUpdated      ActivityAction = "updated"
	ActivityPhotoAdded   ActivityAction = "photo_added"
	ActivityPhotoRemoved ActivityAction = "photo_removed"
	ActivityShared       ActivityAction = "shared"
	ActivityUnshared     ActivityAction = "unshared"
	ActivityJoined       ActivityAction = "joined"
	ActivityLeft         ActivityAction = "left"
	ActivityDeclined     ActivityAction = "declined"
)

// AlbumActivity is append-only. Rows are never updated and go away only with
// the album cascade.
type AlbumActivity struct {
	ID        uint64         `gorm:"primaryKey"`
	CreatedAt int64          `gorm:"index:album_activity_created,priority:2"`
	AlbumID   uint64         `gorm:"not null;index:album_activity_created,priority:1"`
	Album     Album          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID    uint64         `gorm:"not null;index"`
	User      User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Action    ActivityAction `gorm:"type:varchar(20);not null;index"`
	Details   datatypes.JSON
	IPAddress string `gorm:"type:varchar(45)"`
}

// NewAlbumActivity marshals the details payload. A payload that cannot be
// marshalled is stored as null rather than failing the caller's mutation.
func NewAlbumActivity(albumID, userID uint64, action ActivityAction, details any) AlbumActivity {
	activity := AlbumActivity{
		AlbumID: albumID,
		UserID:  userID,
		Action:  action,
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			activity.Details = datatypes.JSON(raw)
		}
	}
	return activity
}
