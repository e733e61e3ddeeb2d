package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/anuragkumar-code/snapengine-v2/models"
)

type ShareAlbumInput struct {
	SharedWith  uint64
	Permissions *models.SharePermissions
	Message     string
	ExpiresAt   int64 // unix seconds, 0 for no expiry
}

// ShareAlbum creates a pending invitation. One share row may exist per
// (album, recipient) regardless of status, so a declined invite permanently
// blocks re-sharing - a deliberate product decision carried over as-is.
func (s *AlbumService) ShareAlbum(albumID, ownerID uint64, input ShareAlbumInput) (*models.AlbumShare, error) {
	if _, err := s.ownedAlbum(albumID, ownerID); err != nil {
		return nil, err
	}
	if input.SharedWith == ownerID {
		return nil, fmt.Errorf("%w: cannot share an album with its owner", ErrConflict)
	}
	var recipient models.User
	if err := s.db.First(&recipient, input.SharedWith).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, input.SharedWith)
		}
		return nil, err
	}
	permissions := models.DefaultSharePermissions()
	if input.Permissions != nil {
		permissions = *input.Permissions
	}
	share := models.NewAlbumShare(albumID, ownerID, input.SharedWith, permissions)
	share.Message = input.Message
	share.ExpiresAt = input.ExpiresAt

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.AlbumShare{}).
			Where("album_id = ? AND shared_with_id = ?", albumID, input.SharedWith).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: album already shared with this user", ErrConflict)
		}
		return tx.Create(&share).Error
	})
	if err != nil {
		if errors.Is(err, ErrConflict) || isDuplicateKey(err) {
			// The unique index backstops the check under concurrency
			return nil, fmt.Errorf("%w: album already shared with this user", ErrConflict)
		}
		return nil, err
	}
	appendActivity(s.db, albumID, ownerID, models.ActivityShared,
		map[string]any{"shared_with_user": input.SharedWith})
	return &share, nil
}

// RespondToShare performs the single allowed transition of a pending share.
// Already-resolved, foreign and unknown shares all fail identically.
func (s *AlbumService) RespondToShare(shareID, userID uint64, response models.ShareStatus) (*models.AlbumShare, error) {
	if response != models.ShareStatusAccepted && response != models.ShareStatusDeclined {
		return nil, fmt.Errorf("%w: response must be accepted or declined", ErrValidation)
	}
	var share models.AlbumShare
	err := s.db.
		Where("id = ? AND shared_with_id = ? AND status = ?",
			shareID, userID, models.ShareStatusPending).
		First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: share %d", ErrNotFound, shareID)
		}
		return nil, err
	}
	now := time.Now()
	if response == models.ShareStatusAccepted && share.Expired(now) {
		return nil, fmt.Errorf("%w: share %d", ErrNotFound, shareID)
	}
	share.Status = response
	action := models.ActivityDeclined
	if response == models.ShareStatusAccepted {
		acceptedAt := now.Unix()
		share.AcceptedAt = &acceptedAt
		action = models.ActivityJoined
	} else {
		share.AcceptedAt = nil
	}
	err = s.db.Model(&share).
		Select("status", "accepted_at").
		Updates(map[string]any{"status": share.Status, "accepted_at": share.AcceptedAt}).Error
	if err != nil {
		return nil, err
	}
	appendActivity(s.db, share.AlbumID, userID, action,
		map[string]any{"share_id": shareID})
	return &share, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// MySQL 1062 / SQLite "UNIQUE constraint failed" without translated errors
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
