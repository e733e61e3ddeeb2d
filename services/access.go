package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/anuragkumar-code/snapengine-v2/models"
)

// AlbumAccess is the result of resolving a (user, album) pair. It is computed
// once per request and never cached.
type AlbumAccess struct {
	Album       models.Album
	IsOwner     bool
	Permissions models.SharePermissions
}

// Require fails with ErrForbidden when the capability is not granted. Unlike
// ResolveAccess this confirms existence, which is fine: it only runs after
// access was already established.
func (a *AlbumAccess) Require(c models.Capability) error {
	if a.IsOwner || a.Permissions.Has(c) {
		return nil
	}
	return fmt.Errorf("%w: missing %s permission", ErrForbidden, c)
}

// ResolveAccess computes the effective capability set for a user on an album.
// Owners get the full set. Non-owners need an accepted, unexpired share and
// get exactly its stored permissions. Everyone else - including callers asking
// about albums that do not exist - gets the same ErrNotFoundOrForbidden.
func (s *AlbumService) ResolveAccess(albumID, userID uint64) (*AlbumAccess, error) {
	var album models.Album
	if err := s.db.First(&album, albumID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: album %d", ErrNotFoundOrForbidden, albumID)
		}
		return nil, err
	}
	if album.UserID == userID {
		return &AlbumAccess{
			Album:       album,
			IsOwner:     true,
			Permissions: models.OwnerPermissions(),
		}, nil
	}
	var share models.AlbumShare
	err := s.db.
		Where("album_id = ? AND shared_with_id = ? AND status = ?",
			albumID, userID, models.ShareStatusAccepted).
		First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: album %d", ErrNotFoundOrForbidden, albumID)
		}
		return nil, err
	}
	if share.Expired(time.Now()) {
		return nil, fmt.Errorf("%w: album %d", ErrNotFoundOrForbidden, albumID)
	}
	return &AlbumAccess{
		Album:       album,
		IsOwner:     false,
		Permissions: share.Permissions,
	}, nil
}
