package services

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/anuragkumar-code/snapengine-v2/models"
)

// appendActivity records an album-affecting action. The append is the terminal
// step of every mutation and a failure must not undo the mutation itself, so
// it is logged with enough context for manual reconciliation instead of being
// returned.
func appendActivity(db *gorm.DB, albumID, userID uint64, action models.ActivityAction, details any) {
	activity := models.NewAlbumActivity(albumID, userID, action, details)
	if err := db.Create(&activity).Error; err != nil {
		logrus.WithFields(logrus.Fields{
			"album_id": albumID,
			"user_id":  userID,
			"action":   action,
		}).Warnf("activity append failed: %v", err)
	}
}

type ActivityPage struct {
	Activities []models.AlbumActivity `json:"activities"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// ListAlbumActivity returns the album's audit trail, newest first. Any user
// with access to the album may read it.
func (s *AlbumService) ListAlbumActivity(albumID, userID uint64, opts PageOptions) (*ActivityPage, error) {
	if _, err := s.ResolveAccess(albumID, userID); err != nil {
		return nil, err
	}
	page, limit := opts.normalize(defaultActivityLimit)

	query := s.db.Model(&models.AlbumActivity{}).Where("album_id = ?", albumID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	result := &ActivityPage{
		Activities: []models.AlbumActivity{},
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&result.Activities).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}
