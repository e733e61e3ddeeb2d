package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/anuragkumar-code/snapengine-v2/models"
	"github.com/anuragkumar-code/snapengine-v2/storage"
)

// AlbumService owns album CRUD, the access resolver, the share lifecycle and
// the activity log. Dependencies are injected so tests can run against an
// in-memory database and a throwaway store.
type AlbumService struct {
	db    *gorm.DB
	store storage.StorageAPI
}

func NewAlbumService(db *gorm.DB, store storage.StorageAPI) *AlbumService {
	return &AlbumService{db: db, store: store}
}

type CreateAlbumInput struct {
	Title       string
	Description string
	Date        int64
	Tags        []string
	Location    string
	Type        models.AlbumType
	Privacy     *models.PrivacySettings
}

func (s *AlbumService) CreateAlbum(userID uint64, input CreateAlbumInput) (*models.Album, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(input.Title) > 100 {
		return nil, fmt.Errorf("%w: title too long", ErrValidation)
	}
	albumType := input.Type
	if albumType == "" {
		albumType = models.AlbumTypePersonal
	}
	if albumType != models.AlbumTypePersonal && albumType != models.AlbumTypeShareable {
		return nil, fmt.Errorf("%w: unknown album type %q", ErrValidation, input.Type)
	}
	privacy := models.DefaultPrivacySettings()
	if input.Privacy != nil {
		privacy = *input.Privacy
	}
	album := models.Album{
		UserID:          userID,
		Title:           input.Title,
		Description:     input.Description,
		Date:            input.Date,
		Location:        input.Location,
		Type:            albumType,
		PrivacySettings: datatypes.NewJSONType(privacy),
	}
	album.SetTagList(input.Tags)
	if err := s.db.Create(&album).Error; err != nil {
		return nil, err
	}
	appendActivity(s.db, album.ID, userID, models.ActivityCreated,
		map[string]any{"album_title": album.Title})
	return &album, nil
}

// AlbumDetails is the GetAlbum payload: the album with its visible photos and
// the caller's resolved capability set.
type AlbumDetails struct {
	Album       models.Album            `json:"album"`
	Photos      []models.Photo          `json:"photos"`
	IsOwner     bool                    `json:"is_owner"`
	Permissions models.SharePermissions `json:"permissions"`
}

func (s *AlbumService) GetAlbum(albumID, userID uint64) (*AlbumDetails, error) {
	access, err := s.ResolveAccess(albumID, userID)
	if err != nil {
		return nil, err
	}
	details := &AlbumDetails{
		Album:       access.Album,
		Photos:      []models.Photo{},
		IsOwner:     access.IsOwner,
		Permissions: access.Permissions,
	}
	query := s.db.Where("album_id = ?", albumID)
	if !access.IsOwner {
		query = query.Where("is_private = ?", false)
	}
	if err := query.Order("order_index ASC, created_at ASC, id ASC").Find(&details.Photos).Error; err != nil {
		return nil, err
	}
	return details, nil
}

type UpdateAlbumInput struct {
	Title       *string
	Description *string
	Date        *int64
	Tags        []string
	Location    *string
	Type        *models.AlbumType
	Privacy     *models.PrivacySettings
}

func (s *AlbumService) UpdateAlbum(albumID, userID uint64, input UpdateAlbumInput) (*models.Album, error) {
	album, err := s.ownedAlbum(albumID, userID)
	if err != nil {
		return nil, err
	}
	updated := []string{}
	if input.Title != nil {
		if *input.Title == "" || len(*input.Title) > 100 {
			return nil, fmt.Errorf("%w: invalid title", ErrValidation)
		}
		album.Title = *input.Title
		updated = append(updated, "title")
	}
	if input.Description != nil {
		album.Description = *input.Description
		updated = append(updated, "description")
	}
	if input.Date != nil {
		album.Date = *input.Date
		updated = append(updated, "date")
	}
	if input.Tags != nil {
		album.SetTagList(input.Tags)
		updated = append(updated, "tags")
	}
	if input.Location != nil {
		album.Location = *input.Location
		updated = append(updated, "location")
	}
	if input.Type != nil {
		if *input.Type != models.AlbumTypePersonal && *input.Type != models.AlbumTypeShareable {
			return nil, fmt.Errorf("%w: unknown album type %q", ErrValidation, *input.Type)
		}
		album.Type = *input.Type
		updated = append(updated, "type")
	}
	if input.Privacy != nil {
		album.PrivacySettings = datatypes.NewJSONType(*input.Privacy)
		updated = append(updated, "privacy_settings")
	}
	if len(updated) == 0 {
		return album, nil
	}
	if err := s.db.Save(album).Error; err != nil {
		return nil, err
	}
	appendActivity(s.db, albumID, userID, models.ActivityUpdated,
		map[string]any{"updated_fields": updated})
	return album, nil
}

// DeleteAlbum cascades: first the best-effort removal of all derivative files,
// then one transaction destroying photos, shares, activities and the album.
// File cleanup is tolerant so a half-missing derivative set never blocks the
// row cascade.
func (s *AlbumService) DeleteAlbum(albumID, userID uint64) error {
	if _, err := s.ownedAlbum(albumID, userID); err != nil {
		return err
	}
	var photos []models.Photo
	if err := s.db.Where("album_id = ?", albumID).Find(&photos).Error; err != nil {
		return err
	}
	for i := range photos {
		s.removeDerivatives(&photos[i])
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("album_id = ?", albumID).Delete(&models.Photo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("album_id = ?", albumID).Delete(&models.AlbumShare{}).Error; err != nil {
			return err
		}
		if err := tx.Where("album_id = ?", albumID).Delete(&models.AlbumActivity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Album{}, albumID).Error
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"album_id": albumID,
			"user_id":  userID,
		}).Errorf("album cascade failed after file cleanup: %v", err)
		return err
	}
	logrus.WithFields(logrus.Fields{
		"album_id": albumID,
		"user_id":  userID,
		"photos":   len(photos),
	}).Info("album deleted")
	return nil
}

func (s *AlbumService) removeDerivatives(photo *models.Photo) {
	for _, path := range photo.DerivativePaths() {
		if path == "" {
			continue
		}
		if err := s.store.Delete(path); err != nil {
			// Tolerated: record cleanup must still proceed
			logrus.WithFields(logrus.Fields{
				"photo_id": photo.ID,
				"path":     path,
			}).Warnf("failed to delete derivative file: %v", err)
		}
	}
}

type ListAlbumOptions struct {
	PageOptions
	Type      models.AlbumType
	Search    string
	SortBy    string
	SortOrder string
}

type AlbumPage struct {
	Albums     []models.Album `json:"albums"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

func (s *AlbumService) ListUserAlbums(userID uint64, opts ListAlbumOptions) (*AlbumPage, error) {
	page, limit := opts.normalize(defaultAlbumLimit)
	query := s.db.Model(&models.Album{}).Where("user_id = ?", userID)
	if opts.Type != "" {
		query = query.Where("type = ?", opts.Type)
	}
	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	order := sortColumn(opts.SortBy, "created_at",
		"created_at", "updated_at", "title", "date", "total_photos", "total_size")
	result := &AlbumPage{
		Albums:     []models.Album{},
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
	err := query.
		Order(order + " " + sortDirection(opts.SortOrder)).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&result.Albums).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

type SharedAlbumOptions struct {
	PageOptions
	Status models.ShareStatus
}

type SharePage struct {
	Shares     []models.AlbumShare `json:"shares"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

// ListSharedAlbums returns share rows addressed to the user at the given
// status (accepted by default), with album and owner preloaded.
func (s *AlbumService) ListSharedAlbums(userID uint64, opts SharedAlbumOptions) (*SharePage, error) {
	page, limit := opts.normalize(defaultAlbumLimit)
	status := opts.Status
	if status == "" {
		status = models.ShareStatusAccepted
	}
	query := s.db.Model(&models.AlbumShare{}).
		Where("shared_with_id = ? AND status = ?", userID, status)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	result := &SharePage{
		Shares:     []models.AlbumShare{},
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
	err := query.
		Preload("Album").Preload("Album.User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&result.Shares).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ownedAlbum loads an album only when userID owns it; anything else is the
// conflated not-found error.
func (s *AlbumService) ownedAlbum(albumID, userID uint64) (*models.Album, error) {
	var album models.Album
	err := s.db.Where("id = ? AND user_id = ?", albumID, userID).First(&album).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: album %d", ErrNotFoundOrForbidden, albumID)
		}
		return nil, err
	}
	return &album, nil
}
