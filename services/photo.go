package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/anuragkumar-code/snapengine-v2/models"
	"github.com/anuragkumar-code/snapengine-v2/storage"
)

// PhotoService owns the photo lifecycle: creation with ordering, aggregate
// bookkeeping, cover election and the deletion cascade.
type PhotoService struct {
	db     *gorm.DB
	store  storage.StorageAPI
	albums *AlbumService
}

func NewPhotoService(db *gorm.DB, store storage.StorageAPI, albums *AlbumService) *PhotoService {
	return &PhotoService{db: db, store: store, albums: albums}
}

// UploadedFile describes an accepted original upload.
type UploadedFile struct {
	Filename     string // stored name, unique within the upload batch
	OriginalName string
	Size         int64
	MimeType     string
}

// DerivativeRecord is the output of the external derivative generator for one
// file, matched to its upload by Filename.
type DerivativeRecord struct {
	Filename     string
	OriginalPath string
	MediumPath   string
	ThumbPath    string
	Width        int
	Height       int
}

type PhotoMeta struct {
	Caption   string
	Tags      []string
	IsPrivate bool
}

// AddPhotos inserts one Photo per uploaded file that has a matching derivative
// record. Files without a match are silently skipped: derivative generation is
// an external, independently-failable step and a partial batch is still a
// success. Runs in one transaction per call so order indexes, aggregate
// counters and the cover bootstrap cannot interleave with a concurrent add.
func (s *PhotoService) AddPhotos(albumID, uploaderID uint64, files []UploadedFile, derivatives []DerivativeRecord, meta PhotoMeta) ([]models.Photo, error) {
	byFilename := make(map[string]*DerivativeRecord, len(derivatives))
	for i := range derivatives {
		byFilename[derivatives[i].Filename] = &derivatives[i]
	}

	var created []models.Photo
	var addedSize int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var album models.Album
		if err := tx.First(&album, albumID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: album %d", ErrNotFound, albumID)
			}
			return err
		}
		var maxOrder int64
		err := tx.Model(&models.Photo{}).
			Where("album_id = ?", albumID).
			Select("COALESCE(MAX(order_index), 0)").
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}
		for _, file := range files {
			derivative, ok := byFilename[file.Filename]
			if !ok {
				logrus.WithFields(logrus.Fields{
					"album_id": albumID,
					"filename": file.Filename,
				}).Warn("upload without derivative set, skipping")
				continue
			}
			maxOrder++
			photo := models.Photo{
				AlbumID:      albumID,
				UserID:       uploaderID,
				Filename:     file.Filename,
				OriginalName: file.OriginalName,
				OriginalPath: derivative.OriginalPath,
				MediumPath:   derivative.MediumPath,
				ThumbPath:    derivative.ThumbPath,
				FileSize:     file.Size,
				MimeType:     file.MimeType,
				Width:        derivative.Width,
				Height:       derivative.Height,
				Caption:      meta.Caption,
				IsPrivate:    meta.IsPrivate,
				OrderIndex:   maxOrder,
			}
			photo.SetTagList(meta.Tags)
			if err := tx.Create(&photo).Error; err != nil {
				return err
			}
			created = append(created, photo)
			addedSize += file.Size
		}
		if len(created) == 0 {
			return nil
		}
		// Atomic SQL arithmetic, never read-modify-write
		err = tx.Model(&models.Album{}).Where("id = ?", albumID).
			Updates(map[string]any{
				"total_photos": gorm.Expr("total_photos + ?", len(created)),
				"total_size":   gorm.Expr("total_size + ?", addedSize),
			}).Error
		if err != nil {
			return err
		}
		// One-time cover bootstrap, never re-triggered while a cover exists
		if album.CoverPhoto == nil || *album.CoverPhoto == "" {
			first := &created[0]
			if err := tx.Model(&models.Photo{}).Where("id = ?", first.ID).
				Update("is_cover", true).Error; err != nil {
				return err
			}
			first.IsCover = true
			if err := tx.Model(&models.Album{}).Where("id = ?", albumID).
				Update("cover_photo", first.OriginalPath).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(created) > 0 {
		appendActivity(s.db, albumID, uploaderID, models.ActivityPhotoAdded,
			map[string]any{"photo_count": len(created), "total_size": addedSize})
	}
	return created, nil
}

type UpdatePhotoInput struct {
	Caption   *string
	Tags      []string
	IsPrivate *bool
}

func (s *PhotoService) UpdatePhoto(photoID, userID uint64, input UpdatePhotoInput) (*models.Photo, error) {
	photo, err := s.photoForActor(photoID, userID)
	if err != nil {
		return nil, err
	}
	if input.Caption != nil {
		photo.Caption = *input.Caption
	}
	if input.Tags != nil {
		photo.SetTagList(input.Tags)
	}
	if input.IsPrivate != nil {
		photo.IsPrivate = *input.IsPrivate
	}
	if err := s.db.Save(photo).Error; err != nil {
		return nil, err
	}
	return photo, nil
}

// DeletePhoto removes the derivative files (tolerant of missing ones), then in
// one transaction fixes album aggregates, re-elects the cover when needed and
// destroys the row. Files go first so a crash leaves at worst orphaned
// counters, never dangling files a later upload could collide with.
func (s *PhotoService) DeletePhoto(photoID, actorID uint64) error {
	photo, err := s.photoForActor(photoID, actorID)
	if err != nil {
		return err
	}
	for _, path := range photo.DerivativePaths() {
		if path == "" {
			continue
		}
		if err := s.store.Delete(path); err != nil {
			logrus.WithFields(logrus.Fields{
				"photo_id": photo.ID,
				"path":     path,
			}).Warnf("failed to delete derivative file: %v", err)
		}
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Clamped decrements: a drifted counter must never go negative
		err := tx.Model(&models.Album{}).Where("id = ?", photo.AlbumID).
			Updates(map[string]any{
				"total_photos": gorm.Expr("CASE WHEN total_photos > 0 THEN total_photos - 1 ELSE 0 END"),
				"total_size":   gorm.Expr("CASE WHEN total_size >= ? THEN total_size - ? ELSE 0 END", photo.FileSize, photo.FileSize),
			}).Error
		if err != nil {
			return err
		}
		if photo.IsCover {
			if err := s.reassignCover(tx, photo); err != nil {
				return err
			}
		}
		return tx.Delete(&models.Photo{}, photo.ID).Error
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"photo_id": photoID,
			"album_id": photo.AlbumID,
			"user_id":  actorID,
		}).Errorf("photo row cascade failed after file cleanup: %v", err)
		return err
	}
	appendActivity(s.db, photo.AlbumID, actorID, models.ActivityPhotoRemoved,
		map[string]any{"photo_id": photoID})
	return nil
}

// reassignCover promotes the next photo by (order_index, created_at, id)
// among survivors, or clears the album cover when none remain.
func (s *PhotoService) reassignCover(tx *gorm.DB, deleted *models.Photo) error {
	var next models.Photo
	err := tx.
		Where("album_id = ? AND id <> ?", deleted.AlbumID, deleted.ID).
		Order("order_index ASC, created_at ASC, id ASC").
		First(&next).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Model(&models.Album{}).Where("id = ?", deleted.AlbumID).
				Update("cover_photo", nil).Error
		}
		return err
	}
	if err := tx.Model(&models.Photo{}).Where("id = ?", next.ID).
		Update("is_cover", true).Error; err != nil {
		return err
	}
	return tx.Model(&models.Album{}).Where("id = ?", deleted.AlbumID).
		Update("cover_photo", next.OriginalPath).Error
}

// GetPhoto returns a photo for its uploader or the album owner; other users
// need album access and never see private photos.
func (s *PhotoService) GetPhoto(photoID, userID uint64) (*models.Photo, error) {
	var photo models.Photo
	err := s.db.Joins("Album").First(&photo, photoID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: photo %d", ErrNotFoundOrForbidden, photoID)
		}
		return nil, err
	}
	if photo.UserID == userID || photo.Album.UserID == userID {
		return &photo, nil
	}
	access, err := s.albums.ResolveAccess(photo.AlbumID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: photo %d", ErrNotFoundOrForbidden, photoID)
	}
	if photo.IsPrivate {
		return nil, fmt.Errorf("%w: photo %d", ErrNotFoundOrForbidden, photoID)
	}
	if err := access.Require(models.CapabilityView); err != nil {
		return nil, err
	}
	return &photo, nil
}

type ListPhotoOptions struct {
	PageOptions
	Search    string
	SortBy    string
	SortOrder string
}

type PhotoPage struct {
	Photos     []models.Photo `json:"photos"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// ListAlbumPhotos pages through an album's photos. The caller needs the view
// capability, and non-owners never see private photos. Default ordering
// follows order_index.
func (s *PhotoService) ListAlbumPhotos(albumID, userID uint64, opts ListPhotoOptions) (*PhotoPage, error) {
	access, err := s.albums.ResolveAccess(albumID, userID)
	if err != nil {
		return nil, err
	}
	if err := access.Require(models.CapabilityView); err != nil {
		return nil, err
	}
	page, limit := opts.normalize(defaultPhotoLimit)
	query := s.db.Model(&models.Photo{}).Where("album_id = ?", albumID)
	if !access.IsOwner {
		query = query.Where("is_private = ?", false)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	order := sortColumn(opts.SortBy, "order_index",
		"order_index", "created_at", "file_size", "original_name")
	direction := "ASC"
	if opts.SortOrder != "" {
		direction = sortDirection(opts.SortOrder)
	}
	result := &PhotoPage{
		Photos:     []models.Photo{},
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
	err = query.
		Order(order + " " + direction + ", id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&result.Photos).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListUserPhotos pages through everything the user uploaded, across albums.
func (s *PhotoService) ListUserPhotos(userID uint64, opts ListPhotoOptions) (*PhotoPage, error) {
	page, limit := opts.normalize(defaultPhotoLimit)
	query := s.db.Model(&models.Photo{}).Where("user_id = ?", userID)
	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		query = query.Where("caption LIKE ? OR tags LIKE ?", like, like)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	order := sortColumn(opts.SortBy, "created_at",
		"created_at", "file_size", "original_name", "order_index")
	result := &PhotoPage{
		Photos:     []models.Photo{},
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
	err := query.
		Order(order + " " + sortDirection(opts.SortOrder) + ", id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&result.Photos).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

// photoForActor loads a photo when the actor is its uploader or the album
// owner. Unknown photos are NotFound; known-but-foreign ones are Forbidden.
func (s *PhotoService) photoForActor(photoID, actorID uint64) (*models.Photo, error) {
	var photo models.Photo
	err := s.db.Joins("Album").First(&photo, photoID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: photo %d", ErrNotFound, photoID)
		}
		return nil, err
	}
	if photo.UserID != actorID && photo.Album.UserID != actorID {
		return nil, fmt.Errorf("%w: photo %d", ErrForbidden, photoID)
	}
	return &photo, nil
}
