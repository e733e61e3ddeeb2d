package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anuragkumar-code/snapengine-v2/config"
	"github.com/anuragkumar-code/snapengine-v2/models"
	"github.com/anuragkumar-code/snapengine-v2/processing"
	"github.com/anuragkumar-code/snapengine-v2/services"
	"github.com/anuragkumar-code/snapengine-v2/storage"
)

type PhotoHandlers struct {
	Photos *services.PhotoService
	Albums *services.AlbumService
	Store  storage.StorageAPI
}

type PhotoInfo struct {
	ID          uint64   `json:"id"`
	AlbumID     uint64   `json:"album_id"`
	UserID      uint64   `json:"user_id"`
	Filename    string   `json:"filename"`
	OriginalURL string   `json:"original_url"`
	MediumURL   string   `json:"medium_url"`
	ThumbURL    string   `json:"thumb_url"`
	FileSize    int64    `json:"file_size"`
	MimeType    string   `json:"mime_type"`
	Caption     string   `json:"caption"`
	Tags        []string `json:"tags"`
	IsPrivate   bool     `json:"is_private"`
	IsCover     bool     `json:"is_cover"`
	OrderIndex  int64    `json:"order_index"`
	CreatedAt   int64    `json:"created_at"`
}

func photoInfo(p *models.Photo) PhotoInfo {
	id := strconv.FormatUint(p.ID, 10)
	return PhotoInfo{
		ID:          p.ID,
		AlbumID:     p.AlbumID,
		UserID:      p.UserID,
		Filename:    p.Filename,
		OriginalURL: "/photos/" + id + "/file?size=original",
		MediumURL:   "/photos/" + id + "/file?size=medium",
		ThumbURL:    "/photos/" + id + "/file?size=thumb",
		FileSize:    p.FileSize,
		MimeType:    p.MimeType,
		Caption:     p.Caption,
		Tags:        p.TagList(),
		IsPrivate:   p.IsPrivate,
		IsCover:     p.IsCover,
		OrderIndex:  p.OrderIndex,
		CreatedAt:   p.CreatedAt,
	}
}

func photoIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, Response{"invalid photo id"})
		return 0, false
	}
	return id, true
}

// Upload accepts a multipart batch, writes the original plus generated
// derivatives through the asset store and registers the photos. A file whose
// derivative generation fails is skipped, not an error - the batch policy
// mirrors the add semantics in the photo service.
func (h *PhotoHandlers) Upload(c *gin.Context, user *models.User) {
	albumID, ok := albumIDParam(c)
	if !ok {
		return
	}
	access, err := h.Albums.ResolveAccess(albumID, user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := access.Require(models.CapabilityAdd); err != nil {
		abortWithError(c, err)
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, Response{"no files"})
		return
	}
	meta := services.PhotoMeta{
		Caption:   c.PostForm("caption"),
		Tags:      models.DecodeTags(c.PostForm("tags")),
		IsPrivate: c.PostForm("is_private") == "true",
	}

	uploads := []services.UploadedFile{}
	derivatives := []services.DerivativeRecord{}
	saveFailures := 0
	for _, header := range files {
		mimeType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(mimeType, "image/") {
			logrus.WithField("name", header.Filename).Warn("skipping non-image upload")
			continue
		}
		src, err := header.Open()
		if err != nil {
			logrus.WithField("name", header.Filename).Warnf("cannot open upload: %v", err)
			continue
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			logrus.WithField("name", header.Filename).Warnf("cannot read upload: %v", err)
			continue
		}
		generated, err := processing.Generate(bytes.NewReader(data),
			uint(config.MEDIUM_MAX_SIZE), uint(config.THUMB_SIZE))
		if err != nil {
			// Defined policy: an upload whose derivatives cannot be
			// produced is skipped, the rest of the batch proceeds
			logrus.WithField("name", header.Filename).Warnf("derivative generation failed: %v", err)
			continue
		}
		storedName := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
		// Derivatives are re-encoded as JPEG whatever the original was
		jpegName := strings.TrimSuffix(storedName, filepath.Ext(storedName)) + ".jpg"
		record := services.DerivativeRecord{
			Filename:     storedName,
			OriginalPath: storage.PhotoPath(user.ID, albumID, storage.VariantOriginal, storedName),
			MediumPath:   storage.PhotoPath(user.ID, albumID, storage.VariantMedium, jpegName),
			ThumbPath:    storage.PhotoPath(user.ID, albumID, storage.VariantThumb, jpegName),
			Width:        generated.Width,
			Height:       generated.Height,
		}
		if !h.saveDerivativeSet(record, data, generated) {
			saveFailures++
			continue
		}
		uploads = append(uploads, services.UploadedFile{
			Filename:     storedName,
			OriginalName: header.Filename,
			Size:         int64(len(data)),
			MimeType:     mimeType,
		})
		derivatives = append(derivatives, record)
	}

	if len(uploads) == 0 && saveFailures > 0 {
		abortWithError(c, fmt.Errorf("%w: could not store any of the uploads", services.ErrIO))
		return
	}
	photos, err := h.Photos.AddPhotos(albumID, user.ID, uploads, derivatives, meta)
	if err != nil {
		abortWithError(c, err)
		return
	}
	result := make([]PhotoInfo, 0, len(photos))
	for i := range photos {
		result = append(result, photoInfo(&photos[i]))
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "photos": result})
}

// saveDerivativeSet writes the three files as a set; on failure the partial
// set is removed so no orphan files outlive a skipped upload.
func (h *PhotoHandlers) saveDerivativeSet(record services.DerivativeRecord, original []byte, generated *processing.Derivatives) bool {
	writes := []struct {
		path string
		data io.Reader
	}{
		{record.OriginalPath, bytes.NewReader(original)},
		{record.MediumPath, generated.Medium},
		{record.ThumbPath, generated.Thumb},
	}
	for i, write := range writes {
		if _, err := h.Store.Save(write.path, write.data); err != nil {
			logrus.WithField("path", write.path).Errorf("asset store save failed: %v", err)
			for j := 0; j < i; j++ {
				if cleanupErr := h.Store.Delete(writes[j].path); cleanupErr != nil {
					logrus.WithField("path", writes[j].path).Warnf("orphan cleanup failed: %v", cleanupErr)
				}
			}
			return false
		}
	}
	return true
}

type PhotoUpdateRequest struct {
	Caption   *string  `json:"caption"`
	Tags      []string `json:"tags"`
	IsPrivate *bool    `json:"is_private"`
}

func (h *PhotoHandlers) Update(c *gin.Context, user *models.User) {
	photoID, ok := photoIDParam(c)
	if !ok {
		return
	}
	r := PhotoUpdateRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	photo, err := h.Photos.UpdatePhoto(photoID, user.ID, services.UpdatePhotoInput{
		Caption:   r.Caption,
		Tags:      r.Tags,
		IsPrivate: r.IsPrivate,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, photoInfo(photo))
}

func (h *PhotoHandlers) Delete(c *gin.Context, user *models.User) {
	photoID, ok := photoIDParam(c)
	if !ok {
		return
	}
	if err := h.Photos.DeletePhoto(photoID, user.ID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func (h *PhotoHandlers) Get(c *gin.Context, user *models.User) {
	photoID, ok := photoIDParam(c)
	if !ok {
		return
	}
	photo, err := h.Photos.GetPhoto(photoID, user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, photoInfo(photo))
}

// Fetch streams one derivative of a photo through the asset store.
func (h *PhotoHandlers) Fetch(c *gin.Context, user *models.User) {
	photoID, ok := photoIDParam(c)
	if !ok {
		return
	}
	photo, err := h.Photos.GetPhoto(photoID, user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	path := photo.MediumPath
	switch c.Query("size") {
	case storage.VariantOriginal:
		path = photo.OriginalPath
	case storage.VariantThumb:
		path = photo.ThumbPath
	case storage.VariantMedium, "":
	default:
		c.JSON(http.StatusBadRequest, Response{"unknown size"})
		return
	}
	h.Store.Serve(path, c.Request, c.Writer)
}

type PhotoListRequest struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

func (h *PhotoHandlers) ListAlbumPhotos(c *gin.Context, user *models.User) {
	albumID, ok := albumIDParam(c)
	if !ok {
		return
	}
	r := PhotoListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	page, err := h.Photos.ListAlbumPhotos(albumID, user.ID, services.ListPhotoOptions{
		PageOptions: services.PageOptions{Page: r.Page, Limit: r.Limit},
		SortBy:      r.SortBy,
		SortOrder:   r.SortOrder,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PhotoHandlers) ListUserPhotos(c *gin.Context, user *models.User) {
	r := PhotoListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	page, err := h.Photos.ListUserPhotos(user.ID, services.ListPhotoOptions{
		PageOptions: services.PageOptions{Page: r.Page, Limit: r.Limit},
		Search:      r.Search,
		SortBy:      r.SortBy,
		SortOrder:   r.SortOrder,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
