package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anuragkumar-code/snapengine-v2/models"
	"github.com/anuragkumar-code/snapengine-v2/services"
)

type AlbumHandlers struct {
	Albums *services.AlbumService
}

type AlbumCreateRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	Date        int64                   `json:"date"`
	Tags        []string                `json:"tags"`
	Location    string                  `json:"location"`
	Type        models.AlbumType        `json:"type"`
	Privacy     *models.PrivacySettings `json:"privacy_settings"`
}

type AlbumUpdateRequest struct {
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	Date        *int64                  `json:"date"`
	Tags        []string                `json:"tags"`
	Location    *string                 `json:"location"`
	Type        *models.AlbumType       `json:"type"`
	Privacy     *models.PrivacySettings `json:"privacy_settings"`
}

type AlbumListRequest struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Type      string `form:"type"`
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

func albumIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, Response{"invalid album id"})
		return 0, false
	}
	return id, true
}

func (h *AlbumHandlers) Create(c *gin.Context, user *models.User) {
	r := AlbumCreateRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	album, err := h.Albums.CreateAlbum(user.ID, services.CreateAlbumInput{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Tags:        r.Tags,
		Location:    r.Location,
		Type:        r.Type,
		Privacy:     r.Privacy,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}

func (h *AlbumHandlers) Get(c *gin.Context, user *models.User) {
	albumID, ok := albumIDParam(c)
	if !ok {
		return
	}
	details, err := h.Albums.GetAlbum(albumID, user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *AlbumHandlers) Update(c *gin.Context, user *models.User) {
	albumID, ok := albumIDParam(c)
	if !ok {
		return
	}
	r := AlbumUpdateRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	album, err := h.Albums.UpdateAlbum(albumID, user.ID, services.UpdateAlbumInput{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Tags:        r.Tags,
		Location:    r.Location,
		Type:        r.Type,
		Privacy:     r.Privacy,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}

func (h *AlbumHandlers) Delete(c *gin.Context, user *models.User) {
	albumID, ok := albumIDParam(c)
	if !ok {
		return
	}
	if err := h.Albums.DeleteAlbum(albumID, user.ID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func (h *AlbumHandlers) List(c *gin.Context, user *models.User) {
	r := AlbumListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	page, err := h.Albums.ListUserAlbums(user.ID, services.ListAlbumOptions{
		PageOptions: services.PageOptions{Page: r.Page, Limit: r.Limit},
		Type:        models.AlbumType(r.Type),
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

type SharedAlbumListRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
}

func (h *AlbumHandlers) ListShared(c *gin.Context, user *models.User) {
	r := SharedAlbumListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	page, err := h.Albums.ListSharedAlbums(user.ID, services.SharedAlbumOptions{
		PageOptions: services.PageOptions{Page: r.Page, Limit: r.Limit},
		Status:      models.ShareStatus(r.Status),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type ActivityListRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (h *AlbumHandlers) Activity(c *gin.Context, user *models.User) {
	albumID, ok := albumIDParam(c)
	if !ok {
		return
	}
	r := ActivityListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	page, err := h.Albums.ListAlbumActivity(albumID, user.ID, services.PageOptions{
		Page:  r.Page,
		Limit: r.Limit,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
