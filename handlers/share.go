package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anuragkumar-code/snapengine-v2/models"
	"github.com/anuragkumar-code/snapengine-v2/services"
)

type ShareAlbumRequest struct {
	SharedWith  uint64                   `json:"shared_with" binding:"required"`
	Permissions *models.SharePermissions `json:"permissions"`
	Message     string                   `json:"message"`
	ExpiresAt   int64                    `json:"expires_at"`
}

type ShareRespondRequest struct {
	Response string `json:"response" binding:"required"`
}

func (h *AlbumHandlers) Share(c *gin.Context, user *models.User) {
	albumID, ok := albumIDParam(c)
	if !ok {
		return
	}
	r := ShareAlbumRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	share, err := h.Albums.ShareAlbum(albumID, user.ID, services.ShareAlbumInput{
		SharedWith:  r.SharedWith,
		Permissions: r.Permissions,
		Message:     r.Message,
		ExpiresAt:   r.ExpiresAt,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, share)
}

func (h *AlbumHandlers) RespondToShare(c *gin.Context, user *models.User) {
	shareID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || shareID == 0 {
		c.JSON(http.StatusBadRequest, Response{"invalid share id"})
		return
	}
	r := ShareRespondRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	share, err := h.Albums.RespondToShare(shareID, user.ID, models.ShareStatus(r.Response))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, share)
}
