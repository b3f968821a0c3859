package handlers

import (
	"net/http"

	"recommread/internal/middleware"
	"recommread/internal/services"

	"github.com/gin-gonic/gin"
)

type BookmarkHandler struct {
	bookmarks *services.BookmarkService
}

func NewBookmarkHandler(bookmarks *services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

// Add 收藏文章，重复收藏返回已有记录
func (h *BookmarkHandler) Add(c *gin.Context) {
	storyID, ok := paramID(c, "story_id")
	if !ok {
		respondError(c, services.ErrStoryNotFound)
		return
	}

	bookmark, created, err := h.bookmarks.Add(c.Request.Context(), middleware.CurrentIdentity(c), storyID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{
			"message":  "Story already bookmarked",
			"bookmark": bookmark,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Story bookmarked successfully",
		"bookmark": bookmark,
	})
}

// Remove 取消收藏
func (h *BookmarkHandler) Remove(c *gin.Context) {
	storyID, ok := paramID(c, "story_id")
	if !ok {
		respondError(c, services.ErrBookmarkNotFound)
		return
	}

	if err := h.bookmarks.Remove(c.Request.Context(), middleware.CurrentIdentity(c), storyID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bookmark removed successfully"})
}

// List GET /bookmarks?page&per_page
func (h *BookmarkHandler) List(c *gin.Context) {
	page, err := h.bookmarks.List(c.Request.Context(), middleware.CurrentIdentity(c), pagination(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookmarks":    page.Items,
		"total":        page.Total,
		"pages":        page.Pages,
		"current_page": page.Pagination.Page,
	})
}
