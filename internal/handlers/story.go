package handlers

import (
	"net/http"

	"recommread/internal/middleware"
	"recommread/internal/services"

	"github.com/gin-gonic/gin"
)

type StoryHandler struct {
	stories *services.StoryService
}

func NewStoryHandler(stories *services.StoryService) *StoryHandler {
	return &StoryHandler{stories: stories}
}

// List GET /stories?page&per_page
func (h *StoryHandler) List(c *gin.Context) {
	page, err := h.stories.List(c.Request.Context(), pagination(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stories":      page.Items,
		"total":        page.Total,
		"pages":        page.Pages,
		"current_page": page.Pagination.Page,
	})
}

func (h *StoryHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		respondError(c, services.ErrStoryNotFound)
		return
	}

	story, err := h.stories.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, story)
}

func (h *StoryHandler) Create(c *gin.Context) {
	var in services.StoryInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, err)
		return
	}

	story, err := h.stories.Create(c.Request.Context(), middleware.CurrentIdentity(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Story created successfully",
		"story":   story,
	})
}

func (h *StoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		respondError(c, services.ErrStoryNotFound)
		return
	}

	var patch services.StoryPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, err)
		return
	}

	story, err := h.stories.Update(c.Request.Context(), middleware.CurrentIdentity(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Story updated successfully",
		"story":   story,
	})
}

func (h *StoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		respondError(c, services.ErrStoryNotFound)
		return
	}

	if err := h.stories.Delete(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Story deleted successfully"})
}
