package handlers

import (
	"errors"
	"net/http"

	"recommread/internal/middleware"
	"recommread/internal/services"
	"recommread/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const homeStories = 5

// WebHandler serves the HTML pages. Forms on these pages talk to the JSON API.
type WebHandler struct {
	logs      *zap.SugaredLogger
	auth      *services.AuthService
	stories   *services.StoryService
	bookmarks *services.BookmarkService
}

func NewWebHandler(logger *zap.SugaredLogger, auth *services.AuthService, stories *services.StoryService, bookmarks *services.BookmarkService) *WebHandler {
	return &WebHandler{
		logs:      logger,
		auth:      auth,
		stories:   stories,
		bookmarks: bookmarks,
	}
}

// render adds the logged in user to the page data
func (h *WebHandler) render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}
	identity := middleware.CurrentIdentity(c)
	if identity.Authenticated() {
		if user, err := h.auth.CurrentUser(c.Request.Context(), identity); err == nil {
			obj["CurrentUser"] = user
		}
	}
	Render(c, code, name, obj)
}

func (h *WebHandler) renderError(c *gin.Context, err error) {
	var e *services.Error
	if !errors.As(err, &e) {
		e = services.ErrPersistence.With("Internal server error", err)
	}
	code := statusFor(e.Kind)
	h.render(c, code, "error.html", gin.H{"Title": http.StatusText(code), "Error": e.Message})
}

func (h *WebHandler) Index(c *gin.Context) {
	page, err := h.stories.List(c.Request.Context(), utils.Pagination{Page: 1, PerPage: homeStories})
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "index.html", gin.H{
		"Title":   "RecommRead",
		"Stories": page.Items,
	})
}

func (h *WebHandler) ShowLogin(c *gin.Context) {
	if middleware.CurrentIdentity(c).Authenticated() {
		c.Redirect(http.StatusFound, "/stories")
		return
	}
	h.render(c, http.StatusOK, "auth/login.html", gin.H{"Title": "Login"})
}

func (h *WebHandler) ShowSignup(c *gin.Context) {
	if middleware.CurrentIdentity(c).Authenticated() {
		c.Redirect(http.StatusFound, "/stories")
		return
	}
	h.render(c, http.StatusOK, "auth/signup.html", gin.H{"Title": "Sign Up"})
}

func (h *WebHandler) Stories(c *gin.Context) {
	page, err := h.stories.List(c.Request.Context(), pagination(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "story/list.html", gin.H{
		"Title": "Stories",
		"Page":  page,
	})
}

func (h *WebHandler) StoryDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		h.renderError(c, services.ErrStoryNotFound)
		return
	}

	story, err := h.stories.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	identity := middleware.CurrentIdentity(c)
	h.render(c, http.StatusOK, "story/detail.html", gin.H{
		"Title":   story.Title,
		"Story":   story,
		"IsOwner": identity.Authenticated() && identity.UserID == story.AuthorID,
	})
}

func (h *WebHandler) ShowCreateStory(c *gin.Context) {
	h.render(c, http.StatusOK, "story/create.html", gin.H{"Title": "Share a Story"})
}

// ShowEditStory 只有作者可以编辑
func (h *WebHandler) ShowEditStory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		h.renderError(c, services.ErrStoryNotFound)
		return
	}

	story, err := h.stories.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if middleware.CurrentIdentity(c).UserID != story.AuthorID {
		h.renderError(c, services.ErrForbidden.With("Not authorized to update this story", nil))
		return
	}

	h.render(c, http.StatusOK, "story/edit.html", gin.H{
		"Title": "Edit Story",
		"Story": story,
	})
}

func (h *WebHandler) Bookmarks(c *gin.Context) {
	page, err := h.bookmarks.List(c.Request.Context(), middleware.CurrentIdentity(c), pagination(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "bookmark/list.html", gin.H{
		"Title": "My Bookmarks",
		"Page":  page,
	})
}

// NotFound renders the error page for unknown page routes and a JSON error
// for unknown API routes.
func (h *WebHandler) NotFound(c *gin.Context) {
	if isAPIRequest(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	h.render(c, http.StatusNotFound, "error.html", gin.H{"Title": "Not Found", "Error": "Page not found"})
}
