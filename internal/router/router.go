package router

import (
	"recommread/internal/handlers"
	"recommread/internal/middleware"
	"recommread/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services are the application services the routes dispatch to.
type Services struct {
	Auth      *services.AuthService
	Stories   *services.StoryService
	Bookmarks *services.BookmarkService
}

// Options configures the engine-wide middleware.
type Options struct {
	SessionName  string
	SessionStore sessions.Store
	CORSOrigins  []string
}

// New builds the engine with the middleware chain and all routes. Templates
// and static files are attached by the caller.
func New(logger *zap.SugaredLogger, opts Options, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recovery(logger),
		middleware.CORS(middleware.CorsSettings(opts.CORSOrigins)),
		sessions.Sessions(opts.SessionName, opts.SessionStore),
		middleware.LoadIdentity(),
	)
	RegisterRoutes(r, logger, svc)
	return r
}

func RegisterRoutes(r *gin.Engine, logger *zap.SugaredLogger, svc Services) {
	// Handlers
	authHandler := handlers.NewAuthHandler(logger, svc.Auth)
	storyHandler := handlers.NewStoryHandler(svc.Stories)
	bookmarkHandler := handlers.NewBookmarkHandler(svc.Bookmarks)
	webHandler := handlers.NewWebHandler(logger, svc.Auth, svc.Stories, svc.Bookmarks)

	// 页面 (Pages)
	r.GET("/", webHandler.Index)
	r.GET("/login", webHandler.ShowLogin)
	r.GET("/signup", webHandler.ShowSignup)
	r.GET("/stories", webHandler.Stories)
	r.GET("/story/:id", webHandler.StoryDetail)

	pages := r.Group("/")
	pages.Use(middleware.PageAuthRequired())
	{
		pages.GET("/create-story", webHandler.ShowCreateStory)
		pages.GET("/edit-story/:id", webHandler.ShowEditStory)
		pages.GET("/bookmarks", webHandler.Bookmarks)
	}

	// JSON API
	api := r.Group("/api")
	{
		api.GET("", authHandler.Status)

		api.POST("/signup", authHandler.Signup)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)
		api.GET("/user", authHandler.CurrentUser)

		api.GET("/stories", storyHandler.List)
		api.GET("/story/:id", storyHandler.Get)
	}

	// 需要登录 (Protected API)
	authorized := r.Group("/api")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/stories", storyHandler.Create)
		authorized.PUT("/story/:id", storyHandler.Update)
		authorized.DELETE("/story/:id", storyHandler.Delete)

		authorized.GET("/bookmarks", bookmarkHandler.List)
		authorized.POST("/bookmark/:story_id", bookmarkHandler.Add)
		authorized.DELETE("/bookmark/:story_id", bookmarkHandler.Remove)
	}

	r.NoRoute(webHandler.NotFound)
}
