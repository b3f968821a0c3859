package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"recommread/internal/config"
	"recommread/internal/db"
	"recommread/internal/logger"
	"recommread/internal/middleware"
	"recommread/internal/repository"
	"recommread/internal/router"
	"recommread/internal/services"
	"recommread/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := start(); err != nil {
		fmt.Fprintf(os.Stderr, "server run into an error: %s\n", err)
		os.Exit(1)
	}
}

func start() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New("recommread", cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	utils.PasswordCost = cfg.BcryptCost

	// Initialize Database
	gdb, err := db.Open(cfg.DatabaseURL, cfg.LogLevel, log)
	if err != nil {
		log.Errorw("failed to connect to database", "error", err)
		return err
	}
	defer db.Close(gdb) //nolint:errcheck

	if cfg.AutoMigrate {
		if err := db.Migrate(gdb, log); err != nil {
			log.Errorw("failed to migrate database", "error", err)
			return err
		}
	}

	repo := repository.NewGormRepository(gdb)

	gin.SetMode(cfg.GinMode)
	r := router.New(log, router.Options{
		SessionName:  cfg.Session.Name,
		SessionStore: middleware.NewSessionStore(cfg.Session, gdb),
		CORSOrigins:  cfg.CORSOrigins,
	}, router.Services{
		Auth:      services.NewAuthService(log, repo),
		Stories:   services.NewStoryService(log, repo),
		Bookmarks: services.NewBookmarkService(log, repo),
	})

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = loadTemplates(cfg.TemplatesDir)

	// Static Assets
	r.Static("/static", cfg.StaticDir)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger.StdLog(log),
	}
	return run(srv, log, cfg.ShutdownTimeout)
}

func run(srv *http.Server, log *zap.SugaredLogger, timeout time.Duration) error {
	// expect a signal to gracefully shutdown the server
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Infow("RecommRead server starting", "addr", srv.Addr)
		errChan <- srv.ListenAndServe()
	}()

	var err error
	select {
	case s := <-sig:
		log.Infow("shutting down", "signal", s.String())
	case err = <-errChan:
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	sdErr := srv.Shutdown(ctx)

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if sdErr != nil {
		return fmt.Errorf("server shutdown: %w", sdErr)
	}
	return nil
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	components, err := filepath.Glob(templatesDir + "/components/*.html")
	if err != nil {
		panic(err)
	}

	// "story/list.html" -> [base, components..., list]
	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(components)+1)
		files = append(files, layouts...)
		files = append(files, components...)
		files = append(files, view)
		return files
	}

	// Manual registration to ensure keys match handler expectation
	for _, name := range []string{
		"index.html",
		"error.html",
		"auth/login.html",
		"auth/signup.html",
		"story/list.html",
		"story/detail.html",
		"story/create.html",
		"story/edit.html",
		"bookmark/list.html",
	} {
		r.AddFromFilesFuncs(name, funcMap, assemble(templatesDir+"/views/"+name)...)
	}

	return r
}

var funcMap = template.FuncMap{
	"dict": func(values ...interface{}) (map[string]interface{}, error) {
		if len(values)%2 != 0 {
			return nil, fmt.Errorf("invalid dict call")
		}
		dict := make(map[string]interface{}, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict keys must be strings")
			}
			dict[key] = values[i+1]
		}
		return dict, nil
	},
	"add": func(a, b int) int {
		return a + b
	},
	"sub": func(a, b int) int {
		return a - b
	},
	"timeAgo": timeAgo,
	"markdown": utils.RenderMarkdown,
	"excerpt": func(s string) string {
		return utils.MarkdownExcerpt(s, 200)
	},
}

func timeAgo(t time.Time) string {
	seconds := int(time.Since(t).Seconds())

	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return plural(seconds/60, "minute")
	case seconds < 86400:
		return plural(seconds/3600, "hour")
	case seconds < 2592000:
		return plural(seconds/86400, "day")
	case seconds < 31536000:
		return plural(seconds/2592000, "month")
	}
	return plural(seconds/31536000, "year")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
