package middleware

import (
	"net/http"

	"recommread/internal/config"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"gorm.io/gorm"
)

// NewSessionStore builds the configured session backend. gdb is only used by
// the gorm store.
func NewSessionStore(cfg config.Session, gdb *gorm.DB) sessions.Store {
	var store sessions.Store
	switch cfg.Store {
	case config.SessionStoreGorm:
		// 服务端存储，过期会话自动清理
		store = gormsessions.NewStore(gdb, true, []byte(cfg.Secret))
	default:
		store = cookie.NewStore([]byte(cfg.Secret))
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}
