package middleware

import (
	"net/http"
	"strconv"

	"recommread/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const SessionUserKey = "user_id"
const IdentityKey = "identity"

// LoadIdentity reads the session user and stores a request-scoped
// services.Identity in the gin context. It never touches the database.
func LoadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := services.Identity{}
		if id, ok := sessionUserID(sessions.Default(c).Get(SessionUserKey)); ok {
			identity.UserID = id
		}
		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// CurrentIdentity returns the identity set by LoadIdentity, anonymous if none.
func CurrentIdentity(c *gin.Context) services.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if identity, ok := v.(services.Identity); ok {
			return identity
		}
	}
	return services.Identity{}
}

// AuthRequired rejects anonymous API requests with 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": services.ErrNotAuthenticated.Message})
			return
		}
		c.Next()
	}
}

// PageAuthRequired redirects anonymous page visitors to the login page.
func PageAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).Authenticated() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Login stores userID in the session and updates the request identity.
func Login(c *gin.Context, userID uint) error {
	session := sessions.Default(c)
	session.Set(SessionUserKey, userID)
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(IdentityKey, services.Identity{UserID: userID})
	return nil
}

// Logout clears the session identity.
func Logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(SessionUserKey)
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(IdentityKey, services.Identity{})
	return nil
}

func sessionUserID(v interface{}) (uint, bool) {
	switch id := v.(type) {
	case uint:
		return id, id != 0
	case int:
		return uint(id), id > 0
	case int64:
		return uint(id), id > 0
	case float64:
		return uint(id), id > 0
	case string:
		n, err := strconv.ParseUint(id, 10, 32)
		if err != nil {
			return 0, false
		}
		return uint(n), n != 0
	}
	return 0, false
}
