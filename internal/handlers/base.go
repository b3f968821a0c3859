package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"recommread/internal/middleware"
	"recommread/internal/services"
	"recommread/internal/utils"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like the request identity
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	identity := middleware.CurrentIdentity(c)
	obj["Identity"] = identity
	obj["LoggedIn"] = identity.Authenticated()
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// statusFor maps a failure kind to its HTTP status.
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindConflict:
		return http.StatusConflict
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindAuthentication:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": message}. Untyped errors become a bare 500 so
// storage detail never reaches the client.
func respondError(c *gin.Context, err error) {
	var e *services.Error
	if !errors.As(err, &e) {
		e = services.ErrPersistence.With("Internal server error", err)
	}
	c.AbortWithStatusJSON(statusFor(e.Kind), gin.H{"error": e.Message})
}

// bindJSON decodes the body into obj. An empty body leaves obj zero so that
// field validation reports what is missing.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return services.ErrInvalidField.With("Invalid JSON payload", err)
	}
	return nil
}

// paramID parses a positive integer path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	return utils.StringToUint(c.Param(name))
}

func pagination(c *gin.Context) utils.Pagination {
	return utils.ParsePagination(c.Query("page"), c.Query("per_page"))
}

func isAPIRequest(c *gin.Context) bool {
	path := c.Request.URL.Path
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
