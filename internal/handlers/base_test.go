package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"recommread/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(services.KindValidation))
	assert.Equal(t, http.StatusConflict, statusFor(services.KindConflict))
	assert.Equal(t, http.StatusNotFound, statusFor(services.KindNotFound))
	assert.Equal(t, http.StatusForbidden, statusFor(services.KindForbidden))
	assert.Equal(t, http.StatusUnauthorized, statusFor(services.KindAuthentication))
	assert.Equal(t, http.StatusInternalServerError, statusFor(services.KindPersistence))
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, services.ErrEmailTaken)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"Email already exists"}`, w.Body.String())

	// driver detail never leaks
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	respondError(c, errors.New(`pq: relation "users" does not exist`))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}
