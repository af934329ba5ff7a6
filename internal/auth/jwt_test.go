package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	ts := TokenService{Secret: []byte("service-key")}

	tok, err := ts.Sign("scheduler", time.Minute)
	require.NoError(t, err)

	claims, err := ts.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "scheduler", claims.Subject)
}

func TestTokenServiceRejectsWrongSecret(t *testing.T) {
	tok, err := TokenService{Secret: []byte("right")}.Sign("scheduler", time.Minute)
	require.NoError(t, err)

	_, err = TokenService{Secret: []byte("wrong")}.Parse(tok)
	assert.Error(t, err)
}

func TestRequireServiceToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ts := TokenService{Secret: []byte("service-key")}

	router := gin.New()
	router.POST("/scrape-menus", RequireServiceToken(ts), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// no token
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/scrape-menus", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// valid token
	tok, err := ts.Sign("scheduler", time.Minute)
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/scrape-menus", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
