package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-prueba"

func mintTestToken(t *testing.T, tokenType string, ttl time.Duration, admin bool) string {
	t.Helper()
	claims := JWTClaims{
		UserID:  "11111111-1111-1111-1111-111111111111",
		Email:   "test@ananda.com",
		IsAdmin: admin,
		Type:    tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func testEngine(adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("", JWTAuth(testSecret))
	if adminOnly {
		group.Use(RequireAdmin())
	}
	group.GET("/ping", func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"email": claims.Email})
	})
	return r
}

func request(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := testEngine(false)

	t.Run("acceso valido", func(t *testing.T) {
		w := request(r, mintTestToken(t, TokenAccess, time.Hour, false))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "test@ananda.com")
	})

	t.Run("sin token", func(t *testing.T) {
		w := request(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token expirado", func(t *testing.T) {
		w := request(r, mintTestToken(t, TokenAccess, -time.Hour, false))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh no sirve como acceso", func(t *testing.T) {
		w := request(r, mintTestToken(t, TokenRefresh, time.Hour, false))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("reset no sirve como acceso", func(t *testing.T) {
		w := request(r, mintTestToken(t, TokenPasswordReset, time.Hour, false))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	r := testEngine(true)

	w := request(r, mintTestToken(t, TokenAccess, time.Hour, true))
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(r, mintTestToken(t, TokenAccess, time.Hour, false))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
