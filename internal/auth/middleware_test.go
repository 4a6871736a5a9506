package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Middleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserID(c)})
	})
	return router
}

func TestMiddleware_BearerHeader(t *testing.T) {
	router := newProtectedRouter()
	token := signedToken(t, testSecret, jwt.MapClaims{"id": float64(7), "exp": time.Now().Add(time.Hour).Unix()})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":7`)
}

func TestMiddleware_AccessTokenCookie(t *testing.T) {
	router := newProtectedRouter()
	token := signedToken(t, testSecret, jwt.MapClaims{"id": float64(7), "exp": time.Now().Add(time.Hour).Unix()})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":7`)
}

func TestMiddleware_XAccessTokenHeader(t *testing.T) {
	router := newProtectedRouter()
	token := signedToken(t, testSecret, jwt.MapClaims{"id": "7", "exp": time.Now().Add(time.Hour).Unix()})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-Access-Token", token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":7`)
}

func TestMiddleware_MissingToken(t *testing.T) {
	router := newProtectedRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized, no token")
}

func TestMiddleware_WrongSecret(t *testing.T) {
	router := newProtectedRouter()
	token := signedToken(t, "another-secret", jwt.MapClaims{"id": float64(7), "exp": time.Now().Add(time.Hour).Unix()})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized, token failed")
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	router := newProtectedRouter()
	token := signedToken(t, testSecret, jwt.MapClaims{"id": float64(7), "exp": time.Now().Add(-time.Hour).Unix()})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_MissingIDClaim(t *testing.T) {
	router := newProtectedRouter()
	token := signedToken(t, testSecret, jwt.MapClaims{"sub": "7", "exp": time.Now().Add(time.Hour).Unix()})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized, token failed")
}
