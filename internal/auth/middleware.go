package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDKey is where the middleware stores the authenticated caller's id in
// the gin context.
const UserIDKey = "userID"

// Middleware verifies the caller's access token and resolves it to a numeric
// user id. The token is read from the accessToken cookie, the Authorization
// bearer header, or the X-Access-Token header, in that order.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			return
		}

		userID, ok := userIDFromClaims(claims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated caller's id set by Middleware.
func UserID(c *gin.Context) int64 {
	id, _ := c.Get(UserIDKey)
	userID, _ := id.(int64)
	return userID
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie != "" {
		return cookie
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.GetHeader("X-Access-Token")
}

func userIDFromClaims(claims jwt.MapClaims) (int64, bool) {
	switch id := claims["id"].(type) {
	case float64:
		return int64(id), true
	case string:
		parsed, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
