package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"catalog-service/internal/models"
)

const principalKey = "principal"

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	SupplierID string `json:"supplier_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token and stores the resulting principal on
// the request context.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "Authentication required")
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(principalKey, models.Principal{
			ID:         claims.UserID,
			Role:       claims.Role,
			SupplierID: claims.SupplierID,
		})
		c.Next()
	}
}

// RequireAdmin rejects non-admin principals. Must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetPrincipal(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Error: models.Error{Code: "FORBIDDEN", Message: "Admin role required"},
			})
			return
		}
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from the Gin context.
func GetPrincipal(c *gin.Context) models.Principal {
	principal, _ := c.Get(principalKey)
	p, _ := principal.(models.Principal)
	return p
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error: models.Error{Code: "UNAUTHORIZED", Message: message},
	})
}
