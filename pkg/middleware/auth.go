package middleware

import (
	"net/http"
	"strings"

	"veltta-hub/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID  = "user_id"
	ContextRole    = "user_role"
	ContextToken   = "token"
	ContextTokenID = "token_id"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func resolve(c *gin.Context, jwtService *jwt.Service, denylist jwt.Denylist, token string) (*jwt.Claims, bool) {
	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		return nil, false
	}
	if denylist != nil {
		revoked, err := denylist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil || revoked {
			return nil, false
		}
	}
	return claims, true
}

func setIdentity(c *gin.Context, claims *jwt.Claims, token string) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextToken, token)
	c.Set(ContextTokenID, claims.ID)
}

// AuthMiddleware rejects requests without a valid, unrevoked bearer token. denylist may be nil.
func AuthMiddleware(jwtService *jwt.Service, denylist jwt.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		claims, ok := resolve(c, jwtService, denylist, token)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		setIdentity(c, claims, token)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and never aborts.
func OptionalAuth(jwtService *jwt.Service, denylist jwt.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, ok := resolve(c, jwtService, denylist, token); ok {
				setIdentity(c, claims, token)
			}
		}
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != role {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}
