package handlers

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
	"github.com/SAP-F-2025/proctoring-service/internal/services"
)

// JWTAuthMiddleware authenticates requests against the service-issued
// bearer tokens.
type JWTAuthMiddleware struct {
	secret        []byte
	detectorToken string
}

func NewJWTAuthMiddleware(secret []byte, detectorToken string) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{
		secret:        secret,
		detectorToken: detectorToken,
	}
}

// AuthMiddleware verifies the bearer token and attaches the principal to
// the request context.
func (am *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authorization header missing",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := services.ParseToken(tokenParts[1], am.secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Set("user_email", claims.Email)

		c.Next()
	}
}

// RequireRoleMiddleware checks if user has required role
func (am *JWTAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "user role not found in context",
			})
			c.Abort()
			return
		}

		role, ok := userRole.(models.UserRole)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "invalid user role format",
			})
			c.Abort()
			return
		}

		hasRequiredRole := false
		for _, requiredRole := range requiredRoles {
			if role == requiredRole {
				hasRequiredRole = true
				break
			}
		}

		if !hasRequiredRole {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// DetectorAuthMiddleware gates the alert-creation routes behind the
// pre-shared detector credential. End-user bearer tokens are never
// accepted here.
func (am *JWTAuthMiddleware) DetectorAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Detector-Token")
		if token == "" {
			// some detector deployments can only set an Authorization header
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(strings.ToLower(auth), "bearer ") {
				token = auth[len("Bearer "):]
			}
		}
		if token == "" || am.detectorToken == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(am.detectorToken)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "valid detector credential required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID returns the authenticated caller's id from the context
func GetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// GetPrincipal assembles the caller identity set by AuthMiddleware
func GetPrincipal(c *gin.Context) (services.Principal, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return services.Principal{}, false
	}

	roleVal, _ := c.Get("user_role")
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return services.Principal{}, false
	}

	return services.Principal{
		ID:    id,
		Role:  role,
		Email: c.GetString("user_email"),
	}, true
}
