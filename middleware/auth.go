package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"household-help-server/models"
	"household-help-server/services"
)

var errInactiveUser = errors.New("user account is deactivated")

// AuthMiddleware validates bearer tokens and sets user context
func AuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c, "Authorization header required", "Please provide a valid token")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			abortUnauthenticated(c, "Invalid token format", "Token must be in format: Bearer <token>")
			return
		}

		user, err := authenticate(db, secret, tokenString)
		if err != nil {
			log.Printf("🔒 AuthMiddleware: %s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
			abortUnauthenticated(c, "Invalid token", err.Error())
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalAuthMiddleware is like AuthMiddleware but doesn't require authentication
func OptionalAuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString != "" {
			if user, err := authenticate(db, secret, tokenString); err == nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

// WebSocketAuthMiddleware validates the token query parameter, since browsers cannot set headers on upgrades
func WebSocketAuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			abortUnauthenticated(c, "Token required", "Please provide a valid token in query parameters")
			return
		}

		user, err := authenticate(db, secret, tokenString)
		if err != nil {
			log.Printf("🔌 WebSocketAuthMiddleware: rejected: %v", err)
			abortUnauthenticated(c, "Invalid token", err.Error())
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// RequireRole allows only authenticated users holding one of roles. Must run after AuthMiddleware.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.UserRole(c.GetString("user_role"))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Forbidden",
			"message": "You do not have permission to perform this action",
		})
		c.Abort()
	}
}

func authenticate(db *gorm.DB, secret, tokenString string) (*models.User, error) {
	claims, err := services.ParseAccessToken(tokenString, secret)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user associated with token not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errInactiveUser
	}
	return &user, nil
}

// setUser stores the user loaded from the database; the role comes from there, not from the token
func setUser(c *gin.Context, user *models.User) {
	c.Set("user", *user)
	c.Set("user_id", user.ID)
	c.Set("user_role", string(user.Role))
}

func abortUnauthenticated(c *gin.Context, errMsg, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   errMsg,
		"message": message,
	})
	c.Abort()
}
