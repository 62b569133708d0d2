package middlewares

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"wardwatch-be/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActorKey is where AuthMiddleware places the authenticated models.Actor in
// the gin context.
const ActorKey = "actor"

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")

		// Extracting token from "Bearer <token>" format
		tokenString := authHeader
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = authHeader[7:]
		}
		if tokenString == "" {
			// Browser websocket clients cannot set headers on the upgrade
			// request, so the token may arrive as a query parameter.
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			c.Abort()
			return
		}

		jwtSecret := os.Getenv("JWT_SECRET")
		if jwtSecret == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "JWT secret not configured"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			log.Printf("Token validation failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		actor, err := actorFromClaims(claims)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		c.Set(ActorKey, actor)
		c.Set("user_id", actor.ID.Hex())

		c.Next()
	}
}

func actorFromClaims(claims jwt.MapClaims) (models.Actor, error) {
	userID, ok := claims["user_id"].(string)
	if !ok {
		return models.Actor{}, fmt.Errorf("missing user_id claim")
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.Actor{}, err
	}

	role, ok := claims["role"].(string)
	if !ok || (role != string(models.RoleResident) && role != string(models.RoleAdmin)) {
		return models.Actor{}, fmt.Errorf("missing or unknown role claim")
	}

	// JSON numbers decode as float64.
	ward, ok := claims["ward"].(float64)
	if !ok {
		return models.Actor{}, fmt.Errorf("missing ward claim")
	}

	return models.Actor{
		ID:         id,
		Role:       models.UserRole(role),
		WardNumber: int(ward),
	}, nil
}

// RequireAdmin guards admin-only routes. Must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ActorKey)
		actor, ok := v.(models.Actor)
		if !exists || !ok || !actor.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
