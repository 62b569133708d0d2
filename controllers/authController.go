package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"wardwatch-be/models"
	"wardwatch-be/store"
	authUtils "wardwatch-be/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Users store.UserStore
}

func NewAuthController(users store.UserStore) *AuthController {
	return &AuthController{Users: users}
}

// RegisterUser handles resident registration. Admin accounts are only ever
// seeded, never self-registered.
func (ac *AuthController) RegisterUser(c *gin.Context) {
	var input struct {
		Name       string `json:"name" binding:"required,max=50"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required,min=6"`
		WardNumber int    `json:"wardNumber" binding:"required,min=1,max=50"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{
		Name:       input.Name,
		Email:      input.Email,
		Password:   input.Password,
		Role:       models.RoleResident,
		WardNumber: input.WardNumber,
	}

	if err := user.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := ac.Users.Create(ctx, user)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         created.ID,
		"name":       created.Name,
		"email":      created.Email,
		"role":       created.Role,
		"wardNumber": created.WardNumber,
		"createdAt":  created.CreatedAt,
	})
}

// LoginUser handles user login and issues the JWT used by both the HTTP API
// and the realtime channel.
func (ac *AuthController) LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := ac.Users.GetByEmail(ctx, input.Email)
	if err != nil || !user.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := authUtils.GenerateAndSetToken(user.ID.Hex(), user.Role, user.WardNumber)
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"role":       user.Role,
			"wardNumber": user.WardNumber,
		},
	})
}

// GetMe returns the authenticated user's own record.
func (ac *AuthController) GetMe(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := ac.Users.GetByID(ctx, actor.ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"wardNumber": user.WardNumber,
		"createdAt":  user.CreatedAt,
	})
}
