package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"wardwatch-be/middlewares"
	"wardwatch-be/models"
	"wardwatch-be/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func currentActor(c *gin.Context) (models.Actor, bool) {
	v, exists := c.Get(middlewares.ActorKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

// fail translates store-layer failures into the HTTP error taxonomy. Nothing
// escapes a handler: validation failures list every violated field, conflicts
// and missing records get their own codes, and anything unexpected is logged
// with detail while the client sees a generic message (full detail only
// outside production).
func fail(c *gin.Context, err error) {
	var validation *store.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"errors": validation.Fields})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, store.ErrDuplicateWard):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ward with this number already exists"})
	case errors.Is(err, store.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
	default:
		log.Println("Unexpected error:", err)
		body := gin.H{"error": "Something went wrong"}
		if os.Getenv("APP_ENV") != "production" {
			body["detail"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

func accessDenied(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this resource"})
}

// userSummary resolves an actor reference to a display-friendly summary. A
// lookup failure degrades to the bare id rather than failing the request.
func userSummary(ctx context.Context, users store.UserStore, id primitive.ObjectID) gin.H {
	summary := gin.H{"id": id}
	if user, err := users.GetByID(ctx, id); err == nil {
		summary["name"] = user.Name
		summary["email"] = user.Email
	}
	return summary
}

// problemResponse renders a problem with its references resolved.
func problemResponse(ctx context.Context, users store.UserStore, p models.Problem) gin.H {
	resp := gin.H{
		"id":          p.ID,
		"title":       p.Title,
		"description": p.Description,
		"category":    p.Category,
		"priority":    p.Priority,
		"status":      p.Status,
		"reportedBy":  userSummary(ctx, users, p.ReportedBy),
		"wardNumber":  p.WardNumber,
		"createdAt":   p.CreatedAt,
		"updatedAt":   p.UpdatedAt,
	}
	if p.AssignedTo != nil {
		resp["assignedTo"] = userSummary(ctx, users, *p.AssignedTo)
	}
	if p.AdminNotes != "" {
		resp["adminNotes"] = p.AdminNotes
	}
	if p.ResolvedAt != nil {
		resp["resolvedAt"] = p.ResolvedAt
	}
	if len(p.Images) > 0 {
		resp["images"] = p.Images
	}
	return resp
}
