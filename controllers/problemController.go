package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"wardwatch-be/models"
	"wardwatch-be/policy"
	"wardwatch-be/realtime"
	"wardwatch-be/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProblemController struct {
	Problems store.ProblemStore
	Users    store.UserStore
	Bus      realtime.Bus
}

func NewProblemController(problems store.ProblemStore, users store.UserStore, bus realtime.Bus) *ProblemController {
	return &ProblemController{Problems: problems, Users: users, Bus: bus}
}

// CreateProblem handles a resident's report. The problem is always scoped to
// the reporting actor's own ward; any wardNumber in the request body is
// ignored.
func (pc *ProblemController) CreateProblem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description" binding:"required"`
		Category    string   `json:"category" binding:"required"`
		Priority    *string  `json:"priority,omitempty"`
		Images      []string `json:"images,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	problem := models.Problem{
		Title:       input.Title,
		Description: input.Description,
		Category:    models.ProblemCategory(input.Category),
		ReportedBy:  actor.ID,
		WardNumber:  actor.WardNumber,
		Images:      input.Images,
	}
	if input.Priority != nil {
		problem.Priority = models.ProblemPriority(*input.Priority)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := pc.Problems.Create(ctx, problem)
	if err != nil {
		fail(c, err)
		return
	}

	// The mutation is durable before anyone hears about it. Delivery is a
	// best-effort side channel; it can never fail the request.
	pc.Bus.Publish(realtime.WardTopic(created.WardNumber), realtime.EventNewProblem, gin.H{
		"id":         created.ID,
		"title":      created.Title,
		"wardNumber": created.WardNumber,
		"category":   created.Category,
		"priority":   created.Priority,
		"createdAt":  created.CreatedAt,
	})

	c.JSON(http.StatusCreated, problemResponse(ctx, pc.Users, created))
}

// GetAllProblems lists problems with filtering and pagination. Non-admin
// actors are silently narrowed to their own ward whatever ward filter they
// supply; listing never rejects on a ward mismatch.
func (pc *ProblemController) GetAllProblems(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	filter, page, pageSize := parseProblemQuery(c)
	filter.WardNumber = policy.ScopeWard(actor, filter.WardNumber)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := pc.Problems.List(ctx, filter, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, pc.pageResponse(ctx, result))
}

// GetProblem fetches a single problem. Unlike listing, this fails closed: a
// non-admin asking for another ward's problem gets an access denial.
func (pc *ProblemController) GetProblem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	problemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	problem, err := pc.Problems.Get(ctx, problemID)
	if err != nil {
		fail(c, err)
		return
	}

	if !policy.CanView(actor, problem.WardNumber) {
		accessDenied(c)
		return
	}

	c.JSON(http.StatusOK, problemResponse(ctx, pc.Users, problem))
}

// UpdateProblemStatus lets an admin change status, notes and assignment.
// There is no transition state machine: any status may move to any other,
// including reopening a closed problem.
func (pc *ProblemController) UpdateProblemStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	if !policy.CanMutateStatus(actor) {
		accessDenied(c)
		return
	}

	problemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		return
	}

	var input struct {
		Status     string  `json:"status" binding:"required"`
		AdminNotes *string `json:"adminNotes,omitempty"`
		AssignedTo *string `json:"assignedTo,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// All input is validated before the first store call; a bad assignee
	// must not leave a half-applied status change behind a 400.
	var assigneeID *primitive.ObjectID
	if input.AssignedTo != nil {
		id, err := primitive.ObjectIDFromHex(*input.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID"})
			return
		}
		assigneeID = &id
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	updated, err := pc.Problems.UpdateStatus(ctx, problemID, store.StatusUpdate{
		Status:     models.ProblemStatus(input.Status),
		AdminNotes: input.AdminNotes,
	})
	if err != nil {
		fail(c, err)
		return
	}

	if assigneeID != nil {
		updated, err = pc.Problems.Assign(ctx, problemID, *assigneeID)
		if err != nil {
			fail(c, err)
			return
		}
	}

	event := gin.H{
		"id":         updated.ID,
		"title":      updated.Title,
		"status":     updated.Status,
		"wardNumber": updated.WardNumber,
		"updatedAt":  updated.UpdatedAt,
	}
	if updated.AssignedTo != nil {
		event["assignedTo"] = updated.AssignedTo
	}
	pc.Bus.Publish(realtime.WardTopic(updated.WardNumber), realtime.EventProblemUpdated, event)

	c.JSON(http.StatusOK, problemResponse(ctx, pc.Users, updated))
}

// GetStatsSummary serves the three aggregates: by status, by category and by
// ward. Non-admins only ever see their own ward's numbers.
func (pc *ProblemController) GetStatsSummary(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var wardFilter *int
	if raw := c.Query("wardNumber"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			wardFilter = &n
		}
	}
	wardFilter = policy.ScopeWard(actor, wardFilter)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	summary, err := pc.Problems.Stats(ctx, wardFilter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func parseProblemQuery(c *gin.Context) (store.ProblemFilter, int, int) {
	var filter store.ProblemFilter

	if raw := c.Query("wardNumber"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filter.WardNumber = &n
		}
	}
	if raw := c.Query("status"); raw != "" && raw != "all" {
		status := models.ProblemStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("category"); raw != "" && raw != "all" {
		category := models.ProblemCategory(raw)
		filter.Category = &category
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return filter, page, pageSize
}

func (pc *ProblemController) pageResponse(ctx context.Context, result store.ProblemPage) gin.H {
	problems := make([]gin.H, 0, len(result.Problems))
	for _, p := range result.Problems {
		problems = append(problems, problemResponse(ctx, pc.Users, p))
	}
	return gin.H{
		"problems":      problems,
		"totalProblems": result.Total,
		"totalPages":    result.TotalPages,
		"currentPage":   result.Page,
	}
}
