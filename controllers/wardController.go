package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"wardwatch-be/models"
	"wardwatch-be/policy"
	"wardwatch-be/store"

	"github.com/gin-gonic/gin"
)

type WardController struct {
	Wards    store.WardStore
	Problems store.ProblemStore
	Users    store.UserStore
}

func NewWardController(wards store.WardStore, problems store.ProblemStore, users store.UserStore) *WardController {
	return &WardController{Wards: wards, Problems: problems, Users: users}
}

func wardNumberParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n < 1 || n > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ward number"})
		return 0, false
	}
	return n, true
}

// wardResponse attaches the two derived problem counts, computed against the
// problem collection at read time rather than denormalized onto the ward.
func (wc *WardController) wardResponse(ctx context.Context, w models.Ward) (gin.H, error) {
	total, active, err := wc.Problems.CountByWard(ctx, w.WardNumber)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"id":             w.ID,
		"wardNumber":     w.WardNumber,
		"name":           w.Name,
		"description":    w.Description,
		"population":     w.Population,
		"area":           w.Area,
		"representative": w.Representative,
		"isActive":       w.IsActive,
		"totalProblems":  total,
		"activeProblems": active,
		"createdAt":      w.CreatedAt,
		"updatedAt":      w.UpdatedAt,
	}, nil
}

// GetAllWards lists active wards with their derived problem counts.
func (wc *WardController) GetAllWards(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wards, err := wc.Wards.List(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	response := make([]gin.H, 0, len(wards))
	for _, w := range wards {
		item, err := wc.wardResponse(ctx, w)
		if err != nil {
			fail(c, err)
			return
		}
		response = append(response, item)
	}

	c.JSON(http.StatusOK, gin.H{"wards": response})
}

// GetWard returns one ward's detail: derived counts, its five most recent
// problems and a status aggregate.
func (wc *WardController) GetWard(c *gin.Context) {
	wardNumber, ok := wardNumberParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ward, err := wc.Wards.Get(ctx, wardNumber)
	if err != nil {
		fail(c, err)
		return
	}

	response, err := wc.wardResponse(ctx, ward)
	if err != nil {
		fail(c, err)
		return
	}

	recent, err := wc.Problems.RecentByWard(ctx, wardNumber, 5)
	if err != nil {
		fail(c, err)
		return
	}
	recentResponse := make([]gin.H, 0, len(recent))
	for _, p := range recent {
		recentResponse = append(recentResponse, problemResponse(ctx, wc.Users, p))
	}
	response["recentProblems"] = recentResponse

	summary, err := wc.Problems.Stats(ctx, &wardNumber)
	if err != nil {
		fail(c, err)
		return
	}
	response["problemsByStatus"] = summary.ByStatus

	c.JSON(http.StatusOK, response)
}

// CreateWard provisions a new ward. A ward number already held by an active
// ward is rejected without touching the existing record.
func (wc *WardController) CreateWard(c *gin.Context) {
	var input struct {
		WardNumber     int                   `json:"wardNumber" binding:"required"`
		Name           string                `json:"name" binding:"required"`
		Description    string                `json:"description,omitempty"`
		Population     int                   `json:"population,omitempty"`
		Area           float64               `json:"area,omitempty"`
		Representative models.Representative `json:"representative,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := wc.Wards.Create(ctx, models.Ward{
		WardNumber:     input.WardNumber,
		Name:           input.Name,
		Description:    input.Description,
		Population:     input.Population,
		Area:           input.Area,
		Representative: input.Representative,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateWard applies a partial patch to an active ward.
func (wc *WardController) UpdateWard(c *gin.Context) {
	wardNumber, ok := wardNumberParam(c)
	if !ok {
		return
	}

	var patch models.WardPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	updated, err := wc.Wards.Update(ctx, wardNumber, patch)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetWardProblems serves one ward's paginated problem list. This is a
// single-ward read, so unlike the general listing it fails closed: a
// non-admin asking about a foreign ward is denied, not narrowed.
func (wc *WardController) GetWardProblems(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	wardNumber, ok := wardNumberParam(c)
	if !ok {
		return
	}

	if !policy.CanView(actor, wardNumber) {
		accessDenied(c)
		return
	}

	filter, page, pageSize := parseProblemQuery(c)
	filter.WardNumber = &wardNumber

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := wc.Problems.List(ctx, filter, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}

	problems := make([]gin.H, 0, len(result.Problems))
	for _, p := range result.Problems {
		problems = append(problems, problemResponse(ctx, wc.Users, p))
	}

	c.JSON(http.StatusOK, gin.H{
		"problems":      problems,
		"totalProblems": result.Total,
		"totalPages":    result.TotalPages,
		"currentPage":   result.Page,
	})
}
