package store

import (
	"context"

	"wardwatch-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProblemFilter narrows a listing; nil fields match everything.
type ProblemFilter struct {
	WardNumber *int
	Status     *models.ProblemStatus
	Category   *models.ProblemCategory
}

// ProblemPage is one page of a listing, newest first.
type ProblemPage struct {
	Problems   []models.Problem `json:"problems"`
	Total      int64            `json:"totalProblems"`
	Page       int              `json:"currentPage"`
	TotalPages int              `json:"totalPages"`
}

// StatusUpdate is the admin-applied mutation on a problem.
type StatusUpdate struct {
	Status     models.ProblemStatus
	AdminNotes *string
}

type StatusCount struct {
	Status models.ProblemStatus `bson:"_id" json:"status"`
	Count  int64                `bson:"count" json:"count"`
}

type CategoryCount struct {
	Category models.ProblemCategory `bson:"_id" json:"category"`
	Count    int64                  `bson:"count" json:"count"`
}

type WardCount struct {
	WardNumber int   `bson:"_id" json:"wardNumber"`
	Total      int64 `bson:"total" json:"total"`
	Open       int64 `bson:"open" json:"open"`
	InProgress int64 `bson:"inProgress" json:"inProgress"`
	Resolved   int64 `bson:"resolved" json:"resolved"`
}

// StatsSummary holds the three aggregates served by the stats endpoint:
// counts by status, counts by category (descending by count) and per-ward
// counts (ascending by ward number).
type StatsSummary struct {
	ByStatus   []StatusCount   `json:"byStatus"`
	ByCategory []CategoryCount `json:"byCategory"`
	ByWard     []WardCount     `json:"byWard"`
}

// ProblemStore is the persistence façade for problems. Every mutating call
// validates field constraints first and reports all violations through a
// *ValidationError.
type ProblemStore interface {
	// Create assigns identity, defaults priority/status and timestamps,
	// persists and returns the stored record.
	Create(ctx context.Context, p models.Problem) (models.Problem, error)

	// List returns problems matching the filter sorted by creation time
	// descending. page and pageSize fall back to 1 and 10 when not positive.
	List(ctx context.Context, f ProblemFilter, page, pageSize int) (ProblemPage, error)

	Get(ctx context.Context, id primitive.ObjectID) (models.Problem, error)

	// UpdateStatus sets the status and optionally the admin notes. Moving
	// into Resolved or Closed stamps resolvedAt; any other status leaves a
	// previously set resolvedAt untouched. Concurrent updates to the same
	// problem race at last-write-wins granularity (known limitation; no
	// application-level locking).
	UpdateStatus(ctx context.Context, id primitive.ObjectID, upd StatusUpdate) (models.Problem, error)

	// Assign sets the assignee reference.
	Assign(ctx context.Context, id primitive.ObjectID, assignee primitive.ObjectID) (models.Problem, error)

	// Stats computes the three aggregates, optionally scoped to one ward.
	Stats(ctx context.Context, wardNumber *int) (StatsSummary, error)

	// CountByWard returns the total problem count and the count of problems
	// still open or in progress for one ward.
	CountByWard(ctx context.Context, wardNumber int) (total, active int64, err error)

	// RecentByWard returns the most recently reported problems of one ward.
	RecentByWard(ctx context.Context, wardNumber, limit int) ([]models.Problem, error)
}
