package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProblemCategory enum
type ProblemCategory string

const (
	Road         ProblemCategory = "Road"
	Water        ProblemCategory = "Water"
	Sanitation   ProblemCategory = "Sanitation"
	Electricity  ProblemCategory = "Electricity"
	Streetlight  ProblemCategory = "Streetlight"
	Drainage     ProblemCategory = "Drainage"
	Garbage      ProblemCategory = "Garbage"
	Pollution    ProblemCategory = "Pollution"
	Encroachment ProblemCategory = "Encroachment"
	Other        ProblemCategory = "Other"
)

var validCategories = map[ProblemCategory]bool{
	Road: true, Water: true, Sanitation: true, Electricity: true,
	Streetlight: true, Drainage: true, Garbage: true, Pollution: true,
	Encroachment: true, Other: true,
}

// ProblemPriority enum
type ProblemPriority string

const (
	Low      ProblemPriority = "Low"
	Medium   ProblemPriority = "Medium"
	High     ProblemPriority = "High"
	Critical ProblemPriority = "Critical"
)

var validPriorities = map[ProblemPriority]bool{
	Low: true, Medium: true, High: true, Critical: true,
}

// ProblemStatus enum
type ProblemStatus string

const (
	StatusOpen       ProblemStatus = "Open"
	StatusInProgress ProblemStatus = "In Progress"
	StatusResolved   ProblemStatus = "Resolved"
	StatusClosed     ProblemStatus = "Closed"
)

var validStatuses = map[ProblemStatus]bool{
	StatusOpen: true, StatusInProgress: true, StatusResolved: true, StatusClosed: true,
}

func ValidCategory(c ProblemCategory) bool { return validCategories[c] }
func ValidPriority(p ProblemPriority) bool { return validPriorities[p] }
func ValidStatus(s ProblemStatus) bool     { return validStatuses[s] }

// Problem represents a civic issue reported against exactly one ward.
// WardNumber and ReportedBy are set at creation and never change.
type Problem struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Category    ProblemCategory     `bson:"category" json:"category"`
	Priority    ProblemPriority     `bson:"priority" json:"priority"`
	Status      ProblemStatus       `bson:"status" json:"status"`
	ReportedBy  primitive.ObjectID  `bson:"reportedBy" json:"reportedBy"`
	WardNumber  int                 `bson:"wardNumber" json:"wardNumber"`
	AssignedTo  *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	AdminNotes  string              `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	ResolvedAt  *time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	Images      []string            `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks every field constraint and returns the full list of
// violations, not just the first one.
func (p *Problem) Validate() []FieldError {
	var errs []FieldError

	if p.Title == "" {
		errs = append(errs, fieldErrorf("title", "title is required"))
	} else if len(p.Title) > 200 {
		errs = append(errs, fieldErrorf("title", "title must be at most 200 characters"))
	}

	if p.Description == "" {
		errs = append(errs, fieldErrorf("description", "description is required"))
	} else if len(p.Description) > 2000 {
		errs = append(errs, fieldErrorf("description", "description must be at most 2000 characters"))
	}

	if !ValidCategory(p.Category) {
		errs = append(errs, fieldErrorf("category", "invalid category %q", p.Category))
	}
	if p.Priority != "" && !ValidPriority(p.Priority) {
		errs = append(errs, fieldErrorf("priority", "invalid priority %q", p.Priority))
	}
	if p.Status != "" && !ValidStatus(p.Status) {
		errs = append(errs, fieldErrorf("status", "invalid status %q", p.Status))
	}

	if p.WardNumber < 1 || p.WardNumber > 50 {
		errs = append(errs, fieldErrorf("wardNumber", "wardNumber must be between 1 and 50"))
	}

	if len(p.AdminNotes) > 1000 {
		errs = append(errs, fieldErrorf("adminNotes", "adminNotes must be at most 1000 characters"))
	}

	if len(p.Images) > 5 {
		errs = append(errs, fieldErrorf("images", "at most 5 images are allowed"))
	}
	for i, url := range p.Images {
		if url == "" || len(url) > 500 {
			errs = append(errs, fieldErrorf("images", "image %d must be a URL of at most 500 characters", i))
			break
		}
	}

	return errs
}
