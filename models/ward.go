package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Representative is the elected contact for a ward.
type Representative struct {
	Name    string `bson:"name" json:"name"`
	Contact string `bson:"contact" json:"contact"`
}

// Ward is a municipal subdivision. WardNumber is the partitioning key for
// both data visibility and notification topics. Wards are soft-deleted via
// IsActive; at most one active ward exists per number.
type Ward struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WardNumber     int                `bson:"wardNumber" json:"wardNumber"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Population     int                `bson:"population" json:"population"`
	Area           float64            `bson:"area" json:"area"`
	Representative Representative     `bson:"representative" json:"representative"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WardPatch is a partial update; nil fields are left untouched.
type WardPatch struct {
	Name           *string         `json:"name,omitempty"`
	Description    *string         `json:"description,omitempty"`
	Population     *int            `json:"population,omitempty"`
	Area           *float64        `json:"area,omitempty"`
	Representative *Representative `json:"representative,omitempty"`
	IsActive       *bool           `json:"isActive,omitempty"`
}

// Apply overlays the patch onto a copy of the ward.
func (p WardPatch) Apply(w Ward) Ward {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Description != nil {
		w.Description = *p.Description
	}
	if p.Population != nil {
		w.Population = *p.Population
	}
	if p.Area != nil {
		w.Area = *p.Area
	}
	if p.Representative != nil {
		w.Representative = *p.Representative
	}
	if p.IsActive != nil {
		w.IsActive = *p.IsActive
	}
	return w
}

// Validate checks every field constraint and returns the full list of
// violations.
func (w *Ward) Validate() []FieldError {
	var errs []FieldError

	if w.WardNumber < 1 || w.WardNumber > 50 {
		errs = append(errs, fieldErrorf("wardNumber", "wardNumber must be between 1 and 50"))
	}

	if w.Name == "" {
		errs = append(errs, fieldErrorf("name", "name is required"))
	} else if len(w.Name) > 100 {
		errs = append(errs, fieldErrorf("name", "name must be at most 100 characters"))
	}

	if len(w.Description) > 1000 {
		errs = append(errs, fieldErrorf("description", "description must be at most 1000 characters"))
	}

	if w.Population < 0 {
		errs = append(errs, fieldErrorf("population", "population must not be negative"))
	}
	if w.Area < 0 {
		errs = append(errs, fieldErrorf("area", "area must not be negative"))
	}

	if len(w.Representative.Name) > 100 {
		errs = append(errs, fieldErrorf("representative.name", "representative name must be at most 100 characters"))
	}
	if len(w.Representative.Contact) > 100 {
		errs = append(errs, fieldErrorf("representative.contact", "representative contact must be at most 100 characters"))
	}

	return errs
}
