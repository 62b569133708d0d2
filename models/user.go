package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserRole enum
type UserRole string

const (
	RoleResident UserRole = "resident"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password,omitempty" json:"-"`
	Role       UserRole           `bson:"role" json:"role"`
	WardNumber int                `bson:"wardNumber" json:"wardNumber"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}

// Actor is the authenticated identity a request acts on behalf of. Residents
// only see the ward they belong to; admins have no ward restriction.
type Actor struct {
	ID         primitive.ObjectID `json:"id"`
	Role       UserRole           `json:"role"`
	WardNumber int                `json:"wardNumber"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// AsActor reduces a full user record to the triple handlers care about.
func (u *User) AsActor() Actor {
	return Actor{ID: u.ID, Role: u.Role, WardNumber: u.WardNumber}
}
