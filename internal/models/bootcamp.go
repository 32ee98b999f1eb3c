package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a GeoJSON point with the normalized address fields the
// geocoder resolved. The coordinates order is [longitude, latitude].
type Location struct {
	Type             string    `bson:"type" json:"type"`
	Coordinates      []float64 `bson:"coordinates" json:"coordinates"`
	FormattedAddress string    `bson:"formatted_address,omitempty" json:"formatted_address,omitempty"`
	Street           string    `bson:"street,omitempty" json:"street,omitempty"`
	City             string    `bson:"city,omitempty" json:"city,omitempty"`
	State            string    `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty" json:"country,omitempty"`
}

// Bootcamp is the top-level resource: an organization offering courses.
// Address is accepted on write and geocoded into Location; it is never
// persisted. Courses is filled on reads by the service layer, not stored.
type Bootcamp struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name" validate:"required,max=50"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description" json:"description" validate:"required,max=500"`
	Website       string             `bson:"website,omitempty" json:"website,omitempty" validate:"omitempty,url"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,max=20"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Address       string             `bson:"-" json:"address,omitempty" validate:"required"`
	Location      *Location          `bson:"location,omitempty" json:"location,omitempty"`
	Careers       []string           `bson:"careers" json:"careers" validate:"required,min=1,dive,oneof='Web Development' 'Mobile Development' 'UI/UX' 'Data Science' 'Business' 'Other'"`
	AverageRating float64            `bson:"average_rating,omitempty" json:"average_rating,omitempty" validate:"omitempty,min=1,max=10"`
	AverageCost   float64            `bson:"average_cost,omitempty" json:"average_cost,omitempty"`
	Photo         string             `bson:"photo" json:"photo"`
	Housing       bool               `bson:"housing" json:"housing"`
	JobAssistance bool               `bson:"job_assistance" json:"job_assistance"`
	JobGuarantee  bool               `bson:"job_guarantee" json:"job_guarantee"`
	AcceptGI      bool               `bson:"accept_gi" json:"accept_gi"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`

	Courses []Course `bson:"-" json:"courses,omitempty"`
}

// DefaultPhoto is stored until an owner uploads one.
const DefaultPhoto = "no-photo.jpg"

// BootcampUpdate carries the owner-editable fields for a partial update.
// Nil fields are left untouched. A new Name re-derives the slug; a new
// Address is re-geocoded.
type BootcampUpdate struct {
	Name          *string   `json:"name" validate:"omitempty,max=50"`
	Description   *string   `json:"description" validate:"omitempty,max=500"`
	Website       *string   `json:"website" validate:"omitempty,url"`
	Phone         *string   `json:"phone" validate:"omitempty,max=20"`
	Email         *string   `json:"email" validate:"omitempty,email"`
	Address       *string   `json:"address"`
	Careers       []string  `json:"careers" validate:"omitempty,min=1,dive,oneof='Web Development' 'Mobile Development' 'UI/UX' 'Data Science' 'Business' 'Other'"`
	Housing       *bool     `json:"housing"`
	JobAssistance *bool     `json:"job_assistance"`
	JobGuarantee  *bool     `json:"job_guarantee"`
	AcceptGI      *bool     `json:"accept_gi"`
	AverageRating *float64  `json:"average_rating" validate:"omitempty,min=1,max=10"`
}
