package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is a training offering belonging to exactly one bootcamp.
// UserID records who created it; authorization for changes always goes
// through the parent bootcamp's owner.
type Course struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title                string             `bson:"title" json:"title" validate:"required"`
	Description          string             `bson:"description" json:"description" validate:"required"`
	Weeks                int                `bson:"weeks" json:"weeks" validate:"required,min=1"`
	Tuition              float64            `bson:"tuition" json:"tuition" validate:"required,min=0"`
	MinimumSkill         string             `bson:"minimum_skill" json:"minimum_skill" validate:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool               `bson:"scholarship_available" json:"scholarship_available"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	BootcampID           primitive.ObjectID `bson:"bootcamp_id" json:"bootcamp_id"`
	UserID               primitive.ObjectID `bson:"user_id" json:"user_id"`

	Bootcamp *BootcampSummary `bson:"-" json:"bootcamp,omitempty"`
}

// BootcampSummary is the reduced parent view returned with a single course.
type BootcampSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
}

// CourseUpdate carries the editable fields for a partial update.
type CourseUpdate struct {
	Title                *string  `json:"title" validate:"omitempty,min=1"`
	Description          *string  `json:"description" validate:"omitempty,min=1"`
	Weeks                *int     `json:"weeks" validate:"omitempty,min=1"`
	Tuition              *float64 `json:"tuition" validate:"omitempty,min=0"`
	MinimumSkill         *string  `json:"minimum_skill" validate:"omitempty,oneof=beginner intermediate advanced"`
	ScholarshipAvailable *bool    `json:"scholarship_available"`
}
