// Package services holds the use-case layer: request-shaped inputs in,
// domain results or taxonomy errors out. Geocoding, slug derivation, and
// cascade deletes are sequenced here explicitly rather than hidden in
// persistence hooks.
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Mucyobrian123/DevCamp/internal/apperr"
	"github.com/Mucyobrian123/DevCamp/internal/models"
)

// Geocoder resolves a free-text address into a location point.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.Location, error)
}

// Mailer delivers a transactional email.
type Mailer interface {
	Send(ctx context.Context, toEmail, subject, text string) error
}

// authorizeOwner is the shared ownership policy: the resource owner and
// admins may act, everyone else is forbidden.
func authorizeOwner(u *models.User, ownerID primitive.ObjectID, action, resource string) error {
	if u.IsAdmin() || u.ID == ownerID {
		return nil
	}
	return apperr.Forbidden("user %s is not authorized to %s this %s", u.ID.Hex(), action, resource)
}
