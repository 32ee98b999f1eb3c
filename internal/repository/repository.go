// Package repository contains the MongoDB persistence adapters. Each
// repository maps driver-level failures onto the error taxonomy: missing
// documents and malformed ids to 404, duplicate keys to 409.
package repository

import (
	"github.com/Mucyobrian123/DevCamp/internal/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectID parses a hex id from the URL; an unparseable id can never
// resolve, so it reports not-found like any other unresolved id.
func objectID(id, resource string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("%s not found with id of %s", resource, id)
	}
	return oid, nil
}
