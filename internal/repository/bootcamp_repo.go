package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mucyobrian123/DevCamp/internal/apperr"
	"github.com/Mucyobrian123/DevCamp/internal/database"
	"github.com/Mucyobrian123/DevCamp/internal/models"
	"github.com/Mucyobrian123/DevCamp/internal/query"
)

type BootcampRepository interface {
	List(ctx context.Context, q query.ListQuery) ([]models.Bootcamp, int64, error)
	FindByID(ctx context.Context, id string) (*models.Bootcamp, error)
	FindOneByOwner(ctx context.Context, userID primitive.ObjectID) (*models.Bootcamp, error)
	Insert(ctx context.Context, b *models.Bootcamp) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Bootcamp, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindWithinRadius(ctx context.Context, lng, lat, radiusRadians float64) ([]models.Bootcamp, error)
}

type mongoBootcampRepo struct {
	col *mongo.Collection
}

func NewMongoBootcampRepo(db *mongo.Database) BootcampRepository {
	return &mongoBootcampRepo{col: db.Collection(database.ColBootcamps)}
}

func (r *mongoBootcampRepo) List(ctx context.Context, q query.ListQuery) ([]models.Bootcamp, int64, error) {
	total, err := r.col.CountDocuments(ctx, q.Filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := r.col.Find(ctx, q.Filter, q.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []models.Bootcamp{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *mongoBootcampRepo) FindByID(ctx context.Context, id string) (*models.Bootcamp, error) {
	oid, err := objectID(id, "bootcamp")
	if err != nil {
		return nil, err
	}

	var b models.Bootcamp
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("bootcamp not found with id of %s", id)
		}
		return nil, err
	}
	return &b, nil
}

// FindOneByOwner returns nil without error when the user has no bootcamp;
// the one-per-publisher check treats absence as the normal case.
func (r *mongoBootcampRepo) FindOneByOwner(ctx context.Context, userID primitive.ObjectID) (*models.Bootcamp, error) {
	var b models.Bootcamp
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *mongoBootcampRepo) Insert(ctx context.Context, b *models.Bootcamp) error {
	b.CreatedAt = time.Now().UTC()
	res, err := r.col.InsertOne(ctx, b)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("a bootcamp named %q already exists", b.Name)
		}
		return err
	}
	b.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoBootcampRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Bootcamp, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b models.Bootcamp
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&b)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("bootcamp not found with id of %s", id.Hex())
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("duplicate field value entered")
		}
		return nil, err
	}
	return &b, nil
}

func (r *mongoBootcampRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("bootcamp not found with id of %s", id.Hex())
	}
	return nil
}

// FindWithinRadius runs the spherical radius query; radiusRadians is the
// distance already divided by the Earth radius.
func (r *mongoBootcampRepo) FindWithinRadius(ctx context.Context, lng, lat, radiusRadians float64) ([]models.Bootcamp, error) {
	filter := bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radiusRadians},
			},
		},
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Bootcamp{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
