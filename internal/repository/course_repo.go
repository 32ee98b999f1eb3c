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

type CourseRepository interface {
	List(ctx context.Context, q query.ListQuery) ([]models.Course, int64, error)
	FindByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) ([]models.Course, error)
	FindByBootcamps(ctx context.Context, bootcampIDs []primitive.ObjectID) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Insert(ctx context.Context, c *models.Course) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Course, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) (int64, error)
	AverageTuition(ctx context.Context, bootcampID primitive.ObjectID) (float64, bool, error)
}

type mongoCourseRepo struct {
	col *mongo.Collection
}

func NewMongoCourseRepo(db *mongo.Database) CourseRepository {
	return &mongoCourseRepo{col: db.Collection(database.ColCourses)}
}

func (r *mongoCourseRepo) List(ctx context.Context, q query.ListQuery) ([]models.Course, int64, error) {
	total, err := r.col.CountDocuments(ctx, q.Filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := r.col.Find(ctx, q.Filter, q.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []models.Course{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *mongoCourseRepo) FindByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) ([]models.Course, error) {
	return r.find(ctx, bson.M{"bootcamp_id": bootcampID})
}

func (r *mongoCourseRepo) FindByBootcamps(ctx context.Context, bootcampIDs []primitive.ObjectID) ([]models.Course, error) {
	if len(bootcampIDs) == 0 {
		return []models.Course{}, nil
	}
	return r.find(ctx, bson.M{"bootcamp_id": bson.M{"$in": bootcampIDs}})
}

func (r *mongoCourseRepo) find(ctx context.Context, filter bson.M) ([]models.Course, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Course{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	oid, err := objectID(id, "course")
	if err != nil {
		return nil, err
	}

	var c models.Course
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("course not found with id of %s", id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *mongoCourseRepo) Insert(ctx context.Context, c *models.Course) error {
	c.CreatedAt = time.Now().UTC()
	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoCourseRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Course, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Course
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("course not found with id of %s", id.Hex())
		}
		return nil, err
	}
	return &c, nil
}

func (r *mongoCourseRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("course not found with id of %s", id.Hex())
	}
	return nil
}

// DeleteByBootcamp is the cascade step of a bootcamp delete.
func (r *mongoCourseRepo) DeleteByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"bootcamp_id": bootcampID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// AverageTuition aggregates the mean tuition across a bootcamp's courses.
// The second return is false when the bootcamp has no courses left.
func (r *mongoCourseRepo) AverageTuition(ctx context.Context, bootcampID primitive.ObjectID) (float64, bool, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bootcamp_id": bootcampID}}},
		{{Key: "$group", Value: bson.M{
			"_id":             "$bootcamp_id",
			"average_tuition": bson.M{"$avg": "$tuition"},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, false, err
	}
	defer cur.Close(ctx)

	var results []struct {
		AverageTuition float64 `bson:"average_tuition"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return 0, false, err
	}
	if len(results) == 0 {
		return 0, false, nil
	}
	return results[0].AverageTuition, true, nil
}
