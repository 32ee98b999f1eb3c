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

type UserRepository interface {
	List(ctx context.Context, q query.ListQuery) ([]models.User, int64, error)
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDWithPassword(ctx context.Context, id string) (*models.User, error)
	FindByEmailWithPassword(ctx context.Context, email string) (*models.User, error)
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	UpdateDetails(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expire time.Time) error
	ClearResetToken(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id string) error
}

// sensitiveFields are excluded from every read that is not explicitly
// authenticating the user.
var sensitiveFields = bson.M{
	"password":              0,
	"reset_password_token":  0,
	"reset_password_expire": 0,
}

type mongoUserRepo struct {
	col *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) UserRepository {
	return &mongoUserRepo{col: db.Collection(database.ColUsers)}
}

func (r *mongoUserRepo) List(ctx context.Context, q query.ListQuery) ([]models.User, int64, error) {
	total, err := r.col.CountDocuments(ctx, q.Filter)
	if err != nil {
		return nil, 0, err
	}

	opts := q.FindOptions()
	if len(q.Projection) == 0 {
		opts.SetProjection(sensitiveFields)
	}
	cur, err := r.col.Find(ctx, q.Filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *mongoUserRepo) Create(ctx context.Context, u *models.User) error {
	u.CreatedAt = time.Now().UTC()
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("an account with email %s already exists", u.Email)
		}
		return err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findByID(ctx, id, options.FindOne().SetProjection(sensitiveFields))
}

func (r *mongoUserRepo) FindByIDWithPassword(ctx context.Context, id string) (*models.User, error) {
	return r.findByID(ctx, id, options.FindOne())
}

func (r *mongoUserRepo) findByID(ctx context.Context, id string, opts *options.FindOneOptions) (*models.User, error) {
	oid, err := objectID(id, "user")
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("user not found with id of %s", id)
		}
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) FindByEmailWithPassword(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("there is no user with that email")
		}
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	filter := bson.M{
		"reset_password_token":  tokenHash,
		"reset_password_expire": bson.M{"$gt": now},
	}
	var u models.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.BadRequest("invalid token")
		}
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) UpdateDetails(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(sensitiveFields)
	var u models.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("user not found with id of %s", id.Hex())
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("an account with that email already exists")
		}
		return nil, err
	}
	return &u, nil
}

// SetPassword stores the new hash and clears any pending reset state in
// the same write, making reset tokens single-use.
func (r *mongoUserRepo) SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set":   bson.M{"password": passwordHash},
		"$unset": bson.M{"reset_password_token": "", "reset_password_expire": ""},
	})
	return err
}

func (r *mongoUserRepo) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expire time.Time) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"reset_password_token":  tokenHash,
			"reset_password_expire": expire,
		},
	})
	return err
}

func (r *mongoUserRepo) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$unset": bson.M{"reset_password_token": "", "reset_password_expire": ""},
	})
	return err
}

func (r *mongoUserRepo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, "user")
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("user not found with id of %s", id)
	}
	return nil
}
