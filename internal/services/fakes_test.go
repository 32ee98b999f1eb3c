package services_test

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Mucyobrian123/DevCamp/internal/apperr"
	"github.com/Mucyobrian123/DevCamp/internal/models"
	"github.com/Mucyobrian123/DevCamp/internal/query"
)

func noplog() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func queryAll() query.ListQuery {
	return query.Parse(map[string]string{})
}

// fakeUserRepo is an in-memory stand-in for the users collection.
type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) List(_ context.Context, _ query.ListQuery) ([]models.User, int64, error) {
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperr.Conflict("an account with email %s already exists", u.Email)
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("user not found with id of %s", id)
	}
	u, ok := r.users[oid]
	if !ok {
		return nil, apperr.NotFound("user not found with id of %s", id)
	}
	clone := *u
	clone.Password = ""
	return &clone, nil
}

func (r *fakeUserRepo) FindByIDWithPassword(_ context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("user not found with id of %s", id)
	}
	u, ok := r.users[oid]
	if !ok {
		return nil, apperr.NotFound("user not found with id of %s", id)
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmailWithPassword(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("there is no user with that email")
}

func (r *fakeUserRepo) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (*models.User, error) {
	for _, u := range r.users {
		if u.ResetPasswordToken == tokenHash && u.ResetPasswordExpire.After(now) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.BadRequest("invalid token")
}

func (r *fakeUserRepo) UpdateDetails(_ context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found with id of %s", id.Hex())
	}
	if name, ok := set["name"].(string); ok {
		u.Name = name
	}
	if email, ok := set["email"].(string); ok {
		u.Email = email
	}
	clone := *u
	clone.Password = ""
	return &clone, nil
}

func (r *fakeUserRepo) SetPassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("no such user")
	}
	u.Password = passwordHash
	u.ResetPasswordToken = ""
	u.ResetPasswordExpire = time.Time{}
	return nil
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, id primitive.ObjectID, tokenHash string, expire time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("no such user")
	}
	u.ResetPasswordToken = tokenHash
	u.ResetPasswordExpire = expire
	return nil
}

func (r *fakeUserRepo) ClearResetToken(_ context.Context, id primitive.ObjectID) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("no such user")
	}
	u.ResetPasswordToken = ""
	u.ResetPasswordExpire = time.Time{}
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("user not found with id of %s", id)
	}
	if _, ok := r.users[oid]; !ok {
		return apperr.NotFound("user not found with id of %s", id)
	}
	delete(r.users, oid)
	return nil
}

// fakeBootcampRepo records update sets and radius queries so tests can
// assert on what the service asked the store to do.
type fakeBootcampRepo struct {
	bootcamps map[primitive.ObjectID]*models.Bootcamp

	updates      map[primitive.ObjectID]bson.M
	radiusCalls  []radiusCall
	radiusResult []models.Bootcamp
}

type radiusCall struct {
	lng, lat, radius float64
}

func newFakeBootcampRepo(bootcamps ...*models.Bootcamp) *fakeBootcampRepo {
	r := &fakeBootcampRepo{
		bootcamps: map[primitive.ObjectID]*models.Bootcamp{},
		updates:   map[primitive.ObjectID]bson.M{},
	}
	for _, b := range bootcamps {
		r.bootcamps[b.ID] = b
	}
	return r
}

func (r *fakeBootcampRepo) List(_ context.Context, _ query.ListQuery) ([]models.Bootcamp, int64, error) {
	out := make([]models.Bootcamp, 0, len(r.bootcamps))
	for _, b := range r.bootcamps {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBootcampRepo) FindByID(_ context.Context, id string) (*models.Bootcamp, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("bootcamp not found with id of %s", id)
	}
	b, ok := r.bootcamps[oid]
	if !ok {
		return nil, apperr.NotFound("bootcamp not found with id of %s", id)
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBootcampRepo) FindOneByOwner(_ context.Context, userID primitive.ObjectID) (*models.Bootcamp, error) {
	for _, b := range r.bootcamps {
		if b.UserID == userID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeBootcampRepo) Insert(_ context.Context, b *models.Bootcamp) error {
	for _, existing := range r.bootcamps {
		if existing.Name == b.Name {
			return apperr.Conflict("a bootcamp named %q already exists", b.Name)
		}
	}
	b.ID = primitive.NewObjectID()
	b.CreatedAt = time.Now().UTC()
	clone := *b
	r.bootcamps[b.ID] = &clone
	return nil
}

func (r *fakeBootcampRepo) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Bootcamp, error) {
	b, ok := r.bootcamps[id]
	if !ok {
		return nil, apperr.NotFound("bootcamp not found with id of %s", id.Hex())
	}
	r.updates[id] = set
	if name, ok := set["name"].(string); ok {
		b.Name = name
	}
	if s, ok := set["slug"].(string); ok {
		b.Slug = s
	}
	if photo, ok := set["photo"].(string); ok {
		b.Photo = photo
	}
	if cost, ok := set["average_cost"].(float64); ok {
		b.AverageCost = cost
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBootcampRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.bootcamps[id]; !ok {
		return apperr.NotFound("bootcamp not found with id of %s", id.Hex())
	}
	delete(r.bootcamps, id)
	return nil
}

func (r *fakeBootcampRepo) FindWithinRadius(_ context.Context, lng, lat, radiusRadians float64) ([]models.Bootcamp, error) {
	r.radiusCalls = append(r.radiusCalls, radiusCall{lng: lng, lat: lat, radius: radiusRadians})
	return r.radiusResult, nil
}

// fakeCourseRepo keeps courses in memory and serves the tuition average
// from them.
type fakeCourseRepo struct {
	courses map[primitive.ObjectID]*models.Course
}

func newFakeCourseRepo(courses ...*models.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: map[primitive.ObjectID]*models.Course{}}
	for _, c := range courses {
		r.courses[c.ID] = c
	}
	return r
}

func (r *fakeCourseRepo) List(_ context.Context, _ query.ListQuery) ([]models.Course, int64, error) {
	out := make([]models.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCourseRepo) FindByBootcamp(_ context.Context, bootcampID primitive.ObjectID) ([]models.Course, error) {
	out := []models.Course{}
	for _, c := range r.courses {
		if c.BootcampID == bootcampID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) FindByBootcamps(_ context.Context, bootcampIDs []primitive.ObjectID) ([]models.Course, error) {
	wanted := map[primitive.ObjectID]bool{}
	for _, id := range bootcampIDs {
		wanted[id] = true
	}
	out := []models.Course{}
	for _, c := range r.courses {
		if wanted[c.BootcampID] {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) FindByID(_ context.Context, id string) (*models.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("course not found with id of %s", id)
	}
	c, ok := r.courses[oid]
	if !ok {
		return nil, apperr.NotFound("course not found with id of %s", id)
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCourseRepo) Insert(_ context.Context, c *models.Course) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	clone := *c
	r.courses[c.ID] = &clone
	return nil
}

func (r *fakeCourseRepo) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, apperr.NotFound("course not found with id of %s", id.Hex())
	}
	if title, ok := set["title"].(string); ok {
		c.Title = title
	}
	if tuition, ok := set["tuition"].(float64); ok {
		c.Tuition = tuition
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.courses[id]; !ok {
		return apperr.NotFound("course not found with id of %s", id.Hex())
	}
	delete(r.courses, id)
	return nil
}

func (r *fakeCourseRepo) DeleteByBootcamp(_ context.Context, bootcampID primitive.ObjectID) (int64, error) {
	var removed int64
	for id, c := range r.courses {
		if c.BootcampID == bootcampID {
			delete(r.courses, id)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeCourseRepo) AverageTuition(_ context.Context, bootcampID primitive.ObjectID) (float64, bool, error) {
	var sum float64
	var n int
	for _, c := range r.courses {
		if c.BootcampID == bootcampID {
			sum += c.Tuition
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return sum / float64(n), true, nil
}

// fakeGeocoder resolves every address to a fixed point and remembers the
// last address it was asked about.
type fakeGeocoder struct {
	loc         *models.Location
	err         error
	lastAddress string
}

func (g *fakeGeocoder) Geocode(_ context.Context, address string) (*models.Location, error) {
	g.lastAddress = address
	if g.err != nil {
		return nil, g.err
	}
	if g.loc != nil {
		clone := *g.loc
		return &clone, nil
	}
	return &models.Location{
		Type:        "Point",
		Coordinates: []float64{-71.104028, 42.350846},
		City:        "Boston",
		State:       "MA",
		Zipcode:     "02215",
		Country:     "US",
	}, nil
}

type sentMail struct {
	to, subject, text string
}

type fakeMailer struct {
	err  error
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, toEmail, subject, text string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: toEmail, subject: subject, text: text})
	return nil
}
