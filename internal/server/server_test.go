package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mucyobrian123/DevCamp/internal/apperr"
	"github.com/Mucyobrian123/DevCamp/internal/handlers"
	"github.com/Mucyobrian123/DevCamp/internal/middleware"
	"github.com/Mucyobrian123/DevCamp/internal/models"
	"github.com/Mucyobrian123/DevCamp/internal/query"
	"github.com/Mucyobrian123/DevCamp/internal/repository"
	"github.com/Mucyobrian123/DevCamp/internal/routes"
	"github.com/Mucyobrian123/DevCamp/internal/server"
	"github.com/Mucyobrian123/DevCamp/internal/services"
	"github.com/Mucyobrian123/DevCamp/internal/utils"
)

// The stub repos embed their interface so only the methods the exercised
// routes reach need an implementation.

type stubUserRepo struct {
	repository.UserRepository
	users map[primitive.ObjectID]*models.User
}

func (r *stubUserRepo) Create(_ context.Context, u *models.User) error {
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

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
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

func (r *stubUserRepo) FindByEmailWithPassword(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("there is no user with that email")
}

type stubBootcampRepo struct {
	repository.BootcampRepository
	bootcamps map[primitive.ObjectID]*models.Bootcamp
}

func (r *stubBootcampRepo) List(_ context.Context, _ query.ListQuery) ([]models.Bootcamp, int64, error) {
	out := make([]models.Bootcamp, 0, len(r.bootcamps))
	for _, b := range r.bootcamps {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *stubBootcampRepo) FindByID(_ context.Context, id string) (*models.Bootcamp, error) {
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

func (r *stubBootcampRepo) FindOneByOwner(_ context.Context, userID primitive.ObjectID) (*models.Bootcamp, error) {
	for _, b := range r.bootcamps {
		if b.UserID == userID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubBootcampRepo) Insert(_ context.Context, b *models.Bootcamp) error {
	b.ID = primitive.NewObjectID()
	b.CreatedAt = time.Now().UTC()
	clone := *b
	r.bootcamps[b.ID] = &clone
	return nil
}

type stubCourseRepo struct {
	repository.CourseRepository
	courses map[primitive.ObjectID]*models.Course
}

func (r *stubCourseRepo) FindByBootcamp(_ context.Context, bootcampID primitive.ObjectID) ([]models.Course, error) {
	out := []models.Course{}
	for _, c := range r.courses {
		if c.BootcampID == bootcampID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCourseRepo) FindByBootcamps(_ context.Context, _ []primitive.ObjectID) ([]models.Course, error) {
	out := make([]models.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCourseRepo) AverageTuition(_ context.Context, _ primitive.ObjectID) (float64, bool, error) {
	return 0, false, nil
}

type stubGeocoder struct{}

func (stubGeocoder) Geocode(_ context.Context, _ string) (*models.Location, error) {
	return &models.Location{Type: "Point", Coordinates: []float64{-71.1, 42.35}}, nil
}

type stubMailer struct{}

func (stubMailer) Send(_ context.Context, _, _, _ string) error { return nil }

type env struct {
	app       *fiber.App
	tokens    *utils.JWTManager
	users     *stubUserRepo
	bootcamps *stubBootcampRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()

	users := &stubUserRepo{users: map[primitive.ObjectID]*models.User{}}
	bootcamps := &stubBootcampRepo{bootcamps: map[primitive.ObjectID]*models.Bootcamp{}}
	courses := &stubCourseRepo{courses: map[primitive.ObjectID]*models.Course{}}

	logger := zap.NewNop()
	tokens := utils.NewJWTManager("test-secret", 1)
	cookie := handlers.CookieSettings{ExpireDays: 1}

	authSvc := services.NewAuthService(users, stubMailer{}, tokens, logger.Sugar())
	bootcampSvc := services.NewBootcampService(bootcamps, courses, stubGeocoder{}, t.TempDir(), logger.Sugar())
	courseSvc := services.NewCourseService(courses, bootcamps, logger.Sugar())
	userSvc := services.NewUserService(users)

	app := server.New(server.Options{
		Handlers: routes.Handlers{
			Auth:      handlers.NewAuthHandler(authSvc, cookie),
			Bootcamps: handlers.NewBootcampHandler(bootcampSvc, 1_000_000),
			Courses:   handlers.NewCourseHandler(courseSvc),
			Users:     handlers.NewUserHandler(userSvc),
		},
		Protect: middleware.Protect(users, tokens),
		Logger:  logger,
	})

	return &env{app: app, tokens: tokens, users: users, bootcamps: bootcamps}
}

func (e *env) seedUser(t *testing.T, role string) (*models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		ID:       primitive.NewObjectID(),
		Name:     "Seeded",
		Email:    role + "@devcamp.io",
		Role:     role,
		Password: string(hash),
	}
	e.users.users[u.ID] = u

	token, _, err := e.tokens.Sign(u.ID.Hex())
	require.NoError(t, err)
	return u, token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestServer(t *testing.T) {
	t.Run("Health", func(t *testing.T) {
		e := newEnv(t)
		resp, body := doJSON(t, e.app, http.MethodGet, "/healthz", "", nil)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])
	})

	t.Run("ListBootcampsEnvelope", func(t *testing.T) {
		e := newEnv(t)
		e.bootcamps.bootcamps[primitive.NewObjectID()] = &models.Bootcamp{Name: "Devworks"}

		resp, body := doJSON(t, e.app, http.MethodGet, "/api/v1/bootcamps", "", nil)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(1), body["count"])
		assert.Contains(t, body, "pagination")
		assert.Contains(t, body, "data")
	})

	t.Run("NotFoundEnvelope", func(t *testing.T) {
		e := newEnv(t)
		resp, body := doJSON(t, e.app, http.MethodGet, "/api/v1/bootcamps/"+primitive.NewObjectID().Hex(), "", nil)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["error"], "not found")
	})

	t.Run("MalformedIDIsNotFoundToo", func(t *testing.T) {
		e := newEnv(t)
		resp, _ := doJSON(t, e.app, http.MethodGet, "/api/v1/bootcamps/not-an-id", "", nil)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("RegisterSetsCookieAndReturnsToken", func(t *testing.T) {
		e := newEnv(t)
		resp, body := doJSON(t, e.app, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
			"name":     "Kevin",
			"email":    "kevin@devcamp.io",
			"password": "123456",
		})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])
		assert.NotEmpty(t, body["token"])

		var sessionCookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == middleware.TokenCookie {
				sessionCookie = c
			}
		}
		require.NotNil(t, sessionCookie)
		assert.True(t, sessionCookie.HttpOnly)
		assert.Equal(t, body["token"], sessionCookie.Value)
	})

	t.Run("RegisterRejectsAdminRole", func(t *testing.T) {
		e := newEnv(t)
		resp, _ := doJSON(t, e.app, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
			"name":     "Sneaky",
			"email":    "sneaky@devcamp.io",
			"password": "123456",
			"role":     "admin",
		})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("LoginWrongPassword", func(t *testing.T) {
		e := newEnv(t)
		e.seedUser(t, models.RolePublisher)

		resp, body := doJSON(t, e.app, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
			"email":    "publisher@devcamp.io",
			"password": "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "invalid credentials", body["error"])
	})

	t.Run("ProtectedRouteWithoutToken", func(t *testing.T) {
		e := newEnv(t)
		resp, body := doJSON(t, e.app, http.MethodGet, "/api/v1/auth/me", "", nil)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, false, body["success"])
	})

	t.Run("MeReturnsCurrentUser", func(t *testing.T) {
		e := newEnv(t)
		u, token := e.seedUser(t, models.RoleUser)

		resp, body := doJSON(t, e.app, http.MethodGet, "/api/v1/auth/me", token, nil)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		data, ok := body["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, u.ID.Hex(), data["id"])
	})

	t.Run("UserRoleCannotPublish", func(t *testing.T) {
		e := newEnv(t)
		_, token := e.seedUser(t, models.RoleUser)

		resp, body := doJSON(t, e.app, http.MethodPost, "/api/v1/bootcamps", token, map[string]any{
			"name":        "Devworks",
			"description": "Full stack training",
			"address":     "233 Bay State Rd Boston MA 02215",
			"careers":     []string{"Web Development"},
		})

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Contains(t, body["error"], "not authorized")
	})

	t.Run("PublisherCreatesBootcamp", func(t *testing.T) {
		e := newEnv(t)
		u, token := e.seedUser(t, models.RolePublisher)

		resp, body := doJSON(t, e.app, http.MethodPost, "/api/v1/bootcamps", token, map[string]any{
			"name":        "Devworks Bootcamp",
			"description": "Full stack training",
			"address":     "233 Bay State Rd Boston MA 02215",
			"careers":     []string{"Web Development"},
		})

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		data, ok := body["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "devworks-bootcamp", data["slug"])
		assert.Equal(t, u.ID.Hex(), data["user_id"])
		assert.Empty(t, data["address"])
	})

	t.Run("ValidationFailureIsBadRequest", func(t *testing.T) {
		e := newEnv(t)
		_, token := e.seedUser(t, models.RolePublisher)

		resp, _ := doJSON(t, e.app, http.MethodPost, "/api/v1/bootcamps", token, map[string]any{
			"name": "No description or address",
		})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("RadiusDistanceMustBeNumeric", func(t *testing.T) {
		e := newEnv(t)
		resp, body := doJSON(t, e.app, http.MethodGet, "/api/v1/bootcamps/radius/02215/ten", "", nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "distance must be a number of miles", body["error"])
	})

	t.Run("UsersRequireAdmin", func(t *testing.T) {
		e := newEnv(t)
		_, token := e.seedUser(t, models.RolePublisher)

		resp, _ := doJSON(t, e.app, http.MethodGet, "/api/v1/users", token, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
