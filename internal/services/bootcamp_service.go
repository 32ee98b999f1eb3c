package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Mucyobrian123/DevCamp/internal/apperr"
	"github.com/Mucyobrian123/DevCamp/internal/models"
	"github.com/Mucyobrian123/DevCamp/internal/query"
	"github.com/Mucyobrian123/DevCamp/internal/repository"
)

// earthRadiusMiles converts a distance in miles to radians for the
// spherical radius query.
const earthRadiusMiles = 3963.0

type BootcampService struct {
	bootcamps repository.BootcampRepository
	courses   repository.CourseRepository
	geo       Geocoder
	uploadDir string
	log       *zap.SugaredLogger
}

func NewBootcampService(bootcamps repository.BootcampRepository, courses repository.CourseRepository, geo Geocoder, uploadDir string, log *zap.SugaredLogger) *BootcampService {
	return &BootcampService{
		bootcamps: bootcamps,
		courses:   courses,
		geo:       geo,
		uploadDir: uploadDir,
		log:       log,
	}
}

// List returns a shaped page of bootcamps with their courses attached
// (the reverse relation the document store does not hold).
func (s *BootcampService) List(ctx context.Context, q query.ListQuery) ([]models.Bootcamp, int64, error) {
	bootcamps, total, err := s.bootcamps.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]primitive.ObjectID, len(bootcamps))
	for i := range bootcamps {
		ids[i] = bootcamps[i].ID
	}
	courses, err := s.courses.FindByBootcamps(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	byBootcamp := make(map[primitive.ObjectID][]models.Course, len(bootcamps))
	for _, c := range courses {
		byBootcamp[c.BootcampID] = append(byBootcamp[c.BootcampID], c)
	}
	for i := range bootcamps {
		bootcamps[i].Courses = byBootcamp[bootcamps[i].ID]
	}
	return bootcamps, total, nil
}

func (s *BootcampService) Get(ctx context.Context, id string) (*models.Bootcamp, error) {
	b, err := s.bootcamps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.FindByBootcamp(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.Courses = courses
	return b, nil
}

// Create geocodes the address, derives the slug, and attaches the
// requester as owner. Non-admin publishers may own at most one bootcamp.
func (s *BootcampService) Create(ctx context.Context, requester *models.User, b *models.Bootcamp) error {
	if !requester.IsAdmin() {
		existing, err := s.bootcamps.FindOneByOwner(ctx, requester.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("the user with ID %s has already published a bootcamp", requester.ID.Hex())
		}
	}

	loc, err := s.geo.Geocode(ctx, b.Address)
	if err != nil {
		return apperr.BadRequest("could not geocode address: %v", err)
	}
	b.Location = loc
	b.Address = ""
	b.Slug = slug.Make(b.Name)
	if b.Photo == "" {
		b.Photo = models.DefaultPhoto
	}
	b.UserID = requester.ID

	return s.bootcamps.Insert(ctx, b)
}

// Update applies the non-nil fields. A changed name re-derives the slug;
// a supplied address is re-geocoded. Only the owner or an admin may
// update.
func (s *BootcampService) Update(ctx context.Context, requester *models.User, id string, upd *models.BootcampUpdate) (*models.Bootcamp, error) {
	existing, err := s.bootcamps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(requester, existing.UserID, "update", "bootcamp"); err != nil {
		return nil, err
	}

	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
		set["slug"] = slug.Make(*upd.Name)
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Website != nil {
		set["website"] = *upd.Website
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Address != nil {
		loc, err := s.geo.Geocode(ctx, *upd.Address)
		if err != nil {
			return nil, apperr.BadRequest("could not geocode address: %v", err)
		}
		set["location"] = loc
	}
	if upd.Careers != nil {
		set["careers"] = upd.Careers
	}
	if upd.Housing != nil {
		set["housing"] = *upd.Housing
	}
	if upd.JobAssistance != nil {
		set["job_assistance"] = *upd.JobAssistance
	}
	if upd.JobGuarantee != nil {
		set["job_guarantee"] = *upd.JobGuarantee
	}
	if upd.AcceptGI != nil {
		set["accept_gi"] = *upd.AcceptGI
	}
	if upd.AverageRating != nil {
		set["average_rating"] = *upd.AverageRating
	}
	if len(set) == 0 {
		return existing, nil
	}

	return s.bootcamps.Update(ctx, existing.ID, set)
}

// Delete removes the bootcamp and cascades to its courses. The parent
// delete is authoritative; orphan prevention is the bulk second phase.
func (s *BootcampService) Delete(ctx context.Context, requester *models.User, id string) error {
	existing, err := s.bootcamps.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(requester, existing.UserID, "delete", "bootcamp"); err != nil {
		return err
	}

	if err := s.bootcamps.Delete(ctx, existing.ID); err != nil {
		return err
	}
	removed, err := s.courses.DeleteByBootcamp(ctx, existing.ID)
	if err != nil {
		return err
	}
	s.log.Infow("bootcamp deleted", "id", existing.ID.Hex(), "courses_removed", removed)
	return nil
}

// WithinRadius geocodes a zipcode and returns the bootcamps inside the
// given distance in miles.
func (s *BootcampService) WithinRadius(ctx context.Context, zipcode string, distanceMiles float64) ([]models.Bootcamp, error) {
	if distanceMiles <= 0 {
		return nil, apperr.BadRequest("distance must be a positive number of miles")
	}

	loc, err := s.geo.Geocode(ctx, zipcode)
	if err != nil {
		return nil, apperr.BadRequest("could not geocode zipcode: %v", err)
	}
	lng, lat := loc.Coordinates[0], loc.Coordinates[1]
	radius := distanceMiles / earthRadiusMiles

	return s.bootcamps.FindWithinRadius(ctx, lng, lat, radius)
}

// UploadPhoto stores the image under photo_<id><ext> in the upload dir
// and records the filename. Mimetype and size limits are enforced by the
// handler before the stream reaches here.
func (s *BootcampService) UploadPhoto(ctx context.Context, requester *models.User, id, ext string, src io.Reader) (string, error) {
	existing, err := s.bootcamps.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := authorizeOwner(requester, existing.UserID, "update", "bootcamp"); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("photo_%s%s", existing.ID.Hex(), ext)
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	dst, err := os.Create(filepath.Join(s.uploadDir, filename))
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write photo file: %w", err)
	}

	if _, err := s.bootcamps.Update(ctx, existing.ID, bson.M{"photo": filename}); err != nil {
		return "", err
	}
	return filename, nil
}
