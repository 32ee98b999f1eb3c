package services

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Mucyobrian123/DevCamp/internal/models"
	"github.com/Mucyobrian123/DevCamp/internal/query"
	"github.com/Mucyobrian123/DevCamp/internal/repository"
)

type CourseService struct {
	courses   repository.CourseRepository
	bootcamps repository.BootcampRepository
	log       *zap.SugaredLogger
}

func NewCourseService(courses repository.CourseRepository, bootcamps repository.BootcampRepository, log *zap.SugaredLogger) *CourseService {
	return &CourseService{courses: courses, bootcamps: bootcamps, log: log}
}

func (s *CourseService) List(ctx context.Context, q query.ListQuery) ([]models.Course, int64, error) {
	return s.courses.List(ctx, q)
}

// ListByBootcamp returns all courses under one bootcamp; an unresolved
// parent id is a 404.
func (s *CourseService) ListByBootcamp(ctx context.Context, bootcampID string) ([]models.Course, error) {
	b, err := s.bootcamps.FindByID(ctx, bootcampID)
	if err != nil {
		return nil, err
	}
	return s.courses.FindByBootcamp(ctx, b.ID)
}

// Get returns a course with the reduced parent view attached.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	c, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	parent, err := s.bootcamps.FindByID(ctx, c.BootcampID.Hex())
	if err == nil {
		c.Bootcamp = &models.BootcampSummary{
			ID:          parent.ID,
			Name:        parent.Name,
			Description: parent.Description,
		}
	}
	return c, nil
}

// Create adds a course under a bootcamp. Authorization is scoped to the
// parent bootcamp's owner, as is every other course mutation.
func (s *CourseService) Create(ctx context.Context, requester *models.User, bootcampID string, c *models.Course) error {
	parent, err := s.bootcamps.FindByID(ctx, bootcampID)
	if err != nil {
		return err
	}
	if err := authorizeOwner(requester, parent.UserID, "add a course to", "bootcamp"); err != nil {
		return err
	}

	c.BootcampID = parent.ID
	c.UserID = requester.ID
	if err := s.courses.Insert(ctx, c); err != nil {
		return err
	}
	s.recomputeAverageCost(ctx, parent.ID)
	return nil
}

func (s *CourseService) Update(ctx context.Context, requester *models.User, id string, upd *models.CourseUpdate) (*models.Course, error) {
	existing, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	parent, err := s.bootcamps.FindByID(ctx, existing.BootcampID.Hex())
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(requester, parent.UserID, "update a course of", "bootcamp"); err != nil {
		return nil, err
	}

	set := bson.M{}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Weeks != nil {
		set["weeks"] = *upd.Weeks
	}
	if upd.Tuition != nil {
		set["tuition"] = *upd.Tuition
	}
	if upd.MinimumSkill != nil {
		set["minimum_skill"] = *upd.MinimumSkill
	}
	if upd.ScholarshipAvailable != nil {
		set["scholarship_available"] = *upd.ScholarshipAvailable
	}
	if len(set) == 0 {
		return existing, nil
	}

	updated, err := s.courses.Update(ctx, existing.ID, set)
	if err != nil {
		return nil, err
	}
	if _, changed := set["tuition"]; changed {
		s.recomputeAverageCost(ctx, parent.ID)
	}
	return updated, nil
}

func (s *CourseService) Delete(ctx context.Context, requester *models.User, id string) error {
	existing, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return err
	}
	parent, err := s.bootcamps.FindByID(ctx, existing.BootcampID.Hex())
	if err != nil {
		return err
	}
	if err := authorizeOwner(requester, parent.UserID, "delete a course of", "bootcamp"); err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, existing.ID); err != nil {
		return err
	}
	s.recomputeAverageCost(ctx, parent.ID)
	return nil
}

// recomputeAverageCost refreshes the parent's derived average after a
// course mutation. A failure here never fails the request that caused it.
func (s *CourseService) recomputeAverageCost(ctx context.Context, bootcampID primitive.ObjectID) {
	avg, ok, err := s.courses.AverageTuition(ctx, bootcampID)
	if err != nil {
		s.log.Errorw("average tuition aggregation failed", "bootcamp_id", bootcampID.Hex(), "error", err)
		return
	}
	cost := 0.0
	if ok {
		cost = math.Ceil(avg/10) * 10
	}
	if _, err := s.bootcamps.Update(ctx, bootcampID, bson.M{"average_cost": cost}); err != nil {
		s.log.Errorw("average cost update failed", "bootcamp_id", bootcampID.Hex(), "error", err)
	}
}
