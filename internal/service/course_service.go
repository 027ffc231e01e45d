package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/opencampus/admission-backend/internal/model"
	"github.com/opencampus/admission-backend/internal/repository"
)

// CourseService handles course catalog business logic. Slot counters are
// owned by the capacity ledger; this service only moves the ceiling.
type CourseService struct {
	courseRepo *repository.CourseRepository
}

// NewCourseService creates a new CourseService.
func NewCourseService(courseRepo *repository.CourseRepository) *CourseService {
	return &CourseService{courseRepo: courseRepo}
}

// ListCourses retrieves all courses.
func (s *CourseService) ListCourses(ctx context.Context, actor model.Actor) ([]model.Course, error) {
	if !actor.Can(model.PermissionCoursesRead) {
		return nil, ErrPermissionDenied
	}
	return s.courseRepo.List(ctx)
}

// GetCourse retrieves one course.
func (s *CourseService) GetCourse(ctx context.Context, actor model.Actor, id int) (*model.Course, error) {
	if !actor.Can(model.PermissionCoursesRead) {
		return nil, ErrPermissionDenied
	}
	return s.courseRepo.GetByID(ctx, id)
}

// CreateCourse adds a course with all seats available.
func (s *CourseService) CreateCourse(ctx context.Context, actor model.Actor, req model.CreateCourseRequest) (*model.Course, error) {
	if !actor.Can(model.PermissionCoursesWrite) {
		return nil, ErrPermissionDenied
	}

	course := &model.Course{
		Code:          req.Code,
		Name:          req.Name,
		TotalCapacity: req.TotalCapacity,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return course, nil
}

// UpdateCourse changes a course's code, name and capacity ceiling. The ceiling
// cannot shrink below the number of seats already taken.
func (s *CourseService) UpdateCourse(ctx context.Context, actor model.Actor, id int, req model.CreateCourseRequest) (*model.Course, error) {
	if !actor.Can(model.PermissionCoursesWrite) {
		return nil, ErrPermissionDenied
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	taken := course.TotalCapacity - course.Slots
	if req.TotalCapacity < taken {
		return nil, fmt.Errorf("capacity %d is below the %d seats already taken", req.TotalCapacity, taken)
	}

	course.Code = req.Code
	course.Name = req.Name
	course.TotalCapacity = req.TotalCapacity
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	return s.courseRepo.GetByID(ctx, id)
}

// DeleteCourse removes a course that is not referenced by applicants or
// schedules.
func (s *CourseService) DeleteCourse(ctx context.Context, actor model.Actor, id int) error {
	if !actor.Can(model.PermissionCoursesWrite) {
		return ErrPermissionDenied
	}
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return errors.New("course is in use and cannot be deleted")
	}
	return nil
}
