package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/opencampus/admission-backend/internal/model"
	"github.com/opencampus/admission-backend/internal/repository"
)

// ApplicantService handles the upstream pipeline operations that feed the
// scheduling core: intake, verification and course assignment.
type ApplicantService struct {
	applicantRepo *repository.ApplicantRepository
	courseRepo    *repository.CourseRepository
	historyRepo   *repository.StatusHistoryRepository
}

// NewApplicantService creates a new ApplicantService.
func NewApplicantService(
	applicantRepo *repository.ApplicantRepository,
	courseRepo *repository.CourseRepository,
	historyRepo *repository.StatusHistoryRepository,
) *ApplicantService {
	return &ApplicantService{
		applicantRepo: applicantRepo,
		courseRepo:    courseRepo,
		historyRepo:   historyRepo,
	}
}

// ListApplicants retrieves a page of applicants, optionally filtered by status.
func (s *ApplicantService) ListApplicants(ctx context.Context, actor model.Actor, status model.ApplicantStatus, page, perPage int) ([]model.Applicant, int, error) {
	if !actor.Can(model.PermissionApplicantsRead) {
		return nil, 0, ErrPermissionDenied
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return s.applicantRepo.ListPaginated(ctx, status, perPage, (page-1)*perPage)
}

// GetApplicant retrieves one applicant.
func (s *ApplicantService) GetApplicant(ctx context.Context, actor model.Actor, id int) (*model.Applicant, error) {
	if !actor.Can(model.PermissionApplicantsRead) {
		return nil, ErrPermissionDenied
	}
	return s.applicantRepo.GetByID(ctx, id)
}

// GetHistory retrieves an applicant's status history, newest first.
func (s *ApplicantService) GetHistory(ctx context.Context, actor model.Actor, id int) ([]model.StatusHistoryEntry, error) {
	if !actor.Can(model.PermissionApplicantsRead) {
		return nil, ErrPermissionDenied
	}
	return s.historyRepo.ListByApplicant(ctx, id)
}

// CreateApplicant records a new application in Submitted status.
func (s *ApplicantService) CreateApplicant(ctx context.Context, actor model.Actor, req model.CreateApplicantRequest) (*model.Applicant, error) {
	if !actor.Can(model.PermissionApplicantsWrite) {
		return nil, ErrPermissionDenied
	}

	applicant := &model.Applicant{
		ApplicantNo: req.ApplicantNo,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Status:      model.StatusSubmitted,
	}
	if err := s.applicantRepo.Create(ctx, applicant); err != nil {
		return nil, fmt.Errorf("create applicant: %w", err)
	}

	if err := s.historyRepo.Append(ctx, applicant.ID, model.StatusSubmitted, "Application submitted", &actor.ID); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}
	return applicant, nil
}

// VerifyApplicant marks a Submitted application as Verified, making the
// applicant eligible for exam assignment. The verification timestamp is the
// applicant's position in the FIFO queue.
func (s *ApplicantService) VerifyApplicant(ctx context.Context, actor model.Actor, id int) (*model.Applicant, error) {
	if !actor.Can(model.PermissionApplicantsWrite) {
		return nil, ErrPermissionDenied
	}

	applicant, err := s.applicantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get applicant: %w", err)
	}
	if applicant.Status != model.StatusSubmitted {
		return nil, fmt.Errorf("applicant in status %q cannot be verified", applicant.Status)
	}

	if err := s.applicantRepo.SetVerified(ctx, id); err != nil {
		return nil, fmt.Errorf("set verified: %w", err)
	}
	if err := s.historyRepo.Append(ctx, id, model.StatusVerified, "Application verified", &actor.ID); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}
	return s.applicantRepo.GetByID(ctx, id)
}

// AssignCourse records the course an applicant was admitted into after
// completing the exam, making them eligible for enrollment assignment.
func (s *ApplicantService) AssignCourse(ctx context.Context, actor model.Actor, id int, req model.AssignCourseRequest) (*model.Applicant, error) {
	if !actor.Can(model.PermissionApplicantsWrite) {
		return nil, ErrPermissionDenied
	}

	applicant, err := s.applicantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get applicant: %w", err)
	}
	if applicant.Status != model.StatusExamCompleted {
		return nil, errors.New("applicant must complete the exam before course assignment")
	}

	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	if err := s.applicantRepo.SetCourseAssigned(ctx, id, course.ID); err != nil {
		return nil, fmt.Errorf("set course: %w", err)
	}
	desc := fmt.Sprintf("Assigned to course %s", course.Code)
	if err := s.historyRepo.Append(ctx, id, model.StatusCourseAssigned, desc, &actor.ID); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}
	return s.applicantRepo.GetByID(ctx, id)
}
