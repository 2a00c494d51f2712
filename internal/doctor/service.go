package doctor

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/careops/hospital-frontdesk/internal/validation"
)

var (
	phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Input struct {
	FirstName      string
	LastName       string
	Specialization Specialization
	PhoneNumber    string
	Email          string
	Schedule       string
	IsAvailable    bool
}

func (in Input) validate() error {
	var errs validation.Errors

	if strings.TrimSpace(in.FirstName) == "" {
		errs.Add("first_name", "first name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		errs.Add("last_name", "last name is required")
	}
	if !in.Specialization.Valid() {
		errs.Add("specialization", "unrecognised specialization")
	}
	if !phonePattern.MatchString(in.PhoneNumber) {
		errs.Add("phone_number", "phone number must be entered in the format '+999999999', up to 15 digits")
	}
	if !emailPattern.MatchString(in.Email) {
		errs.Add("email", "a valid email address is required")
	}

	return errs.Err()
}

func (s *Service) Create(ctx context.Context, in Input) (*Doctor, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	d, err := s.repo.Create(ctx, Doctor{
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Specialization: in.Specialization,
		PhoneNumber:    in.PhoneNumber,
		Email:          in.Email,
		Schedule:       in.Schedule,
		IsAvailable:    in.IsAvailable,
	})
	if err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	return d, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*Doctor, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.FirstName = strings.TrimSpace(in.FirstName)
	existing.LastName = strings.TrimSpace(in.LastName)
	existing.Specialization = in.Specialization
	existing.PhoneNumber = in.PhoneNumber
	existing.Email = in.Email
	existing.Schedule = in.Schedule
	existing.IsAvailable = in.IsAvailable

	updated, err := s.repo.Update(ctx, *existing)
	if err != nil {
		return nil, fmt.Errorf("update doctor: %w", err)
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Doctor, error) {
	if limit <= 0 {
		limit = 20 // default
	}
	if limit > 100 {
		limit = 100 // max
	}
	if offset < 0 {
		offset = 0
	}

	doctors, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}
