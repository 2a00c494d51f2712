package patient

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careops/hospital-frontdesk/internal/validation"
)

// Same format the registration form has always accepted: optional +, 9-15 digits.
var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput carries the registration form fields. The photo is stored
// elsewhere; only its reference passes through here.
type RegisterInput struct {
	FirstName      string
	LastName       string
	DateOfBirth    time.Time
	Gender         Gender
	BloodGroup     *string
	PhoneNumber    string
	Email          *string
	Address        string
	MedicalHistory string
	PhotoURL       *string
}

func (in RegisterInput) validate(now time.Time) error {
	var errs validation.Errors

	if strings.TrimSpace(in.FirstName) == "" {
		errs.Add("first_name", "first name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		errs.Add("last_name", "last name is required")
	}
	if in.DateOfBirth.IsZero() {
		errs.Add("date_of_birth", "date of birth is required")
	} else if in.DateOfBirth.After(now) {
		errs.Add("date_of_birth", "date of birth cannot be in the future")
	}
	if !in.Gender.Valid() {
		errs.Add("gender", "gender must be M or F")
	}
	if in.BloodGroup != nil && !ValidBloodGroup(*in.BloodGroup) {
		errs.Add("blood_group", "unrecognised blood group")
	}
	if !phonePattern.MatchString(in.PhoneNumber) {
		errs.Add("phone_number", "phone number must be entered in the format '+999999999', up to 15 digits")
	}
	if strings.TrimSpace(in.Address) == "" {
		errs.Add("address", "address is required")
	}

	return errs.Err()
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Patient, error) {
	if err := in.validate(time.Now()); err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, Patient{
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		DateOfBirth:    in.DateOfBirth,
		Gender:         in.Gender,
		BloodGroup:     in.BloodGroup,
		PhoneNumber:    in.PhoneNumber,
		Email:          in.Email,
		Address:        in.Address,
		MedicalHistory: in.MedicalHistory,
		PhotoURL:       in.PhotoURL,
	})
	if err != nil {
		return nil, fmt.Errorf("register patient: %w", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in RegisterInput) (*Patient, error) {
	if err := in.validate(time.Now()); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.FirstName = strings.TrimSpace(in.FirstName)
	existing.LastName = strings.TrimSpace(in.LastName)
	existing.DateOfBirth = in.DateOfBirth
	existing.Gender = in.Gender
	existing.BloodGroup = in.BloodGroup
	existing.PhoneNumber = in.PhoneNumber
	existing.Email = in.Email
	existing.Address = in.Address
	existing.MedicalHistory = in.MedicalHistory
	existing.PhotoURL = in.PhotoURL

	updated, err := s.repo.Update(ctx, *existing)
	if err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Patient, error) {
	if limit <= 0 {
		limit = 20 // default
	}
	if limit > 100 {
		limit = 100 // max
	}
	if offset < 0 {
		offset = 0
	}

	patients, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}
