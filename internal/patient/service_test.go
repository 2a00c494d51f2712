package patient

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/hospital-frontdesk/internal/validation"
)

type stubRepo struct {
	patients map[uuid.UUID]Patient
	created  *Patient
}

func newStubRepo() *stubRepo {
	return &stubRepo{patients: make(map[uuid.UUID]Patient)}
}

func (r *stubRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return &p, nil
}

func (r *stubRepo) Create(_ context.Context, p Patient) (*Patient, error) {
	p.ID = uuid.New()
	p.RegisteredAt = time.Now()
	p.UpdatedAt = p.RegisteredAt
	r.patients[p.ID] = p
	r.created = &p
	return &p, nil
}

func (r *stubRepo) Update(_ context.Context, p Patient) (*Patient, error) {
	if _, ok := r.patients[p.ID]; !ok {
		return nil, ErrPatientNotFound
	}
	p.UpdatedAt = time.Now()
	r.patients[p.ID] = p
	return &p, nil
}

func (r *stubRepo) List(_ context.Context, limit, offset int) ([]Patient, error) {
	var out []Patient
	for _, p := range r.patients {
		out = append(out, p)
	}
	return out, nil
}

func validInput() RegisterInput {
	return RegisterInput{
		FirstName:   "Amina",
		LastName:    "Okafor",
		DateOfBirth: time.Date(1988, 4, 12, 0, 0, 0, 0, time.UTC),
		Gender:      GenderFemale,
		PhoneNumber: "+12025550134",
		Address:     "14 Harbor Lane",
	}
}

func TestRegisterValid(t *testing.T) {
	svc := NewService(newStubRepo())

	p, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, "Amina", p.FirstName)
}

func TestRegisterFieldValidation(t *testing.T) {
	svc := NewService(newStubRepo())

	tests := []struct {
		name      string
		mutate    func(*RegisterInput)
		wantField string
	}{
		{"missing first name", func(in *RegisterInput) { in.FirstName = "  " }, "first_name"},
		{"missing last name", func(in *RegisterInput) { in.LastName = "" }, "last_name"},
		{"future date of birth", func(in *RegisterInput) { in.DateOfBirth = time.Now().Add(48 * time.Hour) }, "date_of_birth"},
		{"bad gender", func(in *RegisterInput) { in.Gender = "X" }, "gender"},
		{"bad phone", func(in *RegisterInput) { in.PhoneNumber = "call me" }, "phone_number"},
		{"short phone", func(in *RegisterInput) { in.PhoneNumber = "+1234" }, "phone_number"},
		{"bad blood group", func(in *RegisterInput) { bg := "Q+"; in.BloodGroup = &bg }, "blood_group"},
		{"missing address", func(in *RegisterInput) { in.Address = "" }, "address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			require.Error(t, err)

			var verr *validation.Errors
			require.ErrorAs(t, err, &verr)

			found := false
			for _, f := range verr.Fields {
				if f.Field == tt.wantField {
					found = true
				}
			}
			assert.True(t, found, "expected a field error on %s, got %v", tt.wantField, verr.Fields)
		})
	}
}

func TestUpdateMissingPatient(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.Update(context.Background(), uuid.New(), validInput())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestUpdateRoundTrip(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	created, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.MedicalHistory = "penicillin allergy"
	updated, err := svc.Update(context.Background(), created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "penicillin allergy", updated.MedicalHistory)
	assert.Equal(t, created.ID, updated.ID)
}
