package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/uhiportal/doctor-portal-api/internal/models"
	"github.com/uhiportal/doctor-portal-api/internal/repository"
	"github.com/uhiportal/doctor-portal-api/internal/utils"
)

func newTestService(t *testing.T) (*AccountService, *memAccountRepository) {
	t.Helper()
	t.Setenv("BCRYPT_COST", "4") // keep hashing fast in tests
	repo := newMemAccountRepository()
	return NewAccountService(repo), repo
}

func patientDraft() RegisterDraft {
	return RegisterDraft{
		Name:     "Pat Doe",
		Email:    "pat@example.com",
		Password: "Secr3t!pw",
		Phone:    "5551234",
	}
}

func doctorDraft() DoctorDraft {
	return DoctorDraft{
		RegisterDraft: RegisterDraft{
			Name:     "Dr. Jane Roe",
			Email:    "doc@example.com",
			Password: "Secr3t!",
			Phone:    "5559876",
		},
		Specialization:     "Cardiology",
		RegistrationNumber: "MC-12345",
		Qualifications: []models.Qualification{
			{Degree: "MBBS", Institution: "State Medical College", Year: 2012},
			{Degree: "MD", Institution: "University Hospital", Year: 2016},
		},
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo := newTestService(t)

	user, err := svc.Register(context.Background(), patientDraft())
	assert.NoError(t, err)
	assert.Equal(t, models.RolePatient, user.Role)

	stored, err := repo.FindByEmail(context.Background(), "pat@example.com")
	assert.NoError(t, err)
	assert.NotEqual(t, "Secr3t!pw", stored.Password)
	assert.True(t, utils.CheckPasswordHash("Secr3t!pw", stored.Password))
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, _ := newTestService(t)

	draft := patientDraft()
	draft.Email = "  Pat@Example.COM "
	user, err := svc.Register(context.Background(), draft)
	assert.NoError(t, err)
	assert.Equal(t, "pat@example.com", user.Email)
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), patientDraft())
	assert.NoError(t, err)

	second := patientDraft()
	second.Email = "PAT@example.com"
	_, err = svc.Register(context.Background(), second)
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _ := newTestService(t)

	for _, draft := range []RegisterDraft{
		{Email: "x@example.com", Password: "pw"},
		{Name: "X", Password: "pw"},
		{Name: "X", Email: "x@example.com"},
	} {
		_, err := svc.Register(context.Background(), draft)
		assert.ErrorIs(t, err, repository.ErrMalformedInput)
	}
}

func TestRegisterDoctorStartsPending(t *testing.T) {
	svc, _ := newTestService(t)

	doctor, err := svc.RegisterDoctor(context.Background(), doctorDraft())
	assert.NoError(t, err)
	assert.Equal(t, models.RoleDoctor, doctor.Role)
	assert.Equal(t, models.VerificationPending, doctor.VerificationStatus)
	assert.False(t, doctor.IsVerified)
	// Insertion order of qualifications is preserved.
	assert.Equal(t, "MBBS", doctor.Qualifications[0].Degree)
	assert.Equal(t, "MD", doctor.Qualifications[1].Degree)
}

func TestRegisterDoctorRejectsBadExperienceDates(t *testing.T) {
	svc, _ := newTestService(t)

	from := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(-2, 0, 0)
	draft := doctorDraft()
	draft.Experience = []models.Experience{{Hospital: "City General", Position: "Registrar", From: from, To: &to}}

	_, err := svc.RegisterDoctor(context.Background(), draft)
	assert.ErrorIs(t, err, repository.ErrMalformedInput)
}

func TestVerifyCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RegisterDoctor(context.Background(), doctorDraft())
	assert.NoError(t, err)

	// Pending verification does not block sign-in.
	user, err := svc.VerifyCredentials(context.Background(), "doc@example.com", "Secr3t!")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleDoctor, user.Role)
	assert.Equal(t, models.VerificationPending, user.VerificationStatus)

	// Mixed-case email still signs in.
	_, err = svc.VerifyCredentials(context.Background(), "Doc@Example.com", "Secr3t!")
	assert.NoError(t, err)
}

func TestVerifyCredentialsEnumerationResistance(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RegisterDoctor(context.Background(), doctorDraft())
	assert.NoError(t, err)

	_, unknownErr := svc.VerifyCredentials(context.Background(), "nobody@example.com", "Secr3t!")
	_, wrongPwErr := svc.VerifyCredentials(context.Background(), "doc@example.com", "wrong")

	// Unknown email and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, unknownErr, repository.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPwErr, repository.ErrInvalidCredentials)
	assert.Equal(t, unknownErr, wrongPwErr)
}

func TestVerifyCredentialsTimeoutIsDistinct(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")
	mock := &MockAccountRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, repository.ErrTimeout
		},
	}
	svc := NewAccountService(mock)

	_, err := svc.VerifyCredentials(context.Background(), "doc@example.com", "Secr3t!")
	assert.ErrorIs(t, err, repository.ErrTimeout)
	assert.NotErrorIs(t, err, repository.ErrInvalidCredentials)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Register(context.Background(), patientDraft())
	assert.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfilePatch{Phone: "5550000"})
	assert.NoError(t, err)
	assert.Equal(t, "5550000", updated.Phone)
	// Unspecified fields are untouched.
	assert.Equal(t, "Pat Doe", updated.Name)
	assert.Equal(t, user.Password, updated.Password)
}

func TestUpdateProfileRehashesPassword(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Register(context.Background(), patientDraft())
	assert.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfilePatch{Password: "N3w-secret"})
	assert.NoError(t, err)
	assert.NotEqual(t, "N3w-secret", updated.Password)
	assert.True(t, utils.CheckPasswordHash("N3w-secret", updated.Password))
	assert.False(t, utils.CheckPasswordHash("Secr3t!pw", updated.Password))
}

func TestUpdateProfileEmptyPatch(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Register(context.Background(), patientDraft())
	assert.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), user.ID, ProfilePatch{})
	assert.ErrorIs(t, err, repository.ErrMalformedInput)
}

func TestChangeRole(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Register(context.Background(), patientDraft())
	assert.NoError(t, err)

	updated, err := svc.ChangeRole(context.Background(), user.ID, models.RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	_, err = svc.ChangeRole(context.Background(), user.ID, models.Role("superuser"))
	assert.ErrorIs(t, err, repository.ErrMalformedInput)
}

func TestSetVerificationMovesStatusAndFlagTogether(t *testing.T) {
	svc, repo := newTestService(t)

	doctor, err := svc.RegisterDoctor(context.Background(), doctorDraft())
	assert.NoError(t, err)

	approved, err := svc.SetVerification(context.Background(), doctor.ID, true)
	assert.NoError(t, err)
	assert.Equal(t, models.VerificationApproved, approved.VerificationStatus)
	assert.True(t, approved.IsVerified)

	rejected, err := svc.SetVerification(context.Background(), doctor.ID, false)
	assert.NoError(t, err)
	assert.Equal(t, models.VerificationRejected, rejected.VerificationStatus)
	assert.False(t, rejected.IsVerified)

	stored, err := repo.FindByID(context.Background(), doctor.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.VerificationRejected, stored.VerificationStatus)
	assert.False(t, stored.IsVerified)
}

func TestDoctorsByStatus(t *testing.T) {
	svc, _ := newTestService(t)

	doctor, err := svc.RegisterDoctor(context.Background(), doctorDraft())
	assert.NoError(t, err)
	_, err = svc.Register(context.Background(), patientDraft())
	assert.NoError(t, err)

	pending, err := svc.DoctorsByStatus(context.Background(), models.VerificationPending)
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, doctor.ID, pending[0].ID)

	approved, err := svc.DoctorsByStatus(context.Background(), models.VerificationApproved)
	assert.NoError(t, err)
	assert.Empty(t, approved)
}

func TestRemoveQualificationPreservesOrder(t *testing.T) {
	svc, _ := newTestService(t)

	draft := doctorDraft()
	draft.Qualifications = []models.Qualification{
		{Degree: "MBBS", Institution: "A", Year: 2010},
		{Degree: "MD", Institution: "B", Year: 2014},
		{Degree: "DM", Institution: "C", Year: 2018},
	}
	doctor, err := svc.RegisterDoctor(context.Background(), draft)
	assert.NoError(t, err)

	updated, err := svc.RemoveQualification(context.Background(), doctor.ID, 1)
	assert.NoError(t, err)
	assert.Len(t, updated.Qualifications, 2)
	assert.Equal(t, "MBBS", updated.Qualifications[0].Degree)
	assert.Equal(t, "DM", updated.Qualifications[1].Degree)
}

func TestQualificationAndExperienceEdits(t *testing.T) {
	svc, _ := newTestService(t)

	doctor, err := svc.RegisterDoctor(context.Background(), doctorDraft())
	assert.NoError(t, err)

	updated, err := svc.AddQualification(context.Background(), doctor.ID, models.Qualification{Degree: "DM", Institution: "C", Year: 2020})
	assert.NoError(t, err)
	assert.Len(t, updated.Qualifications, 3)
	assert.Equal(t, "DM", updated.Qualifications[2].Degree)

	from := time.Date(2016, 6, 1, 0, 0, 0, 0, time.UTC)
	updated, err = svc.AddExperience(context.Background(), doctor.ID, models.Experience{Hospital: "City General", Position: "Consultant", From: from})
	assert.NoError(t, err)
	assert.Len(t, updated.Experience, 1)

	updated, err = svc.RemoveExperience(context.Background(), doctor.ID, 0)
	assert.NoError(t, err)
	assert.Empty(t, updated.Experience)

	_, err = svc.RemoveExperience(context.Background(), doctor.ID, 0)
	assert.ErrorIs(t, err, repository.ErrMalformedInput)
	_, err = svc.RemoveQualification(context.Background(), doctor.ID, -1)
	assert.ErrorIs(t, err, repository.ErrMalformedInput)
}
