package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/uhiportal/doctor-portal-api/internal/models"
	"github.com/uhiportal/doctor-portal-api/internal/repository"
	"github.com/uhiportal/doctor-portal-api/internal/utils"
)

const defaultRepoTimeout = 5 * time.Second

// AccountService owns the account lifecycle: registration, credential
// verification, profile edits, and the admin-only role and verification
// transitions. Hashing happens here, before any write reaches the
// repository; the repository never sees plaintext.
type AccountService struct {
	repo    repository.AccountRepository
	timeout time.Duration
}

func NewAccountService(repo repository.AccountRepository) *AccountService {
	return &AccountService{repo: repo, timeout: repoTimeout()}
}

func repoTimeout() time.Duration {
	if v := os.Getenv("REPO_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultRepoTimeout
}

func (s *AccountService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// RegisterDraft carries a registration submission. Password is plaintext
// here and nowhere past this layer.
type RegisterDraft struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
	Avatar   string
}

// DoctorDraft is the doctor-registration submission. The resulting account
// always starts unverified and pending, regardless of what the caller sends.
type DoctorDraft struct {
	RegisterDraft
	Specialization     string
	RegistrationNumber string
	Bio                string
	Qualifications     []models.Qualification
	Experience         []models.Experience
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d RegisterDraft) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", repository.ErrMalformedInput)
	}
	if normalizeEmail(d.Email) == "" {
		return fmt.Errorf("%w: email is required", repository.ErrMalformedInput)
	}
	if d.Password == "" {
		return fmt.Errorf("%w: password is required", repository.ErrMalformedInput)
	}
	return nil
}

// Register creates a patient account.
func (s *AccountService) Register(ctx context.Context, draft RegisterDraft) (*models.User, error) {
	if err := draft.validate(); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(draft.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(draft.Name),
		Email:    normalizeEmail(draft.Email),
		Password: hashed,
		Role:     models.RolePatient,
		Phone:    draft.Phone,
		Address:  draft.Address,
		Avatar:   draft.Avatar,
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	if err := s.repo.Create(opCtx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterDoctor creates a doctor account awaiting admin verification.
// Verification gates doctor features, not sign-in.
func (s *AccountService) RegisterDoctor(ctx context.Context, draft DoctorDraft) (*models.User, error) {
	if err := draft.validate(); err != nil {
		return nil, err
	}
	for _, exp := range draft.Experience {
		if err := exp.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", repository.ErrMalformedInput, err)
		}
	}

	hashed, err := utils.HashPassword(draft.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:               strings.TrimSpace(draft.Name),
		Email:              normalizeEmail(draft.Email),
		Password:           hashed,
		Role:               models.RoleDoctor,
		Phone:              draft.Phone,
		Address:            draft.Address,
		Avatar:             draft.Avatar,
		Bio:                draft.Bio,
		Specialization:     draft.Specialization,
		RegistrationNumber: draft.RegistrationNumber,
		Qualifications:     draft.Qualifications,
		Experience:         draft.Experience,
		IsVerified:         false,
		VerificationStatus: models.VerificationPending,
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	if err := s.repo.Create(opCtx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyCredentials authenticates an email/password pair. Unknown email and
// wrong password both come back as ErrInvalidCredentials; only a storage
// timeout is surfaced differently. Never retried here.
func (s *AccountService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.repo.FindByEmail(opCtx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Password == "" || !utils.CheckPasswordHash(password, user.Password) {
		return nil, repository.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AccountService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.FindByID(opCtx, id)
}

// ProfilePatch lists the fields an account owner may change. Empty fields
// are left untouched. Role and verification state are not reachable from
// here; those transitions are admin-only.
type ProfilePatch struct {
	Name           string
	Phone          string
	Address        string
	Avatar         string
	Bio            string
	Specialization string
	Password       string // plaintext; re-hashed before storing
}

func (s *AccountService) UpdateProfile(ctx context.Context, id primitive.ObjectID, patch ProfilePatch) (*models.User, error) {
	set := bson.M{}
	if patch.Name != "" {
		set["name"] = strings.TrimSpace(patch.Name)
	}
	if patch.Phone != "" {
		set["phone"] = patch.Phone
	}
	if patch.Address != "" {
		set["address"] = patch.Address
	}
	if patch.Avatar != "" {
		set["avatar"] = patch.Avatar
	}
	if patch.Bio != "" {
		set["bio"] = patch.Bio
	}
	if patch.Specialization != "" {
		set["specialization"] = patch.Specialization
	}
	if patch.Password != "" {
		hashed, err := utils.HashPassword(patch.Password)
		if err != nil {
			return nil, err
		}
		set["password"] = hashed
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: no update fields provided", repository.ErrMalformedInput)
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.Update(opCtx, id, set)
}

// ChangeRole reassigns an account's role. The route layer restricts this to
// admin sessions; a session can never promote itself through UpdateProfile.
func (s *AccountService) ChangeRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", repository.ErrMalformedInput, role)
	}
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.Update(opCtx, id, bson.M{"role": role})
}

// SetVerification records an admin's decision on a doctor account. Status
// and the verified flag are written in one update so an approved account is
// never observable without its flag, and vice versa.
func (s *AccountService) SetVerification(ctx context.Context, id primitive.ObjectID, approve bool) (*models.User, error) {
	set := bson.M{
		"verificationStatus": models.VerificationRejected,
		"isVerified":         false,
	}
	if approve {
		set["verificationStatus"] = models.VerificationApproved
		set["isVerified"] = true
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.Update(opCtx, id, set)
}

// DoctorsByStatus lists doctor accounts by verification status for the
// admin review queue. An empty status lists all doctors.
func (s *AccountService) DoctorsByStatus(ctx context.Context, status models.VerificationStatus) ([]models.User, error) {
	filter := bson.M{"role": models.RoleDoctor}
	if status != "" {
		filter["verificationStatus"] = status
	}
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.List(opCtx, filter)
}

// AddQualification appends an education entry, preserving insertion order.
func (s *AccountService) AddQualification(ctx context.Context, id primitive.ObjectID, q models.Qualification) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	quals := append(append([]models.Qualification{}, user.Qualifications...), q)

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.Update(opCtx, id, bson.M{"qualifications": quals})
}

// RemoveQualification removes the entry at index. Remaining entries keep
// their relative order.
func (s *AccountService) RemoveQualification(ctx context.Context, id primitive.ObjectID, index int) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(user.Qualifications) {
		return nil, fmt.Errorf("%w: qualification index %d out of range", repository.ErrMalformedInput, index)
	}
	quals := append([]models.Qualification{}, user.Qualifications[:index]...)
	quals = append(quals, user.Qualifications[index+1:]...)

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.Update(opCtx, id, bson.M{"qualifications": quals})
}

// AddExperience appends a work-history entry after validating its dates.
func (s *AccountService) AddExperience(ctx context.Context, id primitive.ObjectID, exp models.Experience) (*models.User, error) {
	if err := exp.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrMalformedInput, err)
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	exps := append(append([]models.Experience{}, user.Experience...), exp)

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.Update(opCtx, id, bson.M{"experience": exps})
}

// RemoveExperience removes the entry at index, keeping relative order.
func (s *AccountService) RemoveExperience(ctx context.Context, id primitive.ObjectID, index int) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(user.Experience) {
		return nil, fmt.Errorf("%w: experience index %d out of range", repository.ErrMalformedInput, index)
	}
	exps := append([]models.Experience{}, user.Experience[:index]...)
	exps = append(exps, user.Experience[index+1:]...)

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.repo.Update(opCtx, id, bson.M{"experience": exps})
}
