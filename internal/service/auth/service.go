package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/access"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/service"
	"github.com/jwalitptl/clinic-api/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

var ErrInvalidCredentials = &apperrors.AppError{Code: apperrors.ErrUnauthorized, Message: "invalid credentials"}

// duplicateFields maps unique indexes onto the request field that caused them.
var duplicateFields = map[string]string{
	"users_email_key":                       "email",
	"users_username_key":                    "username",
	"therapist_profiles_license_number_key": "license_number",
}

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
	now      func() time.Time
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
		now:      time.Now,
	}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user.ID, user.Role)
}

// Refresh trades a refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(err)
		}
		return nil, apperrors.Internal(err)
	}
	return s.issue(user.ID, user.Role)
}

func (s *Service) issue(userID uuid.UUID, role model.Role) (*model.TokenResponse, error) {
	accessToken, err := s.jwtSvc.GenerateAccessToken(userID, string(role))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refresh, err := s.jwtSvc.GenerateRefreshToken(userID, string(role))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{Access: accessToken, Refresh: refresh}, nil
}

// ResolveActor turns a bearer token into the actor for this request. The
// profile lookup runs on every call so role changes apply immediately.
func (s *Service) ResolveActor(ctx context.Context, token string) (access.Actor, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	identity, err := s.userRepo.GetIdentity(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(err)
		}
		return nil, apperrors.Internal(err)
	}
	return access.FromIdentity(identity), nil
}

// Register creates a user together with the profile its role requires.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	fields := map[string]string{}
	switch req.Role {
	case model.RolePatient:
		if req.DateOfBirth == nil {
			fields["date_of_birth"] = "is required for patients"
		}
	case model.RoleTherapist:
		if strings.TrimSpace(req.LicenseNumber) == "" {
			fields["license_number"] = "is required for therapists"
		}
		if strings.TrimSpace(req.Specialization) == "" {
			fields["specialization"] = "is required for therapists"
		}
	default:
		fields["role"] = "must be PATIENT or THERAPIST"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidation("invalid registration", fields)
	}

	user, err := s.newUser(req.Email, req.Username, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	if req.Phone != "" {
		phone := req.Phone
		user.PhoneNumber = &phone
	}

	var (
		patient   *model.PatientProfile
		therapist *model.TherapistProfile
	)
	if req.Role == model.RolePatient {
		patient = &model.PatientProfile{
			Base:             model.NewBase(user.CreatedAt),
			DateOfBirth:      *req.DateOfBirth,
			MedicalHistory:   req.MedicalHistory,
			EmergencyContact: req.EmergencyContact,
			Status:           model.PatientStatusActive,
		}
	} else {
		therapist = &model.TherapistProfile{
			Base:           model.NewBase(user.CreatedAt),
			LicenseNumber:  req.LicenseNumber,
			Specialization: req.Specialization,
			Bio:            req.Bio,
			Status:         model.TherapistStatusActive,
			FocusAreas:     []string{},
		}
	}

	if err := s.userRepo.Register(ctx, user, patient, therapist); err != nil {
		return nil, registrationError(err)
	}
	return user, nil
}

// CreateSuperuser is used by the CLI. Superusers are stored as ADMIN.
func (s *Service) CreateSuperuser(ctx context.Context, email, username, password string) (*model.User, error) {
	user, err := s.newUser(email, username, password, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	user.IsSuperuser = true
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, registrationError(err)
	}
	return user, nil
}

func (s *Service) newUser(email, username, password string, role model.Role) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.NewValidation("email is required", map[string]string{"email": "is required"})
	}
	if username == "" {
		username = email
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return nil, apperrors.NewValidation("password too short", map[string]string{"password": err.Error()})
		}
		return nil, apperrors.Internal(err)
	}

	return &model.User{
		Base:         model.NewBase(s.now()),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}, nil
}

func registrationError(err error) error {
	if field, ok := duplicateFields[service.Constraint(err)]; ok {
		return apperrors.NewValidation(field+" already registered", map[string]string{field: "already registered"})
	}
	return service.RepoError(err, "user")
}

func (s *Service) ChangePassword(ctx context.Context, actor access.Actor, req *model.ChangePasswordRequest) error {
	if !access.Authenticated(actor) {
		return apperrors.Unauthorized(nil)
	}
	user, err := s.userRepo.Get(ctx, actor.UserID())
	if err != nil {
		return service.RepoError(err, "user")
	}
	if err := s.hasher.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		return apperrors.NewValidation("current password is incorrect", map[string]string{"current_password": "is incorrect"})
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return apperrors.NewValidation("password too short", map[string]string{"new_password": err.Error()})
		}
		return apperrors.Internal(err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return service.RepoError(err, "user")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
