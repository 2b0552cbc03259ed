package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/bcardz/bcard-backend/pkg/auth"
	"github.com/bcardz/bcard-backend/pkg/config"
	"github.com/bcardz/bcard-backend/pkg/db/models"
	pkgerrors "github.com/bcardz/bcard-backend/pkg/errors"
	"github.com/bcardz/bcard-backend/pkg/pagination"
	"github.com/bcardz/bcard-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid email or password"
	accountLockedMessage      = "account temporarily locked due to failed login attempts"
)

// Service defines the behavior needed by the users controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisteredUserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	List(ctx context.Context, page pagination.Params) ([]UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error)
	SetBusiness(ctx context.Context, id uuid.UUID, isBusiness bool) (*UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) (*UserDTO, error)
}

type repository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, page pagination.Params) ([]models.User, error)
	Save(ctx context.Context, user *models.User) error
	SetBusiness(ctx context.Context, id uuid.UUID, isBusiness bool) error
	UpdateLoginCounters(ctx context.Context, id uuid.UUID, attempts int, lockUntil *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo        repository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	lockoutCfg  config.LockoutConfig
	now         func() time.Time
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo           repository
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	LockoutConfig  config.LockoutConfig
	Now            func() time.Time
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        params.Repo,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		lockoutCfg:  params.LockoutConfig,
		now:         now,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisteredUserDTO, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Name:         req.name(),
		Phone:        req.Phone,
		Email:        email,
		PasswordHash: hash,
		Image:        req.image(),
		Address:      req.address(),
		IsBusiness:   req.IsBusiness,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return FromModelRegistered(user), nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	now := s.now().UTC()
	if user.LockUntil != nil && user.LockUntil.After(now) {
		return nil, pkgerrors.New(pkgerrors.CodeAccountLocked, accountLockedMessage)
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil && !errors.Is(err, security.ErrInvalidHash) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		attempts := user.FailedAttempts + 1
		var lockUntil *time.Time
		if attempts >= s.lockoutCfg.MaxFailedAttempts {
			until := now.Add(s.lockoutCfg.Duration)
			lockUntil = &until
		}
		if err := s.repo.UpdateLoginCounters(ctx, user.ID, attempts, lockUntil); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record failed login")
		}
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	if user.FailedAttempts != 0 || user.LockUntil != nil {
		if err := s.repo.UpdateLoginCounters(ctx, user.ID, 0, nil); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reset login counters")
		}
	}

	token, err := pkgauth.MintToken(s.jwtCfg, now, pkgauth.TokenPayload{
		UserID:     user.ID,
		IsAdmin:    user.IsAdmin,
		IsBusiness: user.IsBusiness,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{Token: token}, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) ([]UserDTO, error) {
	records, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	dtos := make([]UserDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, *FromModel(&records[i]))
	}
	return dtos, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if email != user.Email {
		if other, err := s.repo.FindByEmail(ctx, email); err == nil && other.ID != user.ID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup email")
		}
	}

	user.Name = req.name()
	user.Phone = req.Phone
	user.Email = email
	user.Image = req.image()
	user.Address = req.address()

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}
	return FromModel(user), nil
}

func (s *service) SetBusiness(ctx context.Context, id uuid.UUID, isBusiness bool) (*UserDTO, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetBusiness(ctx, id, isBusiness); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set business flag")
	}
	user.IsBusiness = isBusiness
	return FromModel(user), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return FromModel(user), nil
}

func (s *service) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
