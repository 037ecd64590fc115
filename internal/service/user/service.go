package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/admin-api/internal/access"
	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/internal/repository"
	"github.com/userhub/admin-api/internal/service/identity"
	"github.com/userhub/admin-api/pkg/clock"
	apperrors "github.com/userhub/admin-api/pkg/errors"
	"github.com/userhub/admin-api/pkg/logger"
)

const bcryptCost = 12

type Servicer interface {
	CreateUser(ctx context.Context, caller access.Caller, req *model.CreateUserRequest) (*model.User, error)
	GetUser(ctx context.Context, caller access.Caller, id uuid.UUID) (*model.User, error)
	UpdateUser(ctx context.Context, caller access.Caller, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, caller access.Caller, id uuid.UUID) error
	ListUsers(ctx context.Context, caller access.Caller, filters *model.UserFilters) ([]*model.User, error)
	RegisterConnection(ctx context.Context, userID uuid.UUID, clientAddr string) (*model.Connection, error)
	CloseConnection(ctx context.Context, id uuid.UUID) error
	ListConnections(ctx context.Context, caller access.Caller, userID uuid.UUID) ([]*model.Connection, error)
}

type Service struct {
	repo        repository.UserRepository
	profileRepo repository.ProfileRepository
	connRepo    repository.ConnectionRepository
	identity    identity.Client
	admins      *access.AdminSet
	clock       clock.Clock
	logger      *logger.Logger
}

func NewService(
	repo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	connRepo repository.ConnectionRepository,
	identityClient identity.Client,
	admins *access.AdminSet,
	clk clock.Clock,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		profileRepo: profileRepo,
		connRepo:    connRepo,
		identity:    identityClient,
		admins:      admins,
		clock:       clk,
		logger:      log,
	}
}

func (s *Service) CreateUser(ctx context.Context, caller access.Caller, req *model.CreateUserRequest) (*model.User, error) {
	if !s.admins.IsAdmin(caller) {
		return nil, apperrors.PermissionDenied("only admins may create users")
	}

	if req.Profile != "" {
		if _, err := s.profileRepo.GetByName(ctx, req.Profile); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound("profile")
			}
			return nil, fmt.Errorf("failed to resolve profile: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Login:        req.Login,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Profile:      req.Profile,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.BadRequest(fmt.Sprintf("user %q already exists", req.Login), nil)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser returns the stored record, enriched from the external identity
// service when fields are missing there. Enrichment failures only log: the
// lookup is a fallible side channel, not part of the read path contract.
func (s *Service) GetUser(ctx context.Context, caller access.Caller, id uuid.UUID) (*model.User, error) {
	if !s.admins.IsAdmin(caller) && caller.ID != id.String() {
		return nil, apperrors.PermissionDenied("callers may only read their own record")
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if s.identity != nil && (user.Name == "" || user.Email == "") {
		info, err := s.identity.Lookup(ctx, user.Login)
		if err != nil {
			s.logger.Warn("identity enrichment failed",
				"login", user.Login, "error", err.Error())
		} else {
			if user.Name == "" {
				user.Name = info.Name
			}
			if user.Email == "" {
				user.Email = info.Email
			}
		}
	}

	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, caller access.Caller, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	if !s.admins.IsAdmin(caller) {
		return nil, apperrors.PermissionDenied("only admins may update users")
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Profile != nil {
		if *req.Profile != "" {
			if _, err := s.profileRepo.GetByName(ctx, *req.Profile); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, apperrors.NotFound("profile")
				}
				return nil, fmt.Errorf("failed to resolve profile: %w", err)
			}
		}
		user.Profile = *req.Profile
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, caller access.Caller, id uuid.UUID) error {
	if !s.admins.IsAdmin(caller) {
		return apperrors.PermissionDenied("only admins may delete users")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user")
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, caller access.Caller, filters *model.UserFilters) ([]*model.User, error) {
	if !s.admins.IsAdmin(caller) {
		return nil, apperrors.PermissionDenied("only admins may list users")
	}

	users, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// RegisterConnection records a new session for the user, enforcing the
// profile's concurrent-connection quota.
func (s *Service) RegisterConnection(ctx context.Context, userID uuid.UUID, clientAddr string) (*model.Connection, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Profile != "" {
		profile, err := s.profileRepo.GetByName(ctx, user.Profile)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to resolve profile: %w", err)
		}
		if profile != nil && profile.MaxConnections > 0 {
			count, err := s.connRepo.CountByUser(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("failed to count connections: %w", err)
			}
			if count >= profile.MaxConnections {
				return nil, apperrors.QuotaExceeded(
					fmt.Sprintf("connection quota of %d reached for profile %q", profile.MaxConnections, profile.Name))
			}
		}
	}

	now := s.clock.Now()
	conn := &model.Connection{
		UserID:        userID,
		ClientAddr:    clientAddr,
		EstablishedAt: now,
		LastActiveAt:  now,
	}
	if err := s.connRepo.Create(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to register connection: %w", err)
	}
	return conn, nil
}

func (s *Service) CloseConnection(ctx context.Context, id uuid.UUID) error {
	if err := s.connRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (s *Service) ListConnections(ctx context.Context, caller access.Caller, userID uuid.UUID) ([]*model.Connection, error) {
	if !s.admins.IsAdmin(caller) && caller.ID != userID.String() {
		return nil, apperrors.PermissionDenied("callers may only list their own connections")
	}

	conns, err := s.connRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return conns, nil
}
