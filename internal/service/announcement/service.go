package announcement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/userhub/admin-api/internal/access"
	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/internal/notifier"
	"github.com/userhub/admin-api/internal/repository"
	"github.com/userhub/admin-api/pkg/clock"
	apperrors "github.com/userhub/admin-api/pkg/errors"
)

// Servicer is the announcement business API.
type Servicer interface {
	Create(ctx context.Context, caller access.Caller, start, end time.Time, severityToken, message string) (*model.Announcement, error)
	Delete(ctx context.Context, caller access.Caller, id uuid.UUID) error
	List(ctx context.Context, caller access.Caller) ([]*model.Announcement, error)
	Current(ctx context.Context) (*model.Announcement, error)
}

type Service struct {
	repo     repository.AnnouncementRepository
	notifier notifier.Notifier
	admins   *access.AdminSet
	clock    clock.Clock
}

func NewService(repo repository.AnnouncementRepository, n notifier.Notifier, admins *access.AdminSet, clk clock.Clock) *Service {
	return &Service{
		repo:     repo,
		notifier: n,
		admins:   admins,
		clock:    clk,
	}
}

// Create validates and persists a new announcement. Checks run in a fixed
// order so a request failing several of them reports deterministically:
// permission, then period, then severity, then overlap.
func (s *Service) Create(ctx context.Context, caller access.Caller, start, end time.Time, severityToken, message string) (*model.Announcement, error) {
	if !s.admins.IsAdmin(caller) {
		return nil, apperrors.PermissionDenied("only admins may create announcements")
	}

	if !start.Before(end) {
		return nil, apperrors.InvalidPeriod("startDate must be strictly before endDate")
	}

	severity, err := model.ParseSeverity(severityToken)
	if err != nil {
		return nil, apperrors.InvalidSeverity(err.Error())
	}

	if message == "" {
		return nil, apperrors.BadRequest("message must not be empty", nil)
	}

	overlaps, err := s.repo.ExistsOverlapping(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to check announcement overlap: %w", err)
	}
	if overlaps {
		return nil, apperrors.Overlap("announcement window overlaps an existing announcement")
	}

	a := &model.Announcement{
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
		Message:   message,
		Severity:  severity,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		// Concurrent create can still conflict between the advisory check
		// above and the insert; the transactional recheck reports it here.
		if errors.Is(err, repository.ErrOverlap) {
			return nil, apperrors.Overlap("announcement window overlaps an existing announcement")
		}
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	return a, nil
}

// Delete removes an announcement. Deleting an unknown id succeeds silently.
// When the deleted announcement was active at the moment of deletion, a
// best-effort cancellation message is published; past or future windows are
// removed without a message.
func (s *Service) Delete(ctx context.Context, caller access.Caller, id uuid.UUID) error {
	if !s.admins.IsAdmin(caller) {
		return apperrors.PermissionDenied("only admins may delete announcements")
	}

	a, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get announcement: %w", err)
	}

	wasActive := a.ActiveAt(s.clock.Now())

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	if wasActive {
		s.notifier.PublishCancellation(ctx, a)
	}
	return nil
}

func (s *Service) List(ctx context.Context, caller access.Caller) ([]*model.Announcement, error) {
	if !s.admins.IsAdmin(caller) {
		return nil, apperrors.PermissionDenied("only admins may list announcements")
	}

	announcements, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return announcements, nil
}

// Current returns the active announcement, if any. It is deliberately
// unauthenticated: the result is a public banner.
func (s *Service) Current(ctx context.Context) (*model.Announcement, error) {
	a, err := s.repo.FindCurrent(ctx, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to find current announcement: %w", err)
	}
	return a, nil
}
