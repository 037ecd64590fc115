package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/userhub/admin-api/internal/model"
)

var (
	// ErrNotFound is returned by lookups that matched no row.
	ErrNotFound = errors.New("record not found")
	// ErrOverlap is returned by AnnouncementRepository.Create when the
	// transactional recheck finds a conflicting window.
	ErrOverlap = errors.New("announcement window overlaps an existing one")
	// ErrDuplicate is returned on unique-constraint conflicts.
	ErrDuplicate = errors.New("record already exists")
)

// AnnouncementRepository owns announcement persistence, including the
// overlap check that guards the non-overlap invariant.
type AnnouncementRepository interface {
	// Create persists a new announcement. The overlap check and the insert
	// run in one serializable transaction, so two concurrent creates with
	// conflicting windows cannot both commit.
	Create(ctx context.Context, a *model.Announcement) error
	// ExistsOverlapping reports whether any stored [start_date, end_date)
	// window intersects [start, end).
	ExistsOverlapping(ctx context.Context, start, end time.Time) (bool, error)
	List(ctx context.Context) ([]*model.Announcement, error)
	// FindCurrent returns the announcement whose window contains now, or
	// nil when there is none.
	FindCurrent(ctx context.Context, now time.Time) (*model.Announcement, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Announcement, error)
	MarkNotified(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes every row with end_date < now and returns the
	// number of rows deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	// Delete is idempotent; deleting an unknown id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
}

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByName(ctx context.Context, name string) (*model.Group, error)
	DeleteByName(ctx context.Context, name string) error
	List(ctx context.Context) ([]*model.Group, error)
	AddMember(ctx context.Context, groupID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]*model.User, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByName(ctx context.Context, name string) (*model.Profile, error)
	DeleteByName(ctx context.Context, name string) error
	List(ctx context.Context) ([]*model.Profile, error)
}

type ConnectionRepository interface {
	Create(ctx context.Context, conn *model.Connection) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Connection, error)
	// DeleteIdle removes connections whose last activity predates the
	// per-profile idle timeout and returns the number removed.
	DeleteIdle(ctx context.Context, now time.Time) (int64, error)
}
