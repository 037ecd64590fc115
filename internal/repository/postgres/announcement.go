package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/internal/repository"
)

type announcementRepository struct {
	BaseRepository
}

func NewAnnouncementRepository(base BaseRepository) repository.AnnouncementRepository {
	return &announcementRepository{base}
}

// overlapQuery uses half-open interval semantics: two windows conflict iff
// each starts before the other ends. Back-to-back windows where one ends
// exactly when the next starts do not conflict.
const overlapQuery = `
	SELECT EXISTS (
		SELECT 1 FROM announcements
		WHERE start_date < $2 AND end_date > $1
	)
`

func (r *announcementRepository) Create(ctx context.Context, a *model.Announcement) error {
	a.ID = uuid.New()
	a.Notified = false
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt

	// The overlap recheck and the insert share one serializable
	// transaction so concurrent creates cannot both pass the check.
	return r.WithSerializableTx(ctx, func(tx *sqlx.Tx) error {
		var overlaps bool
		if err := tx.GetContext(ctx, &overlaps, overlapQuery, a.StartDate, a.EndDate); err != nil {
			return fmt.Errorf("failed to check overlap: %w", err)
		}
		if overlaps {
			return repository.ErrOverlap
		}

		query := `
			INSERT INTO announcements (
				id, start_date, end_date, message, severity,
				notified, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.ExecContext(ctx, query,
			a.ID,
			a.StartDate,
			a.EndDate,
			a.Message,
			a.Severity,
			a.Notified,
			a.CreatedAt,
			a.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert announcement: %w", err)
		}
		return nil
	})
}

func (r *announcementRepository) ExistsOverlapping(ctx context.Context, start, end time.Time) (bool, error) {
	var overlaps bool
	if err := r.db.GetContext(ctx, &overlaps, overlapQuery, start, end); err != nil {
		return false, fmt.Errorf("failed to check overlap: %w", err)
	}
	return overlaps, nil
}

func (r *announcementRepository) List(ctx context.Context) ([]*model.Announcement, error) {
	query := `SELECT * FROM announcements ORDER BY start_date`

	var announcements []*model.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query); err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return announcements, nil
}

func (r *announcementRepository) FindCurrent(ctx context.Context, now time.Time) (*model.Announcement, error) {
	query := `
		SELECT * FROM announcements
		WHERE start_date <= $1 AND end_date > $1
		ORDER BY start_date
		LIMIT 1
	`

	var a model.Announcement
	if err := r.db.GetContext(ctx, &a, query, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find current announcement: %w", err)
	}
	return &a, nil
}

func (r *announcementRepository) Get(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	query := `SELECT * FROM announcements WHERE id = $1`

	var a model.Announcement
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}
	return &a, nil
}

func (r *announcementRepository) MarkNotified(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE announcements
		SET notified = TRUE, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark announcement notified: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *announcementRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM announcements WHERE end_date < $1`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired announcements: %w", err)
	}

	return result.RowsAffected()
}

func (r *announcementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM announcements WHERE id = $1`

	// Zero rows affected is fine: delete is idempotent.
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	return nil
}
