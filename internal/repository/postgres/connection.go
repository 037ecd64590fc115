package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/internal/repository"
)

type connectionRepository struct {
	BaseRepository
}

func NewConnectionRepository(base BaseRepository) repository.ConnectionRepository {
	return &connectionRepository{base}
}

func (r *connectionRepository) Create(ctx context.Context, conn *model.Connection) error {
	query := `
		INSERT INTO connections (id, user_id, client_addr, established_at, last_active_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	conn.ID = uuid.New()
	if conn.EstablishedAt.IsZero() {
		conn.EstablishedAt = time.Now().UTC()
	}
	if conn.LastActiveAt.IsZero() {
		conn.LastActiveAt = conn.EstablishedAt
	}

	_, err := r.db.ExecContext(ctx, query,
		conn.ID,
		conn.UserID,
		conn.ClientAddr,
		conn.EstablishedAt,
		conn.LastActiveAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return nil
}

func (r *connectionRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM connections WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count connections: %w", err)
	}
	return count, nil
}

func (r *connectionRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE connections SET last_active_at = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to touch connection: %w", err)
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

func (r *connectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM connections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}

func (r *connectionRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM connections WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete user connections: %w", err)
	}
	return nil
}

func (r *connectionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Connection, error) {
	query := `SELECT * FROM connections WHERE user_id = $1 ORDER BY established_at`

	var conns []*model.Connection
	if err := r.db.SelectContext(ctx, &conns, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return conns, nil
}

// DeleteIdle joins through the owner's profile so each connection is judged
// against its own idle timeout. Profiles with a zero timeout never reap.
func (r *connectionRepository) DeleteIdle(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM connections c
		USING users u, profiles p
		WHERE c.user_id = u.id
		  AND u.profile = p.name
		  AND p.idle_timeout_sec > 0
		  AND c.last_active_at < $1::timestamptz - make_interval(secs => p.idle_timeout_sec)
	`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete idle connections: %w", err)
	}
	return result.RowsAffected()
}
