package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/internal/repository"
)

type groupRepository struct {
	BaseRepository
}

func NewGroupRepository(base BaseRepository) repository.GroupRepository {
	return &groupRepository{base}
}

func (r *groupRepository) Create(ctx context.Context, group *model.Group) error {
	query := `
		INSERT INTO groups (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	group.ID = uuid.New()
	group.CreatedAt = time.Now().UTC()
	group.UpdatedAt = group.CreatedAt

	_, err := r.db.ExecContext(ctx, query, group.ID, group.Name, group.CreatedAt, group.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (r *groupRepository) GetByName(ctx context.Context, name string) (*model.Group, error) {
	query := `SELECT * FROM groups WHERE name = $1`

	var group model.Group
	if err := r.db.GetContext(ctx, &group, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &group, nil
}

func (r *groupRepository) DeleteByName(ctx context.Context, name string) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var id uuid.UUID
		err := tx.GetContext(ctx, &id, `SELECT id FROM groups WHERE name = $1`, name)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to resolve group: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM user_groups WHERE group_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear group members: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		return nil
	})
}

func (r *groupRepository) List(ctx context.Context) ([]*model.Group, error) {
	query := `SELECT * FROM groups ORDER BY name`

	var groups []*model.Group
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (r *groupRepository) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	query := `
		INSERT INTO user_groups (group_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, groupID, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	query := `DELETE FROM user_groups WHERE group_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	return nil
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]*model.User, error) {
	query := `
		SELECT u.* FROM users u
		JOIN user_groups ug ON ug.user_id = u.id
		WHERE ug.group_id = $1
		ORDER BY u.login
	`
	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	return users, nil
}
