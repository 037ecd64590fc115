package group

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userhub/admin-api/internal/access"
	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/internal/repository"
	apperrors "github.com/userhub/admin-api/pkg/errors"
)

type fakeGroupRepo struct {
	groups  map[string]*model.Group
	members map[uuid.UUID][]uuid.UUID
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:  make(map[string]*model.Group),
		members: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *fakeGroupRepo) Create(_ context.Context, g *model.Group) error {
	if _, ok := r.groups[g.Name]; ok {
		return repository.ErrDuplicate
	}
	g.ID = uuid.New()
	r.groups[g.Name] = g
	return nil
}

func (r *fakeGroupRepo) GetByName(_ context.Context, name string) (*model.Group, error) {
	if g, ok := r.groups[name]; ok {
		return g, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeGroupRepo) DeleteByName(_ context.Context, name string) error {
	g, ok := r.groups[name]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.members, g.ID)
	delete(r.groups, name)
	return nil
}

func (r *fakeGroupRepo) List(_ context.Context) ([]*model.Group, error) {
	var out []*model.Group
	for _, g := range r.groups {
		out = append(out, g)
	}
	return out, nil
}

func (r *fakeGroupRepo) AddMember(_ context.Context, groupID, userID uuid.UUID) error {
	r.members[groupID] = append(r.members[groupID], userID)
	return nil
}

func (r *fakeGroupRepo) RemoveMember(_ context.Context, groupID, userID uuid.UUID) error {
	ids := r.members[groupID]
	for i, id := range ids {
		if id == userID {
			r.members[groupID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeGroupRepo) ListMembers(_ context.Context, groupID uuid.UUID) ([]*model.User, error) {
	var out []*model.User
	for _, id := range r.members[groupID] {
		out = append(out, &model.User{Base: model.Base{ID: id}})
	}
	return out, nil
}

var (
	adminCaller = access.Caller{ID: "admin-1", Roles: []string{"admin"}}
	plainCaller = access.Caller{ID: "user-1"}
)

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected an application error, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestGroupLifecycle(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := NewService(repo, access.NewAdminSet(nil))
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, adminCaller, "operators")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, g.ID)

	_, err = svc.CreateGroup(ctx, adminCaller, "operators")
	assertCode(t, err, apperrors.ErrBadRequest)

	userID := uuid.New()
	require.NoError(t, svc.AddMember(ctx, adminCaller, "operators", userID))

	members, err := svc.ListMembers(ctx, adminCaller, "operators")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, userID, members[0].ID)

	require.NoError(t, svc.RemoveMember(ctx, adminCaller, "operators", userID))
	members, err = svc.ListMembers(ctx, adminCaller, "operators")
	require.NoError(t, err)
	assert.Empty(t, members)

	require.NoError(t, svc.DeleteGroup(ctx, adminCaller, "operators"))
	err = svc.DeleteGroup(ctx, adminCaller, "operators")
	assertCode(t, err, apperrors.ErrNotFound)
}

func TestGroupOperationsRequireAdmin(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := NewService(repo, access.NewAdminSet(nil))
	ctx := context.Background()

	_, err := svc.CreateGroup(ctx, plainCaller, "operators")
	assertCode(t, err, apperrors.ErrPermissionDenied)

	err = svc.AddMember(ctx, plainCaller, "operators", uuid.New())
	assertCode(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.ListGroups(ctx, plainCaller)
	assertCode(t, err, apperrors.ErrPermissionDenied)
}

func TestMembershipOnUnknownGroup(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := NewService(repo, access.NewAdminSet(nil))

	err := svc.AddMember(context.Background(), adminCaller, "ghosts", uuid.New())
	assertCode(t, err, apperrors.ErrNotFound)
}
