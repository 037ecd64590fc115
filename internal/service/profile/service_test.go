package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userhub/admin-api/internal/access"
	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/internal/repository"
	apperrors "github.com/userhub/admin-api/pkg/errors"
)

type fakeProfileRepo struct {
	profiles map[string]*model.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (r *fakeProfileRepo) Create(_ context.Context, p *model.Profile) error {
	if _, ok := r.profiles[p.Name]; ok {
		return repository.ErrDuplicate
	}
	r.profiles[p.Name] = p
	return nil
}

func (r *fakeProfileRepo) GetByName(_ context.Context, name string) (*model.Profile, error) {
	if p, ok := r.profiles[name]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProfileRepo) DeleteByName(_ context.Context, name string) error {
	if _, ok := r.profiles[name]; !ok {
		return repository.ErrNotFound
	}
	delete(r.profiles, name)
	return nil
}

func (r *fakeProfileRepo) List(_ context.Context) ([]*model.Profile, error) {
	var out []*model.Profile
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}

var adminCaller = access.Caller{ID: "admin-1", Roles: []string{"admin"}}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected an application error, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestProfileLifecycle(t *testing.T) {
	svc := NewService(newFakeProfileRepo(), access.NewAdminSet(nil))
	ctx := context.Background()

	p, err := svc.CreateProfile(ctx, adminCaller, &model.CreateProfileRequest{
		Name:           "standard",
		MaxConnections: 5,
		IdleTimeoutSec: 900,
		StorageQuotaMB: 1024,
	})
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, p.IdleTimeout())

	got, err := svc.GetProfile(ctx, adminCaller, "standard")
	require.NoError(t, err)
	assert.Equal(t, 5, got.MaxConnections)

	_, err = svc.CreateProfile(ctx, adminCaller, &model.CreateProfileRequest{Name: "standard"})
	assertCode(t, err, apperrors.ErrBadRequest)

	require.NoError(t, svc.DeleteProfile(ctx, adminCaller, "standard"))
	_, err = svc.GetProfile(ctx, adminCaller, "standard")
	assertCode(t, err, apperrors.ErrNotFound)
}

func TestProfileOperationsRequireAdmin(t *testing.T) {
	svc := NewService(newFakeProfileRepo(), access.NewAdminSet(nil))
	plain := access.Caller{ID: "user-1"}

	_, err := svc.CreateProfile(context.Background(), plain, &model.CreateProfileRequest{Name: "x"})
	assertCode(t, err, apperrors.ErrPermissionDenied)

	err = svc.DeleteProfile(context.Background(), plain, "x")
	assertCode(t, err, apperrors.ErrPermissionDenied)
}
