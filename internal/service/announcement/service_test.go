package announcement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userhub/admin-api/internal/access"
	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/internal/repository"
	"github.com/userhub/admin-api/pkg/clock"
	apperrors "github.com/userhub/admin-api/pkg/errors"
)

// fakeAnnouncementRepo keeps announcements in memory and enforces the same
// half-open overlap predicate the SQL store does.
type fakeAnnouncementRepo struct {
	announcements []*model.Announcement
	failCreate    error
}

func (r *fakeAnnouncementRepo) Create(_ context.Context, a *model.Announcement) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	for _, existing := range r.announcements {
		if existing.StartDate.Before(a.EndDate) && a.StartDate.Before(existing.EndDate) {
			return repository.ErrOverlap
		}
	}
	a.ID = uuid.New()
	r.announcements = append(r.announcements, a)
	return nil
}

func (r *fakeAnnouncementRepo) ExistsOverlapping(_ context.Context, start, end time.Time) (bool, error) {
	for _, existing := range r.announcements {
		if existing.StartDate.Before(end) && start.Before(existing.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAnnouncementRepo) List(_ context.Context) ([]*model.Announcement, error) {
	return r.announcements, nil
}

func (r *fakeAnnouncementRepo) FindCurrent(_ context.Context, now time.Time) (*model.Announcement, error) {
	for _, a := range r.announcements {
		if a.ActiveAt(now) {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAnnouncementRepo) Get(_ context.Context, id uuid.UUID) (*model.Announcement, error) {
	for _, a := range r.announcements {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAnnouncementRepo) MarkNotified(_ context.Context, id uuid.UUID) error {
	for _, a := range r.announcements {
		if a.ID == id {
			a.Notified = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeAnnouncementRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var kept []*model.Announcement
	var deleted int64
	for _, a := range r.announcements {
		if a.ExpiredAt(now) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	r.announcements = kept
	return deleted, nil
}

func (r *fakeAnnouncementRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, a := range r.announcements {
		if a.ID == id {
			r.announcements = append(r.announcements[:i], r.announcements[i+1:]...)
			return nil
		}
	}
	return nil
}

// recordingNotifier captures published messages for assertions.
type recordingNotifier struct {
	activations   []*model.Announcement
	cancellations []*model.Announcement
}

func (n *recordingNotifier) PublishActivation(_ context.Context, a *model.Announcement) {
	n.activations = append(n.activations, a)
}

func (n *recordingNotifier) PublishCancellation(_ context.Context, a *model.Announcement) {
	n.cancellations = append(n.cancellations, a)
}

var (
	adminCaller = access.Caller{ID: "admin-1", Roles: []string{"admin"}}
	plainCaller = access.Caller{ID: "user-1"}
)

func newTestService(now time.Time) (*Service, *fakeAnnouncementRepo, *recordingNotifier, *clock.Fake) {
	repo := &fakeAnnouncementRepo{}
	n := &recordingNotifier{}
	clk := clock.NewFake(now)
	svc := NewService(repo, n, access.NewAdminSet(nil), clk)
	return svc, repo, n, clk
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected an application error, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestCreateAnnouncement(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, repo, _, _ := newTestService(now)

	a, err := svc.Create(context.Background(), adminCaller, now, now.Add(48*time.Hour), "warning", "maintenance window")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, model.SeverityWarning, a.Severity)
	assert.Len(t, repo.announcements, 1)
}

func TestCreateRequiresAdmin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, repo, _, _ := newTestService(now)

	// A request that also carries an invalid period must still report the
	// permission failure: checks run in a fixed order.
	_, err := svc.Create(context.Background(), plainCaller, now.Add(time.Hour), now, "info", "hello")
	assertCode(t, err, apperrors.ErrPermissionDenied)
	assert.Empty(t, repo.announcements)
}

func TestCreateRejectsInvalidPeriod(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _, _ := newTestService(now)

	_, err := svc.Create(context.Background(), adminCaller, now.Add(time.Hour), now, "info", "hello")
	assertCode(t, err, apperrors.ErrInvalidPeriod)

	// Zero-length windows are invalid too: [t, t) contains nothing.
	_, err = svc.Create(context.Background(), adminCaller, now, now, "info", "hello")
	assertCode(t, err, apperrors.ErrInvalidPeriod)
}

func TestCreateRejectsUnknownSeverity(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _, _ := newTestService(now)

	_, err := svc.Create(context.Background(), adminCaller, now, now.Add(time.Hour), "CATASTROPHIC", "hello")
	assertCode(t, err, apperrors.ErrInvalidSeverity)
}

func TestCreateRejectsOverlap(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, repo, _, _ := newTestService(now)

	_, err := svc.Create(context.Background(), adminCaller, now, now.Add(48*time.Hour), "info", "first")
	require.NoError(t, err)

	// Straddles the existing window from the left.
	_, err = svc.Create(context.Background(), adminCaller, now.Add(-24*time.Hour), now.Add(72*time.Hour), "error", "second")
	assertCode(t, err, apperrors.ErrOverlap)
	assert.Len(t, repo.announcements, 1)

	// Fully contained.
	_, err = svc.Create(context.Background(), adminCaller, now.Add(time.Hour), now.Add(2*time.Hour), "info", "third")
	assertCode(t, err, apperrors.ErrOverlap)
	assert.Len(t, repo.announcements, 1)
}

func TestCreateAllowsAdjacentWindows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, repo, _, _ := newTestService(now)

	end := now.Add(24 * time.Hour)
	_, err := svc.Create(context.Background(), adminCaller, now, end, "info", "first")
	require.NoError(t, err)

	// A window starting exactly where the previous one ends does not
	// overlap under half-open semantics.
	_, err = svc.Create(context.Background(), adminCaller, end, end.Add(24*time.Hour), "info", "second")
	require.NoError(t, err)
	assert.Len(t, repo.announcements, 2)
}

func TestCreateMapsConcurrentConflict(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, repo, _, _ := newTestService(now)
	repo.failCreate = repository.ErrOverlap

	// The advisory check passes on an empty store, but the transactional
	// recheck inside Create reports a conflicting concurrent insert.
	_, err := svc.Create(context.Background(), adminCaller, now, now.Add(time.Hour), "info", "racy")
	assertCode(t, err, apperrors.ErrOverlap)
}

func TestDeleteActiveAnnouncementPublishesCancellation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, notif, _ := newTestService(now)

	a, err := svc.Create(context.Background(), adminCaller, now.Add(-time.Hour), now.Add(time.Hour), "error", "incident")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), adminCaller, a.ID))
	require.Len(t, notif.cancellations, 1)
	assert.Equal(t, a.ID, notif.cancellations[0].ID)
}

func TestDeleteFutureAnnouncementIsSilent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, repo, notif, _ := newTestService(now)

	a, err := svc.Create(context.Background(), adminCaller, now.Add(24*time.Hour), now.Add(48*time.Hour), "info", "upcoming")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), adminCaller, a.ID))
	assert.Empty(t, notif.cancellations)
	assert.Empty(t, repo.announcements)
}

func TestDeleteUnknownIDSucceeds(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, notif, _ := newTestService(now)

	assert.NoError(t, svc.Delete(context.Background(), adminCaller, uuid.New()))
	assert.Empty(t, notif.cancellations)
}

func TestDeleteIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, notif, _ := newTestService(now)

	a, err := svc.Create(context.Background(), adminCaller, now.Add(-time.Hour), now.Add(time.Hour), "info", "banner")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), adminCaller, a.ID))
	require.NoError(t, svc.Delete(context.Background(), adminCaller, a.ID))

	// Only the first delete saw an active record; the repeat found nothing
	// and published nothing.
	assert.Len(t, notif.cancellations, 1)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, repo, _, _ := newTestService(now)

	a, err := svc.Create(context.Background(), adminCaller, now, now.Add(time.Hour), "info", "banner")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), plainCaller, a.ID)
	assertCode(t, err, apperrors.ErrPermissionDenied)
	assert.Len(t, repo.announcements, 1)
}

func TestListRequiresAdmin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _, _ := newTestService(now)

	_, err := svc.List(context.Background(), plainCaller)
	assertCode(t, err, apperrors.ErrPermissionDenied)

	list, err := svc.List(context.Background(), adminCaller)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCurrentFollowsTheClock(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _, clk := newTestService(now)

	a, err := svc.Create(context.Background(), adminCaller, now.Add(time.Hour), now.Add(2*time.Hour), "warning", "soon")
	require.NoError(t, err)

	current, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, current, "window has not opened yet")

	clk.Advance(90 * time.Minute)
	current, err = svc.Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, a.ID, current.ID)

	// End boundary is exclusive.
	clk.Set(a.EndDate)
	current, err = svc.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestAdminSetGrantsAccessWithoutRole(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeAnnouncementRepo{}
	svc := NewService(repo, &recordingNotifier{}, access.NewAdminSet([]string{"ops-1"}), clock.NewFake(now))

	_, err := svc.Create(context.Background(), access.Caller{ID: "ops-1"}, now, now.Add(time.Hour), "info", "from the ops set")
	require.NoError(t, err)
}
