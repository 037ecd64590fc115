package notifier

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/pkg/logger"
)

type fakeBroker struct {
	published []publishedMessage
	err       error
}

type publishedMessage struct {
	channel string
	message interface{}
}

func (b *fakeBroker) Publish(_ context.Context, channel string, message interface{}) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, publishedMessage{channel: channel, message: message})
	return nil
}

func (b *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, nil
}

func (b *fakeBroker) Close() error { return nil }

func testAnnouncement() *model.Announcement {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &model.Announcement{
		ID:        uuid.New(),
		StartDate: start,
		EndDate:   start.Add(2 * time.Hour),
		Message:   "maintenance at noon",
		Severity:  model.SeverityWarning,
	}
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func TestPublishActivation(t *testing.T) {
	broker := &fakeBroker{}
	n := New(broker, "announcements", testLogger(), nil)
	a := testAnnouncement()

	n.PublishActivation(context.Background(), a)

	require.Len(t, broker.published, 1)
	assert.Equal(t, "announcements", broker.published[0].channel)

	msg, ok := broker.published[0].message.(AnnouncementMessage)
	require.True(t, ok)
	assert.Equal(t, TypeAnnouncement, msg.Type)
	assert.Equal(t, a.ID.String(), msg.ID)
	assert.Equal(t, (2 * time.Hour).Milliseconds(), msg.DurationMs)
	assert.Equal(t, model.SeverityWarning, msg.Severity)
	assert.Equal(t, "maintenance at noon", msg.Payload)
}

func TestPublishCancellation(t *testing.T) {
	broker := &fakeBroker{}
	n := New(broker, "announcements", testLogger(), nil)

	n.PublishCancellation(context.Background(), testAnnouncement())

	require.Len(t, broker.published, 1)
	msg := broker.published[0].message.(AnnouncementMessage)
	assert.Equal(t, TypeCancelAnnouncement, msg.Type)
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	broker := &fakeBroker{err: errors.New("bus down")}
	n := New(broker, "announcements", testLogger(), nil)

	// Must not panic or surface the error: delivery is best effort.
	n.PublishActivation(context.Background(), testAnnouncement())
	n.PublishCancellation(context.Background(), testAnnouncement())
	assert.Empty(t, broker.published)
}
