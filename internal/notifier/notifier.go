package notifier

import (
	"context"

	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/pkg/logger"
	"github.com/userhub/admin-api/pkg/messaging"
	"github.com/userhub/admin-api/pkg/metrics"
)

const (
	TypeAnnouncement       = "announcement"
	TypeCancelAnnouncement = "cancel-announcement"
)

// AnnouncementMessage is the wire schema consumed by downstream services.
// Field names are a compatibility boundary; do not rename.
type AnnouncementMessage struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	DurationMs int64          `json:"durationMs"`
	Severity   model.Severity `json:"severity"`
	Payload    string         `json:"payload"`
}

// Notifier publishes announcement lifecycle messages to the bus.
// Delivery is best effort: failures are logged and swallowed, never
// surfaced to the caller, so a down bus cannot fail an API call or
// abort a store mutation.
type Notifier interface {
	PublishActivation(ctx context.Context, a *model.Announcement)
	PublishCancellation(ctx context.Context, a *model.Announcement)
}

type busNotifier struct {
	broker  messaging.Broker
	channel string
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func New(broker messaging.Broker, channel string, log *logger.Logger, m *metrics.Metrics) Notifier {
	return &busNotifier{
		broker:  broker,
		channel: channel,
		logger:  log,
		metrics: m,
	}
}

func (n *busNotifier) PublishActivation(ctx context.Context, a *model.Announcement) {
	n.publish(ctx, TypeAnnouncement, a)
}

func (n *busNotifier) PublishCancellation(ctx context.Context, a *model.Announcement) {
	n.publish(ctx, TypeCancelAnnouncement, a)
}

func (n *busNotifier) publish(ctx context.Context, msgType string, a *model.Announcement) {
	msg := AnnouncementMessage{
		Type:       msgType,
		ID:         a.ID.String(),
		DurationMs: a.Duration().Milliseconds(),
		Severity:   a.Severity,
		Payload:    a.Message,
	}

	if err := n.broker.Publish(ctx, n.channel, msg); err != nil {
		if n.metrics != nil {
			n.metrics.NotificationsFailed.WithLabelValues(msgType).Inc()
		}
		n.logger.Error(err, "failed to publish announcement message",
			"type", msgType,
			"announcement_id", a.ID.String())
		return
	}

	if n.metrics != nil {
		n.metrics.NotificationsPublished.WithLabelValues(msgType).Inc()
	}
	n.logger.Info("published announcement message",
		"type", msgType,
		"announcement_id", a.ID.String(),
		"severity", string(a.Severity))
}
