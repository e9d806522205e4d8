package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"warbler/internal/model"
	"warbler/internal/observability"
)

const publishTimeout = 2 * time.Second

type ActivityPublisher interface {
	Publish(ctx context.Context, event model.ActivityEvent) error
}

// NoopActivityPublisher is used when no broker is configured.
type NoopActivityPublisher struct{}

func (NoopActivityPublisher) Publish(context.Context, model.ActivityEvent) error { return nil }

// ActivityRecorder counts committed state changes and forwards them to the
// publisher. Publish failures are logged and never reach the caller.
type ActivityRecorder struct {
	publisher ActivityPublisher
	logger    *slog.Logger
}

func NewActivityRecorder(publisher ActivityPublisher, logger *slog.Logger) *ActivityRecorder {
	if publisher == nil {
		publisher = NoopActivityPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityRecorder{publisher: publisher, logger: logger}
}

func (r *ActivityRecorder) Record(ctx context.Context, eventType model.ActivityType, actorID, subjectID uint) {
	if r == nil {
		return
	}
	observability.RecordActivity(string(eventType))

	event := model.ActivityEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		ActorID:    actorID,
		SubjectID:  subjectID,
		OccurredAt: time.Now().UTC(),
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := r.publisher.Publish(publishCtx, event); err != nil {
		observability.ActivityPublishErrors.Inc()
		r.logger.WarnContext(ctx, "publish activity event failed",
			slog.String("type", string(eventType)),
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
	}
}
