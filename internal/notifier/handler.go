package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskvault/taskvault-api/internal/events"
)

// EventHandler subscribes to user lifecycle events and turns them into
// queued email notifications.
type EventHandler struct {
	runner *Runner
	logger *slog.Logger
}

// NewEventHandler creates an EventHandler submitting to the given runner.
func NewEventHandler(runner *Runner, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		runner: runner,
		logger: logger.With("component", "notifier_event_handler"),
	}
}

var _ events.Handler = (*EventHandler)(nil)

// HandleEvent implements events.Handler. Unknown event types are ignored.
func (h *EventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	switch event.Type {
	case events.TypeUserRegistered, events.TypeUserDeleted:
	default:
		return nil
	}

	var payload events.UserEventPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to decode user event payload",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type)
		return fmt.Errorf("failed to decode user event payload: %w", err)
	}

	var msg Message
	switch event.Type {
	case events.TypeUserRegistered:
		msg = Message{
			ToName:    payload.Name,
			ToAddress: payload.Email,
			Subject:   "Thank you for joining us",
			Body: fmt.Sprintf(
				"Hello, %s. Welcome on board. You can share your app experience here.",
				payload.Name,
			),
		}
	case events.TypeUserDeleted:
		msg = Message{
			ToName:    payload.Name,
			ToAddress: payload.Email,
			Subject:   fmt.Sprintf("Goodbye, %s", payload.Name),
			Body: fmt.Sprintf(
				"Goodbye, %s. Tell us how we can improve, so we can serve you better next time.",
				payload.Name,
			),
		}
	}

	h.runner.Submit(msg)
	return nil
}
