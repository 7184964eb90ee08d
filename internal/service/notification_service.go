package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/events"
)

// Notification channels.
const (
	ChannelEmail   = "email"
	ChannelWebhook = "webhook"
)

// Notification is one rendered message ready for delivery.
type Notification struct {
	EventID string
	Event   events.EventType
	Channel string
	Target  string
	Subject string
	Body    string
}

// NotificationSink accepts rendered notifications, typically a worker queue.
type NotificationSink interface {
	Enqueue(Notification) bool
}

// NotificationService turns domain events into email and webhook
// notifications. A channel with no configured target is skipped.
type NotificationService struct {
	dispatcher events.Dispatcher
	sink       NotificationSink
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sink NotificationSink, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{dispatcher: dispatcher, sink: sink, logger: logger, cfg: cfg}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketCommentAdded,
		events.EventUserRegistered,
	} {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *NotificationService) handle(_ context.Context, event events.Event) error {
	subject, body := Render(event)
	n.logger.Debug("notify", zap.String("event_type", string(event.Type)), zap.String("subject", subject))

	// status changes only go to the webhook; registrations only by email
	if event.Type != events.EventTicketStatusChanged {
		n.enqueue(ChannelEmail, strings.TrimSpace(n.cfg.EmailFrom), event, subject, body)
	}
	if event.Type != events.EventUserRegistered {
		n.enqueue(ChannelWebhook, strings.TrimSpace(n.cfg.WebhookURL), event, subject, body)
	}
	return nil
}

func (n *NotificationService) enqueue(channel, target string, event events.Event, subject, body string) {
	if target == "" || n.sink == nil {
		return
	}
	ok := n.sink.Enqueue(Notification{
		EventID: event.ID,
		Event:   event.Type,
		Channel: channel,
		Target:  target,
		Subject: subject,
		Body:    body,
	})
	if !ok {
		n.logger.Warn("notification dropped", zap.String("channel", channel), zap.String("event_id", event.ID))
	}
}

// Render builds the subject and body for an event.
func Render(event events.Event) (string, string) {
	switch p := event.Payload.(type) {
	case events.TicketCreatedPayload:
		return fmt.Sprintf("Ticket #%d opened: %s", event.TicketID, p.Title),
			fmt.Sprintf("%s opened a %s priority %s ticket.", actorOrSomeone(event.Actor), p.Priority, p.Category)
	case events.TicketStatusChangedPayload:
		return fmt.Sprintf("Ticket #%d is now %s", event.TicketID, p.NewStatus),
			fmt.Sprintf("%s moved the ticket from %s to %s.", actorOrSomeone(event.Actor), p.OldStatus, p.NewStatus)
	case events.TicketCommentAddedPayload:
		return fmt.Sprintf("New comment on ticket #%d", event.TicketID),
			fmt.Sprintf("%s wrote: %s", p.Author, p.TextPreview)
	case events.UserRegisteredPayload:
		return "Welcome to the help desk",
			fmt.Sprintf("Account %s registered with role %s.", p.Email, p.Role)
	}
	return string(event.Type), ""
}

func actorOrSomeone(actor string) string {
	if actor == "" {
		return "Someone"
	}
	return actor
}
