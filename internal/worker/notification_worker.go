package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/service"
)

// DeliverFunc sends one notification.
type DeliverFunc func(context.Context, service.Notification) error

// NotificationWorker delivers notifications off the request path. Enqueue
// never blocks; a full queue drops the notification.
type NotificationWorker struct {
	queue   chan service.Notification
	deliver DeliverFunc
	logger  *zap.Logger

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewNotificationWorker builds a worker with a queue of size entries.
// A nil deliver logs each notification.
func NewNotificationWorker(size int, deliver DeliverFunc, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size <= 0 {
		size = 64
	}
	w := &NotificationWorker{
		queue:  make(chan service.Notification, size),
		logger: logger,
	}
	if deliver == nil {
		deliver = w.logDelivery
	}
	w.deliver = deliver
	return w
}

// Start launches the delivery goroutine.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for n := range w.queue {
			if err := w.deliver(ctx, n); err != nil {
				w.logger.Warn("notification delivery failed",
					zap.String("channel", n.Channel),
					zap.String("event_id", n.EventID),
					zap.Error(err))
			}
		}
	}()
}

// Enqueue implements service.NotificationSink.
func (w *NotificationWorker) Enqueue(n service.Notification) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return false
	}
	select {
	case w.queue <- n:
		return true
	default:
		return false
	}
}

// Stop drains the queue and waits for the delivery goroutine.
func (w *NotificationWorker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.queue)
	w.mu.Unlock()
	w.wg.Wait()
}

// logDelivery stands in for SMTP and HTTP delivery.
func (w *NotificationWorker) logDelivery(_ context.Context, n service.Notification) error {
	w.logger.Info("notification sent",
		zap.String("channel", n.Channel),
		zap.String("target", n.Target),
		zap.String("event_type", string(n.Event)),
		zap.String("subject", n.Subject))
	return nil
}
