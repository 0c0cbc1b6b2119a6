package workers

import (
	"context"
	"fmt"
	"log/slog"

	"courier/contract"
	"courier/domain/event"
	"courier/mailer"
)

// Ensure *NotifierWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*NotifierWorker)(nil)

// NotifierWorker drains the notification queue and hands each alert to the
// mail transport. Delivery is best-effort: a failed send is logged and the
// job is dropped, never retried by the core and never surfaced to the
// request that enqueued it.
type NotifierWorker struct {
	jobs   <-chan event.MessageSent
	mailer mailer.Mailer
	log    *slog.Logger
}

func NewNotifierWorker(jobs <-chan event.MessageSent, m mailer.Mailer, log *slog.Logger) *NotifierWorker {
	return &NotifierWorker{jobs: jobs, mailer: m, log: log}
}

func (w *NotifierWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case job, ok := <-w.jobs:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.deliver(ctx, job)
		}
	}
}

func (w *NotifierWorker) deliver(ctx context.Context, job event.MessageSent) {
	subject := fmt.Sprintf("New message from %s", job.SenderName)
	if err := w.mailer.Send(ctx, job.RecipientEmail, subject, job.Content); err != nil {
		w.log.Error("Notification delivery failed",
			"recipient", job.RecipientEmail,
			"thread", job.ThreadID,
			"err", err)
		return
	}
	w.log.Debug("Notification delivered",
		"recipient", job.RecipientEmail,
		"thread", job.ThreadID)
}
