package services

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/abrezinsky/hackjudge/internal/logger"
	"github.com/abrezinsky/hackjudge/internal/metrics"
	"github.com/abrezinsky/hackjudge/pkg/mailer"
)

// NotificationFailure records one undelivered message
type NotificationFailure struct {
	Recipient string `json:"recipient"`
	Error     string `json:"error"`
}

// NotificationSummary reports the outcome of a batch send
type NotificationSummary struct {
	Total    int                   `json:"total"`
	Success  int                   `json:"success"`
	Failed   int                   `json:"failed"`
	Failures []NotificationFailure `json:"failures"`
}

// addFailure counts a message that never reached the sender
func (s *NotificationSummary) addFailure(recipient, reason string) {
	s.Total++
	s.Failed++
	s.Failures = append(s.Failures, NotificationFailure{Recipient: recipient, Error: reason})
}

// merge folds other into s
func (s *NotificationSummary) merge(other NotificationSummary) {
	s.Total += other.Total
	s.Success += other.Success
	s.Failed += other.Failed
	s.Failures = append(s.Failures, other.Failures...)
}

// Notifier delivers email through a mailer.Sender with bounded concurrency
type Notifier struct {
	log     logger.Logger
	sender  mailer.Sender
	limit   int
	metrics metrics.Recorder
	wg      sync.WaitGroup
}

// NewNotifier creates a Notifier sending at most limit messages at once
func NewNotifier(log logger.Logger, sender mailer.Sender, limit int, rec metrics.Recorder) *Notifier {
	if limit < 1 {
		limit = 1
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Notifier{log: log, sender: sender, limit: limit, metrics: rec}
}

// SendAll delivers every message and reports per-recipient failures. It
// never returns an error; a failed message does not stop the others.
func (n *Notifier) SendAll(ctx context.Context, messages []mailer.Message) NotificationSummary {
	errs := make([]error, len(messages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.limit)
	for i, msg := range messages {
		g.Go(func() error {
			errs[i] = n.sender.Send(gctx, msg)
			n.metrics.EmailSent(errs[i] == nil)
			return nil
		})
	}
	_ = g.Wait() // workers never fail the group

	summary := NotificationSummary{Total: len(messages), Failures: []NotificationFailure{}}
	for i, err := range errs {
		if err == nil {
			summary.Success++
			continue
		}
		summary.Failed++
		summary.Failures = append(summary.Failures, NotificationFailure{Recipient: messages[i].To, Error: err.Error()})
		n.log.Warn("Email delivery failed", "to", messages[i].To, "subject", messages[i].Subject, "error", err)
	}

	n.log.Info("Email batch sent", "total", summary.Total, "success", summary.Success, "failed", summary.Failed)
	return summary
}

// Send delivers msg in the background; failures are only logged. The send
// outlives the caller's request.
func (n *Notifier) Send(ctx context.Context, msg mailer.Message) {
	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		err := n.sender.Send(ctx, msg)
		n.metrics.EmailSent(err == nil)
		if err != nil {
			n.log.Warn("Email delivery failed", "to", msg.To, "subject", msg.Subject, "error", err)
			return
		}
		n.log.Debug("Email sent", "to", msg.To, "subject", msg.Subject)
	}()
}

// Wait blocks until background sends started by Send have finished
func (n *Notifier) Wait() {
	n.wg.Wait()
}
