package delivery

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/carehome-backend/internal/domain"
	"github.com/heartmarshall/carehome-backend/internal/provider"
)

// ItemResult is the outcome of one queue row in a drain pass.
type ItemResult struct {
	ID     uuid.UUID                 `json:"id"`
	Status domain.NotificationStatus `json:"status"`
	Error  string                    `json:"error,omitempty"`
}

// Report summarises a drain pass.
type Report struct {
	Processed int          `json:"processed"`
	Sent      int          `json:"sent"`
	Failed    int          `json:"failed"`
	Results   []ItemResult `json:"results"`
}

func emptyReport() Report {
	return Report{Results: []ItemResult{}}
}

// Drain claims up to batchSize queued email rows, oldest first, and sends
// them one at a time with SendDelay between consecutive rows. Per-row
// failures are recorded on the row and do not stop the batch.
//
// Errors are returned only when the claim or the recipient lookup fails, or
// when the pass runs out of time. Claimed rows that were not attempted are
// released back to queued in those cases.
func (s *Service) Drain(ctx context.Context, batchSize int) (Report, error) {
	if !s.Configured() {
		return emptyReport(), fmt.Errorf("email provider: %w", domain.ErrNotConfigured)
	}

	if s.opts.MaxRunTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.MaxRunTime)
		defer cancel()
	}

	start := s.clock.Now()
	report, err := s.drain(ctx, s.ClampBatch(batchSize))
	s.metrics.DrainCompleted(s.clock.Since(start), err != nil)
	if err != nil {
		s.log.ErrorContext(ctx, "drain failed", slog.String("error", err.Error()))
		return report, err
	}

	s.log.InfoContext(ctx, "drain completed",
		slog.Int("processed", report.Processed),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *Service) drain(ctx context.Context, limit int) (Report, error) {
	s.requeueStale(ctx)

	items, err := s.queue.ClaimQueued(ctx, domain.ChannelEmail, limit)
	if err != nil {
		return emptyReport(), fmt.Errorf("claim queued notifications: %w", err)
	}
	if len(items) == 0 {
		return emptyReport(), nil
	}

	emails, err := s.emails.EmailsByIDs(ctx, recipientIDs(items))
	if err != nil {
		s.release(ctx, items)
		return emptyReport(), fmt.Errorf("resolve recipient emails: %w", err)
	}

	report := Report{Results: make([]ItemResult, 0, len(items))}
	for i, item := range items {
		if i > 0 {
			if err := s.wait(ctx); err != nil {
				s.release(ctx, items[i:])
				return report, fmt.Errorf("drain interrupted after %d of %d: %w", i, len(items), err)
			}
		}

		res := s.deliver(ctx, item, emails[item.RecipientID])
		report.Processed++
		if res.Status == domain.NotificationStatusSent {
			report.Sent++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, res)
		s.metrics.EmailDelivered(string(res.Status))
	}
	return report, nil
}

// deliver sends one row and records the result on it.
func (s *Service) deliver(ctx context.Context, item domain.NotificationQueueItem, to string) ItemResult {
	if to == "" {
		return s.fail(ctx, item, errRecipientEmailNotFound)
	}

	body := item.PayloadString("body")
	htmlBody := item.PayloadString("html")
	if htmlBody == "" {
		htmlBody = textToHTML(body)
	}

	_, err := s.sender.Send(ctx, provider.EmailMessage{
		From:    s.opts.From,
		To:      to,
		Subject: s.subject(item),
		Text:    body,
		HTML:    htmlBody,
	})
	if err != nil {
		return s.fail(ctx, item, err.Error())
	}

	mctx, cancel := detached(ctx)
	defer cancel()
	if err := s.queue.MarkSent(mctx, item.ID, s.clock.Now().UTC()); err != nil {
		s.logMarkError(ctx, "mark sent failed", item.ID, err)
	}
	return ItemResult{ID: item.ID, Status: domain.NotificationStatusSent}
}

func (s *Service) fail(ctx context.Context, item domain.NotificationQueueItem, msg string) ItemResult {
	s.log.WarnContext(ctx, "notification delivery failed",
		slog.String("notification_id", item.ID.String()),
		slog.String("recipient_id", item.RecipientID.String()),
		slog.String("error", msg),
	)
	mctx, cancel := detached(ctx)
	defer cancel()
	if err := s.queue.MarkFailed(mctx, item.ID, msg); err != nil {
		s.logMarkError(ctx, "mark failed failed", item.ID, err)
	}
	return ItemResult{ID: item.ID, Status: domain.NotificationStatusFailed, Error: msg}
}

// logMarkError reports a terminal update that did not apply. A conflict means
// another pass requeued or finished the row; its status is left untouched.
func (s *Service) logMarkError(ctx context.Context, msg string, id uuid.UUID, err error) {
	if errors.Is(err, domain.ErrConflict) {
		s.log.WarnContext(ctx, "notification claim lost",
			slog.String("notification_id", id.String()),
		)
		return
	}
	s.log.ErrorContext(ctx, msg,
		slog.String("notification_id", id.String()),
		slog.String("error", err.Error()),
	)
}

// subject picks the row subject, then the payload subject, then the default.
func (s *Service) subject(item domain.NotificationQueueItem) string {
	if subj := strings.TrimSpace(item.Subject); subj != "" {
		return subj
	}
	if subj := strings.TrimSpace(item.PayloadString("subject")); subj != "" {
		return subj
	}
	return s.opts.DefaultSubject
}

func (s *Service) wait(ctx context.Context) error {
	if s.opts.SendDelay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(s.opts.SendDelay):
		return nil
	}
}

func (s *Service) requeueStale(ctx context.Context) {
	if s.opts.StaleAfter <= 0 {
		return
	}
	cutoff := s.clock.Now().Add(-s.opts.StaleAfter)
	n, err := s.queue.RequeueStale(ctx, domain.ChannelEmail, cutoff)
	if err != nil {
		s.log.WarnContext(ctx, "requeue stale notifications failed", slog.String("error", err.Error()))
		return
	}
	if n > 0 {
		s.log.InfoContext(ctx, "requeued stale notifications",
			slog.Int("count", n),
			slog.Time("claimed_before", cutoff),
		)
	}
}

// release returns unattempted rows to queued. It runs even when ctx is done.
func (s *Service) release(ctx context.Context, items []domain.NotificationQueueItem) {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	rctx, cancel := detached(ctx)
	defer cancel()

	n, err := s.queue.Release(rctx, ids)
	if err != nil {
		s.log.ErrorContext(ctx, "release claimed notifications failed",
			slog.Int("count", len(ids)),
			slog.String("error", err.Error()),
		)
		return
	}
	s.log.InfoContext(ctx, "released claimed notifications", slog.Int("count", n))
}

// detached outlives ctx so a row's bookkeeping lands even when the pass was
// cancelled or timed out mid-send.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), bookkeepingTimeout)
}

func recipientIDs(items []domain.NotificationQueueItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.RecipientID]; ok {
			continue
		}
		seen[it.RecipientID] = struct{}{}
		ids = append(ids, it.RecipientID)
	}
	return ids
}

// textToHTML escapes text and turns newlines into line breaks.
func textToHTML(text string) string {
	escaped := html.EscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return strings.ReplaceAll(escaped, "\n", "<br>")
}
