package automation

import (
	"context"
	"errors"
	"fmt"

	"mail-calendar-automation/internal/ledger"
	"mail-calendar-automation/internal/model"
	pkgLog "mail-calendar-automation/pkg/log"
)

// ProcessInbox handles confirmations first so that a booking and its
// cancellation arriving in the same poll end with the event removed.
func (uc *usecase) ProcessInbox(ctx context.Context) (InboxOutput, error) {
	out := InboxOutput{Confirmations: []Outcome{}, Cancellations: []Outcome{}}
	if uc.mailbox == nil {
		return out, ErrNoMailbox
	}

	var errs []error

	confirmations, seen, err := uc.processQuery(ctx, model.KindConfirmation, uc.opt.ConfirmationQuery)
	out.Confirmations = append(out.Confirmations, confirmations...)
	out.AlreadySeen += seen
	if err != nil {
		errs = append(errs, err)
	}

	cancellations, seen, err := uc.processQuery(ctx, model.KindCancellation, uc.opt.CancellationQuery)
	out.Cancellations = append(out.Cancellations, cancellations...)
	out.AlreadySeen += seen
	if err != nil {
		errs = append(errs, err)
	}

	uc.l.Infof(ctx, "Inbox processed: %d confirmation(s), %d cancellation(s), %d already seen",
		len(out.Confirmations), len(out.Cancellations), out.AlreadySeen)
	return out, errors.Join(errs...)
}

func (uc *usecase) processQuery(ctx context.Context, kind model.MessageKind, query string) ([]Outcome, int, error) {
	if query == "" {
		uc.l.Warnf(ctx, "No %s query configured, skipping", kind)
		return nil, 0, nil
	}

	ids, err := uc.mailbox.ListMessageIDs(ctx, query, uc.opt.MaxResults)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s messages: %w", kind, err)
	}
	uc.l.Infof(ctx, "Found %d %s message(s)", len(ids), kind)

	outcomes := make([]Outcome, 0, len(ids))
	seen := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return outcomes, seen, err
		}
		if uc.processed.Contains(cacheKey(kind, id)) {
			seen++
			continue
		}

		msgCtx := pkgLog.NewTraceContext(ctx)
		msg, err := uc.mailbox.GetMessage(msgCtx, id)
		if err != nil {
			uc.l.Errorf(msgCtx, "Failed to fetch message %s: %v", id, err)
			continue
		}

		var o Outcome
		if kind == model.KindCancellation {
			o, err = uc.ProcessCancellation(msgCtx, msg)
		} else {
			o, err = uc.ProcessConfirmation(msgCtx, msg)
		}
		if err != nil {
			uc.l.Warnf(msgCtx, "Message %s (%s): %v", id, kind, err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, seen, nil
}

// ProcessConfirmation applies the create-or-skip policy.
func (uc *usecase) ProcessConfirmation(ctx context.Context, msg model.Message) (Outcome, error) {
	o := Outcome{MessageID: msg.ID, Subject: msg.Subject, Kind: model.KindConfirmation, DryRun: uc.opt.DryRun}
	uc.l.Infof(ctx, "Processing confirmation %s: %q", msg.ID, msg.Subject)

	d, err := uc.extractor.ExtractEvent(ctx, msg)
	if err != nil {
		// Left unread and out of the ledger; the next poll tries again.
		o.Error = err.Error()
		o.Retry = true
		return o, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	o.Descriptor = &d

	res, err := uc.correlator.FindDuplicate(ctx, d)
	if err != nil {
		o.Action = ledger.ActionFailed
		o.Error = err.Error()
		o.Retry = true
		uc.record(ctx, msg, o)
		return o, fmt.Errorf("%w: %v", ErrCorrelation, err)
	}

	if res.Found() {
		uc.l.Infof(ctx, "Duplicate of %q (score %.2f), not creating", res.Event.Title, res.Score)
		o.Action = ledger.ActionSkipped
		o.Event = res.Event
		o.Score = res.Score
		uc.record(ctx, msg, o)
		uc.markRead(ctx, &o)
		uc.remember(o)
		return o, nil
	}

	o.Action = ledger.ActionCreated
	if uc.opt.DryRun {
		uc.l.Infof(ctx, "Dry run: would create %q at %s", d.Title, d.Start)
		uc.remember(o)
		return o, nil
	}

	ev, err := uc.calendar.InsertEvent(ctx, d)
	if err != nil {
		o.Action = ledger.ActionFailed
		o.Error = err.Error()
		o.Retry = true
		uc.record(ctx, msg, o)
		return o, fmt.Errorf("%w: %v", ErrInsert, err)
	}

	uc.l.Infof(ctx, "Created event %s %q", ev.ID, ev.Title)
	o.Event = &ev
	uc.record(ctx, msg, o)
	uc.markRead(ctx, &o)
	uc.remember(o)
	return o, nil
}

// ProcessCancellation applies the find-and-delete policy.
func (uc *usecase) ProcessCancellation(ctx context.Context, msg model.Message) (Outcome, error) {
	o := Outcome{MessageID: msg.ID, Subject: msg.Subject, Kind: model.KindCancellation, DryRun: uc.opt.DryRun}
	uc.l.Infof(ctx, "Processing cancellation %s: %q", msg.ID, msg.Subject)

	d, err := uc.extractor.ExtractCancellation(ctx, msg)
	if err != nil {
		o.Action = ledger.ActionCancellationError
		o.Error = err.Error()
		uc.record(ctx, msg, o)
		uc.markRead(ctx, &o)
		uc.remember(o)
		return o, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	o.Descriptor = &d

	res, err := uc.correlator.FindCancellationTarget(ctx, d)
	if err != nil {
		o.Action = ledger.ActionCancellationError
		o.Error = err.Error()
		o.Retry = true
		uc.record(ctx, msg, o)
		return o, fmt.Errorf("%w: %v", ErrCorrelation, err)
	}

	if !res.Found() {
		uc.l.Infof(ctx, "No event matches cancellation of %q", d.Title)
		o.Action = ledger.ActionCancellationNotFound
		uc.record(ctx, msg, o)
		uc.markRead(ctx, &o)
		uc.remember(o)
		return o, nil
	}

	o.Event = res.Event
	o.Score = res.Score
	o.Action = ledger.ActionEventDeleted
	if uc.opt.DryRun {
		uc.l.Infof(ctx, "Dry run: would delete %s %q (score %.2f)", res.Event.ID, res.Event.Title, res.Score)
		uc.remember(o)
		return o, nil
	}

	if err := uc.calendar.DeleteEvent(ctx, *res.Event); err != nil {
		o.Action = ledger.ActionDeletionFailed
		o.Error = err.Error()
		uc.record(ctx, msg, o)
		uc.markRead(ctx, &o)
		uc.remember(o)
		return o, fmt.Errorf("%w: %v", ErrDelete, err)
	}

	uc.l.Infof(ctx, "Deleted event %s %q (score %.2f)", res.Event.ID, res.Event.Title, res.Score)
	uc.record(ctx, msg, o)
	uc.markRead(ctx, &o)
	uc.remember(o)
	return o, nil
}

// record writes the outcome to the ledger. Ledger failures are logged only.
func (uc *usecase) record(ctx context.Context, msg model.Message, o Outcome) {
	if uc.opt.DryRun || o.Action == "" || uc.ledger == nil {
		return
	}
	_, err := uc.ledger.Record(ctx, ledger.Record{
		Action:     o.Action,
		MessageID:  msg.ID,
		Subject:    msg.Subject,
		From:       msg.From,
		Descriptor: o.Descriptor,
		Event:      o.Event,
		Score:      o.Score,
		Error:      o.Error,
	})
	if err != nil {
		uc.l.Errorf(ctx, "Failed to record %s for message %s: %v", o.Action, msg.ID, err)
	}
}

func (uc *usecase) markRead(ctx context.Context, o *Outcome) {
	if uc.opt.DryRun || uc.mailbox == nil || o.MessageID == "" {
		return
	}
	if err := uc.mailbox.MarkAsRead(ctx, o.MessageID); err != nil {
		uc.l.Warnf(ctx, "Failed to mark message %s as read: %v", o.MessageID, err)
		return
	}
	o.MarkedRead = true
}

// remember keeps handled messages out of later polls of this process, which
// matters when marking as read failed or in dry-run mode.
func (uc *usecase) remember(o Outcome) {
	if o.MessageID == "" {
		return
	}
	uc.processed.Add(cacheKey(o.Kind, o.MessageID), struct{}{})
}

func cacheKey(kind model.MessageKind, id string) string {
	return string(kind) + ":" + id
}
