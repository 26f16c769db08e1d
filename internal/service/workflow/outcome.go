package workflow

import "log/slog"

// Operation names reported in outcomes.
const (
	OpResolveManagers    = "resolve_managers"
	OpResolveOwners      = "resolve_owners"
	OpQueueNotifications = "queue_notifications"
	OpRecordAudit        = "record_audit"
)

// OutcomeStatus is the result of a best-effort operation.
type OutcomeStatus string

const (
	OutcomeOK      OutcomeStatus = "ok"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome records what a best-effort operation did. Count is the number of
// rows read or written; Err is set only when Status is OutcomeFailed.
type Outcome struct {
	Op     string
	Status OutcomeStatus
	Count  int
	Err    error
}

func succeeded(op string, n int) Outcome {
	return Outcome{Op: op, Status: OutcomeOK, Count: n}
}

func skipped(op string) Outcome {
	return Outcome{Op: op, Status: OutcomeSkipped}
}

func failed(op string, err error) Outcome {
	return Outcome{Op: op, Status: OutcomeFailed, Err: err}
}

// Failed reports whether the operation failed.
func (o Outcome) Failed() bool { return o.Status == OutcomeFailed }

// LogValue implements slog.LogValuer.
func (o Outcome) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("op", o.Op),
		slog.String("status", string(o.Status)),
		slog.Int("count", o.Count),
	}
	if o.Err != nil {
		attrs = append(attrs, slog.String("error", o.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}
