package ledger

import "context"

// Ledger is a write-only audit trail of pipeline outcomes.
type Ledger interface {
	// Record stores r and returns a reference to the stored entry.
	Record(ctx context.Context, r Record) (string, error)
	Stats(ctx context.Context) (Stats, error)
}
