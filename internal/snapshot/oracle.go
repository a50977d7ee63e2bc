package snapshot

import (
	"context"
	"fmt"
)

// MarkSource yields the live high-water mark, defined as the maximum
// transaction number across the audit journal.
type MarkSource interface {
	MaxTransaction(ctx context.Context) (int64, error)
}

// Oracle decides whether a persisted snapshot set is still valid relative
// to the live source. The check is a cheap proxy: it only notices new
// transactions, not edits to existing ones.
type Oracle struct {
	store  Store
	source MarkSource
}

func NewOracle(store Store, source MarkSource) *Oracle {
	return &Oracle{store: store, source: source}
}

// IsStale compares the stored mark for name against the live one. It is
// an equality check, not an ordering check: a transaction number that
// went backwards (external data reset) also reads as stale.
//
// The freshly observed mark is always persisted, even when the caller's
// subsequent refresh fails, so call this at most once per logical
// refresh decision.
func (o *Oracle) IsStale(ctx context.Context, name string) (bool, error) {
	stored := o.store.ReadMark(name)

	current, err := o.source.MaxTransaction(ctx)
	if err != nil {
		return false, fmt.Errorf("reading live high-water mark: %w", err)
	}

	if err := o.store.WriteMark(name, current); err != nil {
		return false, err
	}

	return stored == 0 || stored != current, nil
}
