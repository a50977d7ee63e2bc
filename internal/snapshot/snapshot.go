// Package snapshot caches ledger tables on disk so a session only pays
// for a full extract when the source has actually moved on.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
)

// Load returns the rows for a named table, either from the persisted
// snapshot or freshly fetched.
//
// When stale is false it tries the snapshot first; a missing or
// unparseable snapshot silently falls back to the fetch path. Rows read
// from a snapshot are passed through restore, the boundary-crossing
// coercion that undoes whatever fidelity the serialised form lost
// (identifier columns are the usual victims). A fetch failure is fatal
// and propagates; retries belong to the source, not here.
func Load[T any](ctx context.Context, store Store, name string, stale bool, fetch func(context.Context) ([]T, error), restore func(*T)) ([]T, error) {
	if !stale {
		rows, ok := loadStored[T](store, name, restore)
		if ok {
			return rows, nil
		}
	}

	rows, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", name, err)
	}

	if err := store.Write(name, data); err != nil {
		return nil, err
	}

	return rows, nil
}

func loadStored[T any](store Store, name string, restore func(*T)) ([]T, bool) {
	data, err := store.Read(name)
	if err != nil {
		return nil, false
	}

	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false
	}

	if restore != nil {
		for i := range rows {
			restore(&rows[i])
		}
	}

	return rows, true
}
