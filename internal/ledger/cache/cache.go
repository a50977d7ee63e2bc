// Package cache loads the three ledger tables through the snapshot
// layer, consulting the freshness oracle once per load so the set is
// refreshed atomically: either every table comes from the live source or
// every table comes from disk.
package cache

import (
	"context"
	"strings"

	"github.com/oakmere/ledgermatch/internal/ledger"
	"github.com/oakmere/ledgermatch/internal/snapshot"
)

// Snapshot names. The single freshness mark governs the whole set.
const (
	markName     = "sage"
	entriesName  = "sage_entries"
	invoicesName = "sage_invoices"
	linesName    = "sage_invoice_lines"
)

// Source is the live ledger behind the cache.
type Source interface {
	snapshot.MarkSource
	Entries(ctx context.Context) ([]ledger.Entry, error)
	Invoices(ctx context.Context) ([]ledger.InvoiceHeader, error)
	InvoiceLines(ctx context.Context) ([]ledger.InvoiceLine, error)
}

// Cache implements ledger.Loader on top of a snapshot store and a live
// source.
type Cache struct {
	store  snapshot.Store
	oracle *snapshot.Oracle
	src    Source
}

func New(store snapshot.Store, src Source) *Cache {
	return &Cache{
		store:  store,
		oracle: snapshot.NewOracle(store, src),
		src:    src,
	}
}

// Load returns a consistent set of the three tables, re-extracting from
// the live source when the high-water mark has moved.
func (c *Cache) Load(ctx context.Context) (ledger.Tables, error) {
	stale, err := c.oracle.IsStale(ctx, markName)
	if err != nil {
		return ledger.Tables{}, err
	}

	entries, err := snapshot.Load(ctx, c.store, entriesName, stale, c.src.Entries, restoreEntry)
	if err != nil {
		return ledger.Tables{}, err
	}

	invoices, err := snapshot.Load(ctx, c.store, invoicesName, stale, c.src.Invoices, nil)
	if err != nil {
		return ledger.Tables{}, err
	}

	lines, err := snapshot.Load(ctx, c.store, linesName, stale, c.src.InvoiceLines, nil)
	if err != nil {
		return ledger.Tables{}, err
	}

	return ledger.Tables{Entries: entries, Invoices: invoices, InvoiceLines: lines}, nil
}

// restoreEntry re-normalises the identifier columns after a snapshot
// read. Decoding already keeps numeric-looking refs as strings; this
// strips the padding Sage char columns carry into older snapshots.
func restoreEntry(e *ledger.Entry) {
	e.AccountRef = trimRef(e.AccountRef)
	e.AltRef = trimRef(e.AltRef)
	e.InvoiceRef = trimRef(e.InvoiceRef)
}

func trimRef(r ledger.Ref) ledger.Ref {
	return ledger.Ref(strings.TrimSpace(string(r)))
}
