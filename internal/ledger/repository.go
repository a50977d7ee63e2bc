package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/oakmere/ledgermatch/internal/money"
)

var (
	// ErrNotFound means no ledger entry matched a lookup key. Looking up
	// a reference with no data is always an error, never a silent zero.
	ErrNotFound = errors.New("no matching ledger entries")

	// ErrUnsupportedField means the caller asked for a field the
	// aggregation logic does not recognise.
	ErrUnsupportedField = errors.New("unsupported field")
)

// DefaultTextLimit caps concatenated text fields (details, extra ref).
const DefaultTextLimit = 30

// Loader produces a consistent set of the three cached tables.
type Loader interface {
	Load(ctx context.Context) (Tables, error)
}

// Repository is an in-memory view over the cached audit journal, invoice
// headers and invoice lines. Construct one instance at process start and
// share it by handle; reads are safe concurrently, Refresh swaps all
// three tables under the write lock.
type Repository struct {
	mu        sync.RWMutex
	textLimit int
	tables    Tables
}

func NewRepository() *Repository {
	return &Repository{textLimit: DefaultTextLimit}
}

// Refresh replaces the cached tables with a freshly loaded set.
func (r *Repository) Refresh(ctx context.Context, loader Loader) error {
	tables, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading ledger tables: %w", err)
	}

	r.mu.Lock()
	r.tables = tables
	r.mu.Unlock()

	return nil
}

// Invoices returns the cached invoice headers.
func (r *Repository) Invoices() []InvoiceHeader {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.tables.Invoices
}

// InvoiceLines returns the cached invoice item lines.
func (r *Repository) InvoiceLines() []InvoiceLine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.tables.InvoiceLines
}

// UsingReference aggregates the audit-journal lines posted against the
// debtors control account for one invoice reference and derives the
// requested field. The ledger stores an invoice as several lines, so
// monetary fields are sums over the match set; identity fields come from
// the first matching line in table order. When no record types are given
// the lookup covers sales invoices only.
func (r *Repository) UsingReference(ref string, field Field, types ...EntryType) (FieldValue, error) {
	if len(types) == 0 {
		types = []EntryType{TypeSalesInvoice}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.filterByRef(Ref(ref), DebtorsControlAccount, types)
	if len(matches) == 0 {
		return FieldValue{}, fmt.Errorf("invoice %q: %w", ref, ErrNotFound)
	}

	first := matches[0]

	switch field {
	case FieldTranNumber:
		return IntValue(first.TranNumber), nil
	case FieldDate:
		return TimeValue(first.Date), nil
	case FieldType:
		return StringValue(string(first.Type)), nil
	case FieldAccountRef:
		return StringValue(string(first.AccountRef)), nil
	case FieldAltRef:
		return StringValue(string(first.AltRef)), nil
	case FieldInvoiceRef:
		return StringValue(string(first.InvoiceRef)), nil
	case FieldTaxCode:
		return IntValue(int64(first.TaxCode)), nil
	case FieldBankFlag:
		return StringValue(first.BankFlag), nil
	case FieldDateBankReconciled:
		if first.DateBankReconciled == nil {
			return FieldValue{kind: kindTime}, nil
		}

		return TimeValue(*first.DateBankReconciled), nil
	case FieldOutstanding:
		return DecimalValue(money.Round(first.Outstanding)), nil
	case FieldAmount, FieldGrossAmount:
		// Gross is recorded directly in the debtors account, so the
		// gross figure and the plain amount sum are the same thing.
		return DecimalValue(money.Round(sumAmounts(matches))), nil
	case FieldForeignAmount:
		var sum decimal.Decimal
		for _, e := range matches {
			sum = sum.Add(e.ForeignAmount)
		}

		return DecimalValue(money.Round(sum)), nil
	case FieldNetAmount:
		// VAT lines are signed negative relative to net, so adding the
		// VAT control sum to the gross yields the net.
		vat := sumAmounts(r.filterByRef(Ref(ref), VATControlAccount, types))
		return DecimalValue(money.Round(sumAmounts(matches).Add(vat))), nil
	case FieldTaxAmount:
		vat := sumAmounts(r.filterByRef(Ref(ref), VATControlAccount, types))
		return DecimalValue(money.Round(vat.Neg())), nil
	case FieldTaxRate:
		vat := sumAmounts(r.filterByRef(Ref(ref), VATControlAccount, types)).Neg()
		if vat.IsZero() {
			// VAT-exempt transaction: report a zero rate rather than
			// dividing by zero.
			return DecimalValue(decimal.Zero), nil
		}

		gross := sumAmounts(matches)
		rate := gross.Div(vat).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))

		return DecimalValue(rate), nil
	case FieldDetails:
		return StringValue(r.concat(matches, func(e Entry) string { return e.Details })), nil
	case FieldExtraRef:
		return StringValue(r.concat(matches, func(e Entry) string { return e.ExtraRef })), nil
	default:
		return FieldValue{}, fmt.Errorf("%v: %w", field, ErrUnsupportedField)
	}
}

// filterByRef returns the entries matching type, nominal account and
// invoice reference, preserving table order. Reference equality is exact
// string match.
func (r *Repository) filterByRef(ref, account Ref, types []EntryType) []Entry {
	var matches []Entry

	for _, e := range r.tables.Entries {
		if !typeIn(e.Type, types) || e.AccountRef != account || e.InvoiceRef != ref {
			continue
		}

		matches = append(matches, e)
	}

	return matches
}

func (r *Repository) concat(entries []Entry, get func(Entry) string) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(get(e))
	}

	runes := []rune(sb.String())
	if len(runes) > r.textLimit {
		runes = runes[:r.textLimit]
	}

	return string(runes)
}

// UnmatchedReceiptAccounts lists the customer accounts that have receipt
// allocations still flagged unpaid, sorted and de-duplicated.
func (r *Repository) UnmatchedReceiptAccounts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})

	for _, e := range r.tables.Entries {
		if e.Type != TypeSalesReceipt || e.PaidFlag != "N" {
			continue
		}

		seen[string(e.AltRef)] = struct{}{}
	}

	accounts := make([]string, 0, len(seen))
	for a := range seen {
		accounts = append(accounts, a)
	}

	sort.Strings(accounts)

	return accounts
}

func sumAmounts(entries []Entry) decimal.Decimal {
	var sum decimal.Decimal
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}

	return sum
}

func typeIn(t EntryType, types []EntryType) bool {
	for _, candidate := range types {
		if t == candidate {
			return true
		}
	}

	return false
}
