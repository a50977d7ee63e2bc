package remittance

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentType classifies a claimed transaction in a remittance advice.
type DocumentType string

const (
	DocumentTypeInvoice    DocumentType = "Invoice"
	DocumentTypeCreditNote DocumentType = "Credit Note"
)

// Membership codes carrying exception semantics: rows tagged with these
// are scheme-level adjustments with no ledger counterpart, so they are
// never enriched.
const (
	MemberCodeDiscount   = "4552"
	MemberCodeAdjustment = "4424"
)

var excludedMemberCodes = map[string]struct{}{
	MemberCodeDiscount:   {},
	MemberCodeAdjustment: {},
}

// Row is one claimed transaction. Reference, DocumentType and MemberCode
// come from the sender; the remaining columns are derived from the
// ledger during reconciliation and stay null for excluded rows.
type Row struct {
	Reference    string       `json:"reference"`
	DocumentType DocumentType `json:"document_type"`
	MemberCode   string       `json:"member_code"`

	AccountRef  string              `json:"account_ref,omitempty"`
	NetAmount   decimal.NullDecimal `json:"net_amount"`
	GrossAmount decimal.NullDecimal `json:"gross_amount"`
	VATAmount   decimal.NullDecimal `json:"vat_amount"`
	TaxRate     decimal.NullDecimal `json:"tax_rate"`
}

// Document is an externally supplied remittance advice. The reconciler
// mutates it in place; ownership stays with the caller, so a caller that
// catches a reconciliation failure can still inspect the partial
// enrichment. Checked is flipped to false before any validation error is
// returned.
type Document struct {
	ID      uuid.UUID `json:"id"`
	Rows    []Row     `json:"rows"`
	Checked bool      `json:"checked"`
}

func NewDocument(rows []Row) *Document {
	return &Document{
		ID:      uuid.New(),
		Rows:    rows,
		Checked: true,
	}
}

// ReconciliationError reports document-level sums that fail to agree.
// The operands ride along so a failure can be diagnosed without
// re-running the reconciliation.
type ReconciliationError struct {
	Net             decimal.Decimal
	VAT             decimal.Decimal
	Gross           decimal.Decimal
	GrossExDiscount *decimal.Decimal
}

func (e *ReconciliationError) Error() string {
	if e.GrossExDiscount != nil {
		return fmt.Sprintf("remittance gross excluding discount rows does not equal ledger gross: %s != %s",
			e.GrossExDiscount, e.Gross)
	}

	return fmt.Sprintf("ledger figures do not reconcile: net %s + vat %s != gross %s",
		e.Net, e.VAT, e.Gross)
}
