package remittance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/oakmere/ledgermatch/internal/ledger"
	"github.com/oakmere/ledgermatch/internal/money"
)

//go:generate mockgen -source=service.go -destination=ledger_mock.go -package=remittance
type Ledger interface {
	UsingReference(ref string, field ledger.Field, types ...ledger.EntryType) (ledger.FieldValue, error)
}

// Service enriches remittance documents with ledger-derived figures and
// validates that the document-level sums reconcile.
type Service struct {
	ledger Ledger
}

func NewService(l Ledger) *Service {
	return &Service{ledger: l}
}

// Reconcile enriches every row of doc in place, then cross-checks the
// document totals. On a failed check doc.Checked is set false before the
// error is returned.
func (s *Service) Reconcile(doc *Document) error {
	for i := range doc.Rows {
		if err := s.enrichRow(&doc.Rows[i]); err != nil {
			return fmt.Errorf("enriching row %d (reference %q): %w", i, doc.Rows[i].Reference, err)
		}
	}

	return s.validate(doc)
}

func (s *Service) enrichRow(row *Row) error {
	if _, excluded := excludedMemberCodes[row.MemberCode]; excluded {
		return nil
	}

	if row.DocumentType != DocumentTypeInvoice && row.DocumentType != DocumentTypeCreditNote {
		return nil
	}

	accountRef, err := s.lookup(row, ledger.FieldAltRef)
	if err != nil {
		return err
	}

	net, err := s.lookup(row, ledger.FieldNetAmount)
	if err != nil {
		return err
	}

	gross, err := s.lookup(row, ledger.FieldGrossAmount)
	if err != nil {
		return err
	}

	vat, err := s.lookup(row, ledger.FieldTaxAmount)
	if err != nil {
		return err
	}

	rate, err := s.lookup(row, ledger.FieldTaxRate)
	if err != nil {
		return err
	}

	row.AccountRef = accountRef.Str()
	row.NetAmount = decimal.NewNullDecimal(net.Decimal())
	row.GrossAmount = decimal.NewNullDecimal(gross.Decimal())
	row.VATAmount = decimal.NewNullDecimal(vat.Decimal())
	// The ledger reports the rate as a percentage; the document stores a
	// fraction.
	row.TaxRate = decimal.NewNullDecimal(rate.Decimal().Div(decimal.NewFromInt(100)))

	return nil
}

// lookup dispatches on document type. Credit notes that cannot be found
// as SC entries are retried as SI: some senders issue a credit note
// against a plain invoice reference, so one not-found is swallowed
// before anything propagates.
func (s *Service) lookup(row *Row, field ledger.Field) (ledger.FieldValue, error) {
	switch row.DocumentType {
	case DocumentTypeInvoice:
		return s.ledger.UsingReference(row.Reference, field, ledger.TypeSalesInvoice)
	case DocumentTypeCreditNote:
		v, err := s.ledger.UsingReference(row.Reference, field, ledger.TypeSalesCredit)
		if errors.Is(err, ledger.ErrNotFound) {
			return s.ledger.UsingReference(row.Reference, field, ledger.TypeSalesInvoice)
		}

		return v, err
	default:
		return ledger.FieldValue{}, fmt.Errorf("document type %q is not enrichable", row.DocumentType)
	}
}

func (s *Service) validate(doc *Document) error {
	var net, vat, gross, grossExDiscount decimal.Decimal

	for _, row := range doc.Rows {
		if row.NetAmount.Valid {
			net = net.Add(row.NetAmount.Decimal)
		}

		if row.VATAmount.Valid {
			vat = vat.Add(row.VATAmount.Decimal)
		}

		if row.GrossAmount.Valid {
			gross = gross.Add(row.GrossAmount.Decimal)

			if row.MemberCode != MemberCodeDiscount {
				grossExDiscount = grossExDiscount.Add(row.GrossAmount.Decimal)
			}
		}
	}

	// Internal consistency of the ledger-reported figures. Once this
	// holds, any two of the three totals determine the third; rounding
	// means they cannot be recomputed from scratch without line items.
	if !money.Equal(net.Add(vat), gross) {
		doc.Checked = false
		return &ReconciliationError{Net: money.Round(net), VAT: money.Round(vat), Gross: money.Round(gross)}
	}

	// Discount-coded rows must contribute zero gross.
	if !money.Equal(grossExDiscount, gross) {
		doc.Checked = false

		ex := money.Round(grossExDiscount)

		return &ReconciliationError{Gross: money.Round(gross), GrossExDiscount: &ex}
	}

	doc.Checked = true

	return nil
}
