package remittance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oakmere/ledgermatch/internal/ledger"
	"github.com/oakmere/ledgermatch/internal/remittance"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// expectLookup wires the five enrichment lookups for one reference.
func expectLookup(m *remittance.MockLedger, ref string, entryType ledger.EntryType, net, gross, vat, rate string) {
	m.EXPECT().
		UsingReference(ref, ledger.FieldAltRef, entryType).
		Return(ledger.StringValue("AB001"), nil)
	m.EXPECT().
		UsingReference(ref, ledger.FieldNetAmount, entryType).
		Return(ledger.DecimalValue(dec(net)), nil)
	m.EXPECT().
		UsingReference(ref, ledger.FieldGrossAmount, entryType).
		Return(ledger.DecimalValue(dec(gross)), nil)
	m.EXPECT().
		UsingReference(ref, ledger.FieldTaxAmount, entryType).
		Return(ledger.DecimalValue(dec(vat)), nil)
	m.EXPECT().
		UsingReference(ref, ledger.FieldTaxRate, entryType).
		Return(ledger.DecimalValue(dec(rate)), nil)
}

func TestReconcile_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := remittance.NewMockLedger(ctrl)
	expectLookup(m, "500", ledger.TypeSalesInvoice, "100.00", "120.00", "20.00", "20")

	doc := remittance.NewDocument([]remittance.Row{
		{Reference: "500", DocumentType: remittance.DocumentTypeInvoice, MemberCode: "1001"},
	})

	svc := remittance.NewService(m)
	require.NoError(t, svc.Reconcile(doc))

	assert.True(t, doc.Checked)

	row := doc.Rows[0]
	assert.Equal(t, "AB001", row.AccountRef)
	require.True(t, row.NetAmount.Valid)
	assert.True(t, row.NetAmount.Decimal.Equal(dec("100.00")))
	assert.True(t, row.GrossAmount.Decimal.Equal(dec("120.00")))
	assert.True(t, row.VATAmount.Decimal.Equal(dec("20.00")))
	// The ledger reports a percentage; the document stores a fraction.
	assert.True(t, row.TaxRate.Decimal.Equal(dec("0.2")))
}

func TestReconcile_CreditNoteFallsBackToInvoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := remittance.NewMockLedger(ctrl)

	// Every SC lookup misses; every retry as SI succeeds. This happens
	// when the sender issued a credit note against a plain invoice.
	m.EXPECT().
		UsingReference("59088", gomock.Any(), ledger.TypeSalesCredit).
		Return(ledger.FieldValue{}, ledger.ErrNotFound).
		Times(5)
	expectLookup(m, "59088", ledger.TypeSalesInvoice, "-50.00", "-60.00", "-10.00", "20")

	doc := remittance.NewDocument([]remittance.Row{
		{Reference: "59088", DocumentType: remittance.DocumentTypeCreditNote, MemberCode: "1001"},
	})

	svc := remittance.NewService(m)
	require.NoError(t, svc.Reconcile(doc))

	assert.True(t, doc.Checked)
	assert.True(t, doc.Rows[0].GrossAmount.Decimal.Equal(dec("-60.00")))
}

func TestReconcile_NotFoundPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := remittance.NewMockLedger(ctrl)
	m.EXPECT().
		UsingReference("999999", ledger.FieldAltRef, ledger.TypeSalesInvoice).
		Return(ledger.FieldValue{}, ledger.ErrNotFound)

	doc := remittance.NewDocument([]remittance.Row{
		{Reference: "999999", DocumentType: remittance.DocumentTypeInvoice, MemberCode: "1001"},
	})

	err := remittance.NewService(m).Reconcile(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	assert.Contains(t, err.Error(), "999999")
}

func TestReconcile_ExcludedMemberCodesAreSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No ledger calls at all: both rows carry exception codes.
	m := remittance.NewMockLedger(ctrl)

	doc := remittance.NewDocument([]remittance.Row{
		{Reference: "500", DocumentType: remittance.DocumentTypeInvoice, MemberCode: remittance.MemberCodeDiscount},
		{Reference: "501", DocumentType: remittance.DocumentTypeInvoice, MemberCode: remittance.MemberCodeAdjustment},
	})

	require.NoError(t, remittance.NewService(m).Reconcile(doc))

	assert.True(t, doc.Checked)
	assert.False(t, doc.Rows[0].NetAmount.Valid)
	assert.False(t, doc.Rows[1].NetAmount.Valid)
}

func TestReconcile_UnknownDocumentTypeIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := remittance.NewMockLedger(ctrl)

	doc := remittance.NewDocument([]remittance.Row{
		{Reference: "500", DocumentType: "Statement", MemberCode: "1001"},
	})

	require.NoError(t, remittance.NewService(m).Reconcile(doc))
	assert.False(t, doc.Rows[0].GrossAmount.Valid)
}

func TestReconcile_InternalSumMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := remittance.NewMockLedger(ctrl)
	// net + vat != gross: the ledger-reported figures are inconsistent.
	expectLookup(m, "500", ledger.TypeSalesInvoice, "100.00", "120.00", "19.00", "20")

	doc := remittance.NewDocument([]remittance.Row{
		{Reference: "500", DocumentType: remittance.DocumentTypeInvoice, MemberCode: "1001"},
	})

	err := remittance.NewService(m).Reconcile(doc)
	require.Error(t, err)

	var recErr *remittance.ReconciliationError
	require.ErrorAs(t, err, &recErr)
	assert.Contains(t, recErr.Error(), "100")
	assert.Contains(t, recErr.Error(), "19")
	assert.Contains(t, recErr.Error(), "120")

	assert.False(t, doc.Checked)
}

func TestReconcile_DiscountRowWithGrossFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := remittance.NewMockLedger(ctrl)
	expectLookup(m, "500", ledger.TypeSalesInvoice, "100.00", "120.00", "20.00", "20")

	// The discount-coded row is skipped by enrichment but arrives with a
	// gross figure already populated; it must contribute zero gross.
	doc := remittance.NewDocument([]remittance.Row{
		{Reference: "500", DocumentType: remittance.DocumentTypeInvoice, MemberCode: "1001"},
		{
			Reference:    "501",
			DocumentType: remittance.DocumentTypeInvoice,
			MemberCode:   remittance.MemberCodeDiscount,
			NetAmount:    decimal.NewNullDecimal(dec("50.00")),
			GrossAmount:  decimal.NewNullDecimal(dec("50.00")),
		},
	})

	err := remittance.NewService(m).Reconcile(doc)
	require.Error(t, err)

	var recErr *remittance.ReconciliationError
	require.ErrorAs(t, err, &recErr)
	assert.False(t, doc.Checked)
}
