// Package sqlsource reads the Sage Line 50 tables from the reporting
// mirror database. It is the live side of the snapshot cache: plain
// blocking queries, no retries, connection faults propagate.
package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/oakmere/ledgermatch/internal/ledger"
)

type Source struct {
	db *sql.DB
}

func New(db *sql.DB) *Source {
	return &Source{db: db}
}

const entriesQuery = `
	SELECT
		aj.TRAN_NUMBER, aj.TYPE, aj.DATE, nl.ACCOUNT_REF, aj.ACCOUNT_REF AS ALT_REF,
		aj.INV_REF, aj.DETAILS, aj.TAX_CODE, aj.AMOUNT, aj.FOREIGN_AMOUNT, aj.BANK_FLAG,
		ah.DATE_BANK_RECONCILED, aj.EXTRA_REF, aj.PAID_FLAG, ah.OUTSTANDING
	FROM NOMINAL_LEDGER nl, AUDIT_HEADER ah
	LEFT OUTER JOIN AUDIT_JOURNAL aj ON nl.ACCOUNT_REF = aj.NOMINAL_CODE
	WHERE aj.HEADER_NUMBER = ah.HEADER_NUMBER
		AND aj.DATE > '2000-01-01'
		AND aj.DELETED_FLAG = 0
`

// Entries extracts the joined audit-journal view.
func (s *Source) Entries(ctx context.Context) ([]ledger.Entry, error) {
	rows, err := s.db.QueryContext(ctx, entriesQuery)
	if err != nil {
		return nil, fmt.Errorf("querying audit journal: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry

	for rows.Next() {
		var (
			e                  ledger.Entry
			account, alt, inv  any
			details, bankFlag  sql.NullString
			extraRef, paidFlag sql.NullString
			reconciled         sql.NullTime
		)

		if err := rows.Scan(
			&e.TranNumber, &e.Type, &e.Date, &account, &alt,
			&inv, &details, &e.TaxCode, &e.Amount, &e.ForeignAmount, &bankFlag,
			&reconciled, &extraRef, &paidFlag, &e.Outstanding,
		); err != nil {
			return nil, fmt.Errorf("scanning audit journal row: %w", err)
		}

		e.AccountRef = coerceRef(account)
		e.AltRef = coerceRef(alt)
		e.InvoiceRef = coerceRef(inv)
		e.Details = details.String
		e.BankFlag = bankFlag.String
		e.ExtraRef = extraRef.String
		e.PaidFlag = paidFlag.String

		if reconciled.Valid {
			t := reconciled.Time
			e.DateBankReconciled = &t
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit journal rows: %w", err)
	}

	return entries, nil
}

const invoicesQuery = `
	SELECT
		INVOICE_NUMBER, DEL_NAME, DEL_ADDRESS_1, DEL_ADDRESS_2, DEL_ADDRESS_3,
		DEL_ADDRESS_4, DEL_ADDRESS_5, CARR_NET, CARR_TAX, CARR_GROSS,
		SETTLEMENT_DUE_DAYS, ORDER_NUMBER, CUST_ORDER_NUMBER
	FROM INVOICE
`

// Invoices extracts the invoice headers.
func (s *Source) Invoices(ctx context.Context) ([]ledger.InvoiceHeader, error) {
	rows, err := s.db.QueryContext(ctx, invoicesQuery)
	if err != nil {
		return nil, fmt.Errorf("querying invoices: %w", err)
	}
	defer rows.Close()

	var invoices []ledger.InvoiceHeader

	for rows.Next() {
		var (
			inv     ledger.InvoiceHeader
			name    sql.NullString
			addr    [5]sql.NullString
			orderNo sql.NullString
			custNo  sql.NullString
		)

		if err := rows.Scan(
			&inv.InvoiceNumber, &name, &addr[0], &addr[1], &addr[2], &addr[3], &addr[4],
			&inv.CarriageNet, &inv.CarriageTax, &inv.CarriageGross,
			&inv.SettlementDueDays, &orderNo, &custNo,
		); err != nil {
			return nil, fmt.Errorf("scanning invoice row: %w", err)
		}

		inv.DeliveryName = name.String
		for i := range addr {
			inv.DeliveryAddress[i] = addr[i].String
		}

		inv.OrderNumber = orderNo.String
		inv.CustOrderNumber = custNo.String

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	return invoices, nil
}

const invoiceLinesQuery = `
	SELECT
		INVOICE_NUMBER, ITEM_NUMBER, DESCRIPTION, TEXT, STOCK_CODE, COMMENT_1,
		COMMENT_2, UNIT_OF_SALE, QUANTITY, UNIT_PRICE, DISCOUNT_AMOUNT,
		DISCOUNT_RATE, TAX_CODE, TAX_RATE, NET_AMOUNT, TAX_AMOUNT, GROSS_AMOUNT
	FROM INVOICE_ITEM
`

// InvoiceLines extracts the invoice item lines.
func (s *Source) InvoiceLines(ctx context.Context) ([]ledger.InvoiceLine, error) {
	rows, err := s.db.QueryContext(ctx, invoiceLinesQuery)
	if err != nil {
		return nil, fmt.Errorf("querying invoice items: %w", err)
	}
	defer rows.Close()

	var lines []ledger.InvoiceLine

	for rows.Next() {
		var (
			l                  ledger.InvoiceLine
			desc, text, stock  sql.NullString
			comment1, comment2 sql.NullString
			unit               sql.NullString
		)

		if err := rows.Scan(
			&l.InvoiceNumber, &l.ItemNumber, &desc, &text, &stock, &comment1,
			&comment2, &unit, &l.Quantity, &l.UnitPrice, &l.DiscountAmount,
			&l.DiscountRate, &l.TaxCode, &l.TaxRate, &l.NetAmount, &l.TaxAmount, &l.GrossAmount,
		); err != nil {
			return nil, fmt.Errorf("scanning invoice item row: %w", err)
		}

		l.Description = desc.String
		l.Text = text.String
		l.StockCode = stock.String
		l.Comment1 = comment1.String
		l.Comment2 = comment2.String
		l.UnitOfSale = unit.String

		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice item rows: %w", err)
	}

	return lines, nil
}

// MaxTransaction returns the highest transaction number in the audit
// journal, the freshness high-water mark. An empty journal reads as zero.
func (s *Source) MaxTransaction(ctx context.Context) (int64, error) {
	var maxTran sql.NullInt64

	err := s.db.QueryRowContext(ctx, `SELECT max(TRAN_NUMBER) FROM AUDIT_JOURNAL`).Scan(&maxTran)
	if err != nil {
		return 0, fmt.Errorf("querying max transaction number: %w", err)
	}

	return maxTran.Int64, nil
}

// coerceRef normalises a reference column to its string form. The mirror
// sometimes surfaces numeric-looking references as numbers; they must
// stay identifier strings for exact-match comparisons downstream.
func coerceRef(v any) ledger.Ref {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return ledger.Ref(strings.TrimSpace(val))
	case []byte:
		return ledger.Ref(strings.TrimSpace(string(val)))
	case int64:
		return ledger.Ref(strconv.FormatInt(val, 10))
	case float64:
		return ledger.Ref(strconv.FormatFloat(val, 'f', -1, 64))
	default:
		return ledger.Ref(strings.TrimSpace(fmt.Sprint(val)))
	}
}
