package ledger

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the Sage audit-journal type code of a ledger entry.
type EntryType string

const (
	TypeSalesInvoice EntryType = "SI"
	TypeSalesCredit  EntryType = "SC"
	TypeSalesReceipt EntryType = "SA"
)

// Nominal account codes that anchor the reconciliation queries.
const (
	DebtorsControlAccount Ref = "1100"
	VATControlAccount     Ref = "2200"
)

// Ref is an account or invoice reference. These are identifier strings:
// they frequently look numeric ("00123") but are only ever compared as
// strings. Snapshots written by older extractors stored them as JSON
// numbers, so decoding accepts both forms and keeps the string value.
type Ref string

func (r *Ref) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*r = Ref(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}

	*r = Ref(n.String())

	return nil
}

// Entry is one line of the accounting audit trail, joined with its header
// and nominal-ledger context.
type Entry struct {
	TranNumber         int64           `json:"tran_number"`
	Type               EntryType       `json:"type"`
	Date               time.Time       `json:"date"`
	AccountRef         Ref             `json:"account_ref"`
	AltRef             Ref             `json:"alt_ref"`
	InvoiceRef         Ref             `json:"inv_ref"`
	Details            string          `json:"details"`
	TaxCode            int             `json:"tax_code"`
	Amount             decimal.Decimal `json:"amount"`
	ForeignAmount      decimal.Decimal `json:"foreign_amount"`
	BankFlag           string          `json:"bank_flag"`
	DateBankReconciled *time.Time      `json:"date_bank_reconciled,omitempty"`
	ExtraRef           string          `json:"extra_ref"`
	PaidFlag           string          `json:"paid_flag"`
	Outstanding        decimal.Decimal `json:"outstanding"`
}

// InvoiceHeader is read-only reference data for a posted invoice.
type InvoiceHeader struct {
	InvoiceNumber     int64           `json:"invoice_number"`
	DeliveryName      string          `json:"del_name"`
	DeliveryAddress   [5]string       `json:"del_address"`
	CarriageNet       decimal.Decimal `json:"carr_net"`
	CarriageTax       decimal.Decimal `json:"carr_tax"`
	CarriageGross     decimal.Decimal `json:"carr_gross"`
	SettlementDueDays int             `json:"settlement_due_days"`
	OrderNumber       string          `json:"order_number"`
	CustOrderNumber   string          `json:"cust_order_number"`
}

// InvoiceLine is a single item line belonging to an InvoiceHeader.
type InvoiceLine struct {
	InvoiceNumber  int64           `json:"invoice_number"`
	ItemNumber     int             `json:"item_number"`
	Description    string          `json:"description"`
	Text           string          `json:"text"`
	StockCode      string          `json:"stock_code"`
	Comment1       string          `json:"comment_1"`
	Comment2       string          `json:"comment_2"`
	UnitOfSale     string          `json:"unit_of_sale"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	TaxCode        int             `json:"tax_code"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	GrossAmount    decimal.Decimal `json:"gross_amount"`
}

// Tables is the full cached dataset. The three tables are always loaded
// or refreshed together, never mixed between snapshot and live source.
type Tables struct {
	Entries      []Entry
	Invoices     []InvoiceHeader
	InvoiceLines []InvoiceLine
}
