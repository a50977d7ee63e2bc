package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Field names a value that UsingReference can derive for an invoice
// reference. The set is closed: every Field maps to one aggregation rule
// (first-value, sum, derived formula or concatenation).
type Field int

const (
	FieldTranNumber Field = iota
	FieldDate
	FieldType
	FieldAccountRef
	FieldAltRef
	FieldInvoiceRef
	FieldTaxCode
	FieldBankFlag
	FieldDateBankReconciled
	FieldOutstanding
	FieldAmount
	FieldForeignAmount
	FieldGrossAmount
	FieldNetAmount
	FieldTaxAmount
	FieldTaxRate
	FieldDetails
	FieldExtraRef
)

var fieldNames = map[Field]string{
	FieldTranNumber:         "tran_number",
	FieldDate:               "date",
	FieldType:               "type",
	FieldAccountRef:         "account_ref",
	FieldAltRef:             "alt_ref",
	FieldInvoiceRef:         "inv_ref",
	FieldTaxCode:            "tax_code",
	FieldBankFlag:           "bank_flag",
	FieldDateBankReconciled: "date_bank_reconciled",
	FieldOutstanding:        "outstanding",
	FieldAmount:             "amount",
	FieldForeignAmount:      "foreign_amount",
	FieldGrossAmount:        "gross_amount",
	FieldNetAmount:          "net_amount",
	FieldTaxAmount:          "tax_amount",
	FieldTaxRate:            "tax_rate",
	FieldDetails:            "details",
	FieldExtraRef:           "extra_ref",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}

	return fmt.Sprintf("field(%d)", int(f))
}

// ParseField resolves a wire name (as used by the HTTP API) to a Field.
func ParseField(name string) (Field, error) {
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}

	return 0, fmt.Errorf("%q: %w", name, ErrUnsupportedField)
}

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindTime
	kindDecimal
)

// FieldValue is the result of a UsingReference lookup. Which accessor is
// meaningful depends on the requested Field; the zero value is an empty
// string value.
type FieldValue struct {
	kind valueKind
	str  string
	i    int64
	t    time.Time
	dec  decimal.Decimal
}

func StringValue(s string) FieldValue           { return FieldValue{kind: kindString, str: s} }
func IntValue(i int64) FieldValue               { return FieldValue{kind: kindInt, i: i} }
func TimeValue(t time.Time) FieldValue          { return FieldValue{kind: kindTime, t: t} }
func DecimalValue(d decimal.Decimal) FieldValue { return FieldValue{kind: kindDecimal, dec: d} }

func (v FieldValue) Str() string              { return v.str }
func (v FieldValue) Int64() int64             { return v.i }
func (v FieldValue) Time() time.Time          { return v.t }
func (v FieldValue) Decimal() decimal.Decimal { return v.dec }

// MarshalJSON encodes the underlying value rather than the wrapper, so
// API responses carry plain scalars.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindInt:
		return json.Marshal(v.i)
	case kindTime:
		if v.t.IsZero() {
			return json.Marshal(nil)
		}

		return json.Marshal(v.t)
	case kindDecimal:
		return json.Marshal(v.dec)
	default:
		return json.Marshal(v.str)
	}
}
