// Package report renders reconciliation results for humans.
package report

import (
	"fmt"
	"strings"

	"github.com/oakmere/ledgermatch/internal/remittance"
)

// Summary formats one line per remittance row plus a document verdict,
// suitable for stdout or an email body.
func Summary(doc *remittance.Document) string {
	var sb strings.Builder

	for _, row := range doc.Rows {
		if !row.GrossAmount.Valid {
			sb.WriteString(fmt.Sprintf("* %s | %s | member %s | not enriched\n",
				row.Reference, row.DocumentType, row.MemberCode))
			continue
		}

		sb.WriteString(fmt.Sprintf("* %s | %s | acct %s | net %s | vat %s | gross %s\n",
			row.Reference, row.DocumentType, row.AccountRef,
			row.NetAmount.Decimal, row.VATAmount.Decimal, row.GrossAmount.Decimal))
	}

	verdict := "FAILED"
	if doc.Checked {
		verdict = "OK"
	}

	sb.WriteString(fmt.Sprintf("document %s: %d rows, reconciliation %s\n", doc.ID, len(doc.Rows), verdict))

	return sb.String()
}
