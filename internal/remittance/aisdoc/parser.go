// Package aisdoc parses the remittance advice CSVs supplied by the
// scheme operator. The files carry preamble rows before the real header,
// so parsing scans for the header landmark instead of assuming row one.
package aisdoc

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/oakmere/ledgermatch/internal/encoding"
	"github.com/oakmere/ledgermatch/internal/remittance"
)

const (
	colReference    = "Your Ref"
	colDocumentType = "Document Type"
	colMemberCode   = "Member Code"
)

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// Parse reads a remittance advice and returns its claimed-transaction
// rows. Input may be in any encoding the detection layer understands.
func (p *Parser) Parse(r io.Reader) ([]remittance.Row, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	idxRef, idxType, idxCode := -1, -1, -1
	headerFound := false

	var rows []remittance.Row

	for _, record := range records {
		if !headerFound {
			for i, col := range record {
				switch strings.TrimSpace(col) {
				case colReference:
					idxRef = i
				case colDocumentType:
					idxType = i
				case colMemberCode:
					idxCode = i
				}
			}

			headerFound = idxRef != -1 && idxType != -1 && idxCode != -1

			continue
		}

		maxIdx := max(idxRef, max(idxType, idxCode))
		if len(record) <= maxIdx {
			continue
		}

		ref := strings.TrimSpace(record[idxRef])
		if ref == "" {
			// Footer or blank spacer row.
			continue
		}

		rows = append(rows, remittance.Row{
			Reference:    ref,
			DocumentType: remittance.DocumentType(strings.TrimSpace(record[idxType])),
			MemberCode:   strings.TrimSpace(record[idxCode]),
		})
	}

	if !headerFound {
		return nil, fmt.Errorf("no header row with %q, %q and %q columns", colReference, colDocumentType, colMemberCode)
	}

	return rows, nil
}
