package aisdoc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmere/ledgermatch/internal/remittance"
	"github.com/oakmere/ledgermatch/internal/remittance/aisdoc"
)

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"Remittance Advice,,,",
		"Oakmere Dairy Services,,,",
		",,,",
		"Member Code,Your Ref,Document Type,Amount",
		"1001,500,Invoice,120.00",
		"1002,59088,Credit Note,-60.00",
		"4552,501,Invoice,50.00",
		",,,",
		",,Total,110.00",
	}, "\n")

	rows, err := aisdoc.New().Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, remittance.Row{Reference: "500", DocumentType: remittance.DocumentTypeInvoice, MemberCode: "1001"}, rows[0])
	assert.Equal(t, remittance.Row{Reference: "59088", DocumentType: remittance.DocumentTypeCreditNote, MemberCode: "1002"}, rows[1])
	assert.Equal(t, remittance.Row{Reference: "501", DocumentType: remittance.DocumentTypeInvoice, MemberCode: "4552"}, rows[2])
}

func TestParse_HeaderOnFirstRow(t *testing.T) {
	input := "Your Ref,Document Type,Member Code\n500,Invoice,1001\n"

	rows, err := aisdoc.New().Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "500", rows[0].Reference)
}

func TestParse_TrimsCellWhitespace(t *testing.T) {
	input := "Your Ref, Document Type ,Member Code\n 500 , Invoice , 1001 \n"

	rows, err := aisdoc.New().Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "500", rows[0].Reference)
	assert.Equal(t, remittance.DocumentTypeInvoice, rows[0].DocumentType)
	assert.Equal(t, "1001", rows[0].MemberCode)
}

func TestParse_ShortRowsAreSkipped(t *testing.T) {
	input := strings.Join([]string{
		"Member Code,Your Ref,Document Type",
		"End of report",
		"1001,500,Invoice",
	}, "\n")

	rows, err := aisdoc.New().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestParse_MissingHeader(t *testing.T) {
	input := "Reference,Type,Code\n500,Invoice,1001\n"

	_, err := aisdoc.New().Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Your Ref")
}

func TestParse_Windows1252Input(t *testing.T) {
	// "Crème" in Windows-1252: 0xE8 for the è.
	input := []byte("Your Ref,Document Type,Member Code,Payee\n500,Invoice,1001,Cr\xe8me Dairy\n")

	rows, err := aisdoc.New().Parse(strings.NewReader(string(input)))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "500", rows[0].Reference)
}
