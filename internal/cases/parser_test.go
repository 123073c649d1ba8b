package cases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "case_id,applicant_name,dob,email,phone,category,priority\n" +
	"C-001,john doe,1990-05-01,john@example.com,(555) 123-4567,TAX,HIGH\n" +
	"C-002,Jane Roe,1985-03-15,,,LICENSE,\n"

func TestParseTable(t *testing.T) {
	table, err := ParseTable([]byte(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"case_id", "applicant_name", "dob", "email", "phone", "category", "priority"}, table.Columns)
	assert.Equal(t, 2, table.FirstDataLine)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "C-001", table.Rows[0]["case_id"])
	assert.Equal(t, "(555) 123-4567", table.Rows[0]["phone"])
	assert.Equal(t, "Jane Roe", table.Rows[1]["applicant_name"])
}

func TestParseTableStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("case_id,category\nC-001,TAX\n")...)
	table, err := ParseTable(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"case_id", "category"}, table.Columns)
}

func TestParseTableSkipsBlankRecords(t *testing.T) {
	table, err := ParseTable([]byte("case_id,category\nC-001,TAX\n\"\",\nC-002,PERMIT\n"))
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestParseTableQuotedFields(t *testing.T) {
	table, err := ParseTable([]byte("case_id,applicant_name\nC-001,\"Doe, John\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "Doe, John", table.Rows[0]["applicant_name"])
}

func TestParseTableDuplicateHeadersLastWins(t *testing.T) {
	table, err := ParseTable([]byte("case_id,category,category\nC-001,TAX,PERMIT\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"case_id", "category", "category"}, table.Columns)
	assert.Equal(t, "PERMIT", table.Rows[0]["category"])
}

func TestParseTableRejections(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"empty file", "", "empty file"},
		{"whitespace only", "  \n  \n", "empty file"},
		{"header only", "case_id,category\n", "no data rows after header"},
		{"inconsistent columns", "case_id,category\nC-001,TAX,extra\n", "inconsistent column count"},
		{"unterminated quote", "case_id,applicant_name\nC-001,\"broken\n", `extraneous or missing " in quoted-field`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable([]byte(tt.input))
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, pe.Reason, tt.reason)
			assert.Contains(t, err.Error(), "invalid csv")
		})
	}
}

func TestParseErrorReportsLine(t *testing.T) {
	_, err := ParseTable([]byte("case_id,category\nC-001,TAX\nC-002\n"))
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Line)
}

func TestParseAndValidate(t *testing.T) {
	input := "case_id,applicant_name,dob,category\n" +
		"C-001,John Doe,1990-05-01,TAX\n" +
		"C-002,Jane Roe,1990-05-01,\n"

	table, rows, err := ParseAndValidate([]byte(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, table.FirstDataLine)

	// Row indexes are file line numbers, header included.
	assert.Equal(t, 2, rows[0].RowIndex)
	assert.Equal(t, 3, rows[1].RowIndex)

	assert.True(t, rows[0].IsValid)
	assert.Empty(t, rows[0].Errors)
	assert.NotNil(t, rows[0].Errors, "errors always marshals as an array")

	assert.False(t, rows[1].IsValid)
	assert.Contains(t, rows[1].Errors, "category must be one of: TAX, LICENSE, PERMIT")
}

func TestParseAndValidateNormalizesFields(t *testing.T) {
	input := "caseId,applicantName,dateOfBirth,phoneNumber,category\n" +
		"C-010,john doe,1990-05-01,1234567890,tax\n"

	_, rows, err := ParseAndValidate([]byte(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "C-010", rows[0].Fields.CaseID)
	assert.Equal(t, "+11234567890", rows[0].Fields.Phone)
	assert.Equal(t, "TAX", rows[0].Fields.Category)
	assert.True(t, rows[0].IsValid)
}
