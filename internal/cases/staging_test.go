package cases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stagedRow(rowIndex int, fields CaseFields) ValidatedRow {
	errs := Validate(fields)
	return ValidatedRow{
		RowIndex: rowIndex,
		Fields:   fields,
		Errors:   errs,
		IsValid:  len(errs) == 0,
	}
}

func testStagingSet() *StagingSet {
	valid := validFields()
	invalid := validFields()
	invalid.CaseID = "C-101"
	invalid.Category = ""

	return NewStagingSet("cases.csv", []string{"case_id", "category"}, []ValidatedRow{
		stagedRow(2, valid),
		stagedRow(3, invalid),
	})
}

// The IsValid flag must track Errors through every mutation path.
func assertVerdictsConsistent(t *testing.T, rows []ValidatedRow) {
	t.Helper()
	for _, r := range rows {
		assert.Equal(t, len(r.Errors) == 0, r.IsValid, "row %d", r.RowIndex)
	}
}

func TestStagingSetPartition(t *testing.T) {
	set := testStagingSet()

	assert.Equal(t, 2, set.Len())
	assert.Len(t, set.Valid(), 1)
	assert.Len(t, set.Invalid(), 1)
	assert.Equal(t, 2, set.Valid()[0].RowIndex)
	assert.Equal(t, 3, set.Invalid()[0].RowIndex)
}

func TestEditRowRevalidates(t *testing.T) {
	set := testStagingSet()

	category := "PERMIT"
	row, err := set.EditRow(3, FieldEdit{Category: &category})
	require.NoError(t, err)

	assert.True(t, row.IsValid)
	assert.Empty(t, row.Errors)
	assert.Equal(t, "PERMIT", row.Fields.Category)

	// The mutation is visible in later reads, not just the return value.
	assert.Len(t, set.Valid(), 2)
	assert.Empty(t, set.Invalid())
	assertVerdictsConsistent(t, set.Rows())
}

func TestEditRowCanInvalidate(t *testing.T) {
	set := testStagingSet()

	empty := ""
	row, err := set.EditRow(2, FieldEdit{CaseID: &empty})
	require.NoError(t, err)

	assert.False(t, row.IsValid)
	assert.Contains(t, row.Errors, "case_id is required")
	assertVerdictsConsistent(t, set.Rows())
}

func TestEditRowLeavesOtherFieldsAlone(t *testing.T) {
	set := testStagingSet()

	email := "new@example.com"
	row, err := set.EditRow(2, FieldEdit{Email: &email})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", row.Fields.Email)
	assert.Equal(t, "C-100", row.Fields.CaseID)
}

func TestEditRowUnknownIndex(t *testing.T) {
	set := testStagingSet()
	_, err := set.EditRow(99, FieldEdit{})
	assert.Error(t, err)
}

func TestApplyFixTrim(t *testing.T) {
	messy := validFields()
	messy.CaseID = "  C-200  "
	messy.ApplicantName = " John Doe "
	set := NewStagingSet("f.csv", nil, []ValidatedRow{stagedRow(2, messy)})

	rows, err := set.ApplyFix(FixTrim)
	require.NoError(t, err)

	assert.Equal(t, "C-200", rows[0].Fields.CaseID)
	assert.Equal(t, "John Doe", rows[0].Fields.ApplicantName)
	assertVerdictsConsistent(t, rows)
}

func TestApplyFixTitleCase(t *testing.T) {
	f := validFields()
	f.ApplicantName = "john doe"
	set := NewStagingSet("f.csv", nil, []ValidatedRow{stagedRow(2, f)})

	rows, err := set.ApplyFix(FixTitleCase)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", rows[0].Fields.ApplicantName)
}

func TestApplyFixNormalizePhone(t *testing.T) {
	f := validFields()
	f.Phone = "(555) 123-4567"
	set := NewStagingSet("f.csv", nil, []ValidatedRow{stagedRow(2, f)})

	rows, err := set.ApplyFix(FixNormalizePhone)
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", rows[0].Fields.Phone)
	assert.True(t, rows[0].IsValid)
}

func TestApplyFixRevalidatesWholeSet(t *testing.T) {
	set := testStagingSet()

	rows, err := set.ApplyFix(FixTrim)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assertVerdictsConsistent(t, rows)
}

func TestApplyFixUnknownKind(t *testing.T) {
	set := testStagingSet()
	_, err := set.ApplyFix(FixKind("uppercase"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fix")
}

func TestStagingSetSnapshotsAreCopies(t *testing.T) {
	set := testStagingSet()

	rows := set.Rows()
	rows[0].Fields.CaseID = "tampered"

	assert.Equal(t, "C-100", set.Rows()[0].Fields.CaseID)
}
