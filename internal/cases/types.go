package cases

// RawRow maps an original column header to its raw string value.
// One RawRow is produced per input line and is immutable once parsed.
type RawRow map[string]string

// Category is the case category enum.
type Category string

const (
	CategoryTax     Category = "TAX"
	CategoryLicense Category = "LICENSE"
	CategoryPermit  Category = "PERMIT"
)

// Categories lists the valid category values in display order.
var Categories = []Category{CategoryTax, CategoryLicense, CategoryPermit}

// Priority is the case priority enum. Empty means LOW.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists the valid priority values in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// CaseFields is the canonical case record. It is always derived by
// normalization and never hand-constructed from raw input.
type CaseFields struct {
	CaseID        string `json:"case_id"`
	ApplicantName string `json:"applicant_name"`
	DOB           string `json:"dob"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Category      string `json:"category"`
	Priority      string `json:"priority,omitempty"`
}

// ValidatedRow is a normalized row with its validation verdict.
// IsValid is a pure function of Errors; the two are never set independently.
type ValidatedRow struct {
	// RowIndex is the 1-based line number in the source file; the header
	// occupies line 1, so data rows start at 2.
	RowIndex int        `json:"rowIndex"`
	Fields   CaseFields `json:"data"`
	Errors   []string   `json:"errors"`
	IsValid  bool       `json:"isValid"`
}

// revalidate recomputes Errors and IsValid from the current fields.
func (r *ValidatedRow) revalidate() {
	r.Errors = Validate(r.Fields)
	r.IsValid = len(r.Errors) == 0
}

// ParsedTable is the output of ParseTable: the ordered column headers and
// one RawRow per data line.
type ParsedTable struct {
	Columns []string
	Rows    []RawRow
	// FirstDataLine is the line number of the first data row (header + 1).
	FirstDataLine int
}

// CommitOutcome records the fate of one attempted row: either the case was
// created (Committed true, CaseID set) or it was rejected with reasons.
type CommitOutcome struct {
	RowIndex  int        `json:"rowIndex"`
	Committed bool       `json:"committed"`
	CaseID    string     `json:"caseId,omitempty"`
	Fields    CaseFields `json:"data"`
	Errors    []string   `json:"errors,omitempty"`
}

// CommitSummary is the roll-up of a batch commit.
type CommitSummary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// CommitResult is the full output of a batch commit: the import job that
// tracked it, an ordered per-row ledger, and the summary counts.
// Every submitted row appears in Outcomes exactly once.
type CommitResult struct {
	ImportJobID string          `json:"importJobId"`
	Outcomes    []CommitOutcome `json:"outcomes"`
	Summary     CommitSummary   `json:"summary"`
}
