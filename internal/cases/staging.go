package cases

import (
	"fmt"
	"strings"
	"sync"
)

// FixKind names a column-wide transform applied by ApplyFix.
type FixKind string

const (
	// FixTrim strips surrounding whitespace from caseId, applicantName,
	// email, and phone.
	FixTrim FixKind = "trim"
	// FixTitleCase title-cases the applicant name.
	FixTitleCase FixKind = "titleCase"
	// FixNormalizePhone re-runs the phone country-code heuristic.
	FixNormalizePhone FixKind = "normalizePhone"
)

// StagingSet is the addressable working set of validated rows held between
// preview and commit. All mutation goes through EditRow and ApplyFix, both
// of which re-validate the affected rows before returning, so a row's
// IsValid flag can never go stale.
//
// A StagingSet belongs to one import session and assumes a single logical
// writer; the mutex guards against overlapping HTTP retries, not against
// intended concurrent use.
type StagingSet struct {
	mu       sync.Mutex
	fileName string
	columns  []string
	rows     []ValidatedRow
}

// NewStagingSet builds a staging set from validated rows. Row indexes must
// be unique; they are preserved end-to-end into the commit ledger.
func NewStagingSet(fileName string, columns []string, rows []ValidatedRow) *StagingSet {
	owned := make([]ValidatedRow, len(rows))
	copy(owned, rows)
	return &StagingSet{
		fileName: fileName,
		columns:  append([]string(nil), columns...),
		rows:     owned,
	}
}

// FileName returns the display name of the uploaded file.
func (s *StagingSet) FileName() string {
	return s.fileName
}

// Columns returns the original column headers in upload order.
func (s *StagingSet) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Len returns the number of staged rows.
func (s *StagingSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Rows returns a snapshot of all staged rows in position order.
func (s *StagingSet) Rows() []ValidatedRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Valid returns the rows currently passing validation, the candidates for
// commit. The result is a derived view, not separately stored state.
func (s *StagingSet) Valid() []ValidatedRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ValidatedRow
	for _, r := range s.rows {
		if r.IsValid {
			out = append(out, cloneRow(r))
		}
	}
	return out
}

// Invalid returns the rows currently failing validation, surfaced to the
// user for manual correction.
func (s *StagingSet) Invalid() []ValidatedRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ValidatedRow
	for _, r := range s.rows {
		if !r.IsValid {
			out = append(out, cloneRow(r))
		}
	}
	return out
}

// FieldEdit carries the canonical field values to replace on one row.
// Nil pointers leave the corresponding field untouched.
type FieldEdit struct {
	CaseID        *string `json:"case_id,omitempty"`
	ApplicantName *string `json:"applicant_name,omitempty"`
	DOB           *string `json:"dob,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Category      *string `json:"category,omitempty"`
	Priority      *string `json:"priority,omitempty"`
}

// EditRow replaces fields on the row with the given row index and
// re-validates it atomically with the mutation. Edits are assumed already
// canonical from the editor: no re-normalization is applied.
func (s *StagingSet) EditRow(rowIndex int, edit FieldEdit) (ValidatedRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		if s.rows[i].RowIndex != rowIndex {
			continue
		}
		applyEdit(&s.rows[i].Fields, edit)
		s.rows[i].revalidate()
		return cloneRow(s.rows[i]), nil
	}
	return ValidatedRow{}, fmt.Errorf("row %d not found in staging set", rowIndex)
}

// ApplyFix applies one named transform to every row's relevant fields and
// re-validates the whole set. The returned snapshot reflects the new state.
func (s *StagingSet) ApplyFix(kind FixKind) ([]ValidatedRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case FixTrim:
		for i := range s.rows {
			f := &s.rows[i].Fields
			f.CaseID = TrimWhitespace(f.CaseID)
			f.ApplicantName = TrimWhitespace(f.ApplicantName)
			f.Email = TrimWhitespace(f.Email)
			f.Phone = TrimWhitespace(f.Phone)
		}
	case FixTitleCase:
		for i := range s.rows {
			f := &s.rows[i].Fields
			if strings.TrimSpace(f.ApplicantName) != "" {
				f.ApplicantName = TitleCase(f.ApplicantName)
			}
		}
	case FixNormalizePhone:
		for i := range s.rows {
			f := &s.rows[i].Fields
			if strings.TrimSpace(f.Phone) != "" {
				f.Phone = NormalizePhone(f.Phone)
			}
		}
	default:
		return nil, fmt.Errorf("unknown fix %q", kind)
	}

	for i := range s.rows {
		s.rows[i].revalidate()
	}
	return s.snapshot(), nil
}

// snapshot copies the rows; callers hold the lock.
func (s *StagingSet) snapshot() []ValidatedRow {
	out := make([]ValidatedRow, len(s.rows))
	for i, r := range s.rows {
		out[i] = cloneRow(r)
	}
	return out
}

func cloneRow(r ValidatedRow) ValidatedRow {
	r.Errors = append([]string(nil), r.Errors...)
	return r
}

func applyEdit(f *CaseFields, edit FieldEdit) {
	if edit.CaseID != nil {
		f.CaseID = *edit.CaseID
	}
	if edit.ApplicantName != nil {
		f.ApplicantName = *edit.ApplicantName
	}
	if edit.DOB != nil {
		f.DOB = *edit.DOB
	}
	if edit.Email != nil {
		f.Email = *edit.Email
	}
	if edit.Phone != nil {
		f.Phone = *edit.Phone
	}
	if edit.Category != nil {
		f.Category = *edit.Category
	}
	if edit.Priority != nil {
		f.Priority = *edit.Priority
	}
}
