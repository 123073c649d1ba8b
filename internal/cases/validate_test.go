package cases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validFields() CaseFields {
	return CaseFields{
		CaseID:        "C-100",
		ApplicantName: "John Doe",
		DOB:           "1990-05-01",
		Email:         "john@example.com",
		Phone:         "+15551234567",
		Category:      "TAX",
		Priority:      "HIGH",
	}
}

func TestValidateAcceptsCompleteRow(t *testing.T) {
	assert.Empty(t, Validate(validFields()))
}

func TestValidateOptionalFieldsMayBeEmpty(t *testing.T) {
	f := validFields()
	f.Email = ""
	f.Phone = ""
	f.Priority = ""
	assert.Empty(t, Validate(f))
}

func TestValidateRules(t *testing.T) {
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")

	tests := []struct {
		name   string
		mutate func(*CaseFields)
		want   string
	}{
		{
			name:   "missing case id",
			mutate: func(f *CaseFields) { f.CaseID = "   " },
			want:   "case_id is required",
		},
		{
			name:   "missing applicant name",
			mutate: func(f *CaseFields) { f.ApplicantName = "" },
			want:   "applicant_name is required",
		},
		{
			name:   "missing dob",
			mutate: func(f *CaseFields) { f.DOB = "" },
			want:   "dob is required",
		},
		{
			name:   "dob wrong format",
			mutate: func(f *CaseFields) { f.DOB = "05/01/1990" },
			want:   "dob must be a valid ISO date (YYYY-MM-DD)",
		},
		{
			name:   "dob before window",
			mutate: func(f *CaseFields) { f.DOB = "1899-12-31" },
			want:   "dob must be after 1900-01-01",
		},
		{
			name:   "dob in the future",
			mutate: func(f *CaseFields) { f.DOB = tomorrow },
			want:   "dob cannot be in the future",
		},
		{
			name:   "malformed email",
			mutate: func(f *CaseFields) { f.Email = "not-an-email" },
			want:   "email must be a valid email address",
		},
		{
			name:   "email without dot after at",
			mutate: func(f *CaseFields) { f.Email = "user@localhost" },
			want:   "email must be a valid email address",
		},
		{
			name:   "phone not coercible to e164",
			mutate: func(f *CaseFields) { f.Phone = "abc" },
			want:   "phone must be in E.164 format (+[country code][number])",
		},
		{
			name:   "unknown category",
			mutate: func(f *CaseFields) { f.Category = "OTHER" },
			want:   "category must be one of: TAX, LICENSE, PERMIT",
		},
		{
			name:   "unknown priority",
			mutate: func(f *CaseFields) { f.Priority = "URGENT" },
			want:   "priority must be one of: LOW, MEDIUM, HIGH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			errs := Validate(f)
			assert.Contains(t, errs, tt.want)
			assert.Len(t, errs, 1, "only the mutated field should fail")
		})
	}
}

func TestValidateBoundaryDates(t *testing.T) {
	f := validFields()

	f.DOB = "1900-01-01"
	assert.Empty(t, Validate(f), "window lower bound is inclusive")

	f.DOB = time.Now().UTC().Format("2006-01-02")
	assert.Empty(t, Validate(f), "today is not in the future")
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	errs := Validate(CaseFields{Email: "bad", Phone: "xyz"})

	assert.ElementsMatch(t, []string{
		"case_id is required",
		"applicant_name is required",
		"dob is required",
		"email must be a valid email address",
		"phone must be in E.164 format (+[country code][number])",
		"category must be one of: TAX, LICENSE, PERMIT",
	}, errs)
}

func TestValidateDeterministic(t *testing.T) {
	f := validFields()
	f.DOB = "not-a-date"
	f.Category = ""
	first := Validate(f)
	second := Validate(f)
	assert.Equal(t, first, second)
}
