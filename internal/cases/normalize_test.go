package cases

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ten digits assumed US", "1234567890", "+11234567890"},
		{"existing plus kept", "+1 234 567 890", "+1234567890"},
		{"punctuation stripped", "(555) 123-4567", "+15551234567"},
		{"dots and spaces", "555.123.4567", "+15551234567"},
		{"eleven digits leading one", "15551234567", "+15551234567"},
		{"twelve digits india prefix", "919876543210", "+919876543210"},
		{"uk with plus", "+44 20 7946 0958", "+442079460958"},
		{"unrecognized length gets bare plus", "123456", "+123456"},
		{"surrounding whitespace", "  +1 555 123 4567  ", "+15551234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"1234567890", "(555) 123-4567", "919876543210", "+44 20 7946 0958", "123456"}
	for _, in := range inputs {
		once := NormalizePhone(in)
		assert.Equal(t, once, NormalizePhone(once), "input %q", in)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"john doe", "John Doe"},
		{"MARY ANN", "Mary Ann"},
		{"o'neil", "O'neil"},
		{"élise dupont", "Élise Dupont"},
		{"a  b", "A  B"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleCase(tt.input), "input %q", tt.input)
	}
}

func TestNormalizeCanonicalHeaders(t *testing.T) {
	fields := Normalize(RawRow{
		"case_id":        "  C-001  ",
		"applicant_name": " john doe ",
		"dob":            " 1990-05-01 ",
		"email":          "john@example.com",
		"phone":          "(555) 123-4567",
		"category":       "tax",
		"priority":       "high",
	})

	assert.Equal(t, "C-001", fields.CaseID)
	assert.Equal(t, "john doe", fields.ApplicantName)
	assert.Equal(t, "1990-05-01", fields.DOB)
	assert.Equal(t, "john@example.com", fields.Email)
	assert.Equal(t, "+15551234567", fields.Phone)
	assert.Equal(t, "TAX", fields.Category)
	assert.Equal(t, "HIGH", fields.Priority)
}

func TestNormalizeHeaderAliases(t *testing.T) {
	fields := Normalize(RawRow{
		"caseId":        "C-002",
		"applicantName": "Jane Roe",
		"dateOfBirth":   "1985-03-15",
		"phoneNumber":   "1234567890",
		"category":      "LICENSE",
	})

	assert.Equal(t, "C-002", fields.CaseID)
	assert.Equal(t, "Jane Roe", fields.ApplicantName)
	assert.Equal(t, "1985-03-15", fields.DOB)
	assert.Equal(t, "+11234567890", fields.Phone)
	assert.Equal(t, "LICENSE", fields.Category)
	assert.Empty(t, fields.Priority, "absent priority stays empty for the store default")
}

func TestNormalizeMissingOptionalFields(t *testing.T) {
	fields := Normalize(RawRow{
		"case_id":        "C-003",
		"applicant_name": "Sam Lee",
		"dob":            "2000-01-01",
		"category":       "PERMIT",
		"email":          "   ",
		"phone":          "",
	})

	assert.Empty(t, fields.Email)
	assert.Empty(t, fields.Phone)
}
