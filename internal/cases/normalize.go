package cases

import (
	"strings"
	"unicode/utf8"
)

// fieldAliases maps each canonical field to the column names it may appear
// under in an upload. Lookup is case-insensitive; first present alias wins.
var fieldAliases = map[string][]string{
	"case_id":        {"case_id", "caseId", "caseid"},
	"applicant_name": {"applicant_name", "applicantName", "applicantname"},
	"dob":            {"dob", "dateOfBirth", "date_of_birth", "dateofbirth"},
	"email":          {"email"},
	"phone":          {"phone", "phone_number", "phoneNumber"},
	"category":       {"category"},
	"priority":       {"priority"},
}

// Normalize converts a raw row into canonical CaseFields.
//
// Strings are trimmed, enum codes are uppercased, and the phone number is
// run through the country-code heuristic. Normalization never fails: it
// always produces a best-effort record and defers correctness judgment to
// Validate.
func Normalize(raw RawRow) CaseFields {
	lookup := func(field string) string {
		for _, alias := range fieldAliases[field] {
			for col, val := range raw {
				if strings.EqualFold(col, alias) && strings.TrimSpace(val) != "" {
					return val
				}
			}
		}
		return ""
	}

	fields := CaseFields{
		CaseID:        strings.TrimSpace(lookup("case_id")),
		ApplicantName: strings.TrimSpace(lookup("applicant_name")),
		DOB:           strings.TrimSpace(lookup("dob")),
		Category:      strings.ToUpper(strings.TrimSpace(lookup("category"))),
	}

	if email := strings.TrimSpace(lookup("email")); email != "" {
		fields.Email = email
	}
	if phone := strings.TrimSpace(lookup("phone")); phone != "" {
		fields.Phone = NormalizePhone(phone)
	}
	if priority := strings.TrimSpace(lookup("priority")); priority != "" {
		fields.Priority = strings.ToUpper(priority)
	}

	return fields
}

// NormalizePhone coerces a phone number toward E.164 form.
//
// Every character except digits and a leading + is stripped. If the result
// lacks a country code, a best-effort guess is applied: 10 digits are
// assumed US (+1), 12 digits starting with 91 are assumed India, 11 digits
// starting with 1 get a bare +, and anything else gets + prepended as-is.
// This is a heuristic, not a validated telecom parse; Validate is the
// actual gate. Applying it twice yields the same result.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	hasPlus := strings.HasPrefix(phone, "+")
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cleaned := digits.String()

	if hasPlus {
		return "+" + cleaned
	}

	switch {
	case len(cleaned) == 10:
		return "+1" + cleaned
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "91"):
		return "+" + cleaned
	case len(cleaned) == 11 && strings.HasPrefix(cleaned, "1"):
		return "+" + cleaned
	default:
		return "+" + cleaned
	}
}

// TrimWhitespace strips surrounding whitespace. Exists as a named helper so
// the bulk-fix registry can refer to it.
func TrimWhitespace(value string) string {
	return strings.TrimSpace(value)
}

// TitleCase capitalizes each space-separated word and lowercases the rest:
// "john doe" becomes "John Doe".
func TitleCase(value string) string {
	words := strings.Split(strings.ToLower(value), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
