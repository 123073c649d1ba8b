package cases

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// emailRegex accepts local@domain.tld: at least one @, no whitespace, and
// a dot after the @.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// phoneRegex is E.164: + followed by 2-15 digits, first digit 1-9.
var phoneRegex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// minDOB is the earliest accepted date of birth.
var minDOB = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Validate applies the domain rules to normalized fields and returns every
// violation as a human-readable message. All applicable checks run; errors
// accumulate rather than short-circuiting. An empty result means the row
// is valid.
//
// Validation is deterministic and side-effect-free: the same input always
// produces the same verdict.
func Validate(fields CaseFields) []string {
	errs := []string{}

	if strings.TrimSpace(fields.CaseID) == "" {
		errs = append(errs, "case_id is required")
	}

	if strings.TrimSpace(fields.ApplicantName) == "" {
		errs = append(errs, "applicant_name is required")
	}

	if fields.DOB == "" {
		errs = append(errs, "dob is required")
	} else if dob, err := time.Parse("2006-01-02", fields.DOB); err != nil {
		errs = append(errs, "dob must be a valid ISO date (YYYY-MM-DD)")
	} else if dob.Before(minDOB) {
		errs = append(errs, "dob must be after 1900-01-01")
	} else if dob.After(endOfToday()) {
		errs = append(errs, "dob cannot be in the future")
	}

	if strings.TrimSpace(fields.Email) != "" && !emailRegex.MatchString(fields.Email) {
		errs = append(errs, "email must be a valid email address")
	}

	if strings.TrimSpace(fields.Phone) != "" {
		if !phoneRegex.MatchString(NormalizePhone(fields.Phone)) {
			errs = append(errs, "phone must be in E.164 format (+[country code][number])")
		}
	}

	if !isValidCategory(fields.Category) {
		errs = append(errs, fmt.Sprintf("category must be one of: %s", joinCategories()))
	}

	if fields.Priority != "" && !isValidPriority(fields.Priority) {
		errs = append(errs, fmt.Sprintf("priority must be one of: %s", joinPriorities()))
	}

	return errs
}

// endOfToday returns the last instant of the current UTC day, so a dob
// equal to today's date is accepted.
func endOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
}

func isValidCategory(v string) bool {
	for _, c := range Categories {
		if v == string(c) {
			return true
		}
	}
	return false
}

func isValidPriority(v string) bool {
	for _, p := range Priorities {
		if v == string(p) {
			return true
		}
	}
	return false
}

func joinCategories() string {
	parts := make([]string, len(Categories))
	for i, c := range Categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func joinPriorities() string {
	parts := make([]string, len(Priorities))
	for i, p := range Priorities {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
