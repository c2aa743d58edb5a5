package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Grade codes are short letter grades such as "A", "B+", "CC"
	GradePattern = `^[A-Fa-f][A-Fa-f+\-]?$`

	// Credit value bounds for a course
	CreditMin = 1
	CreditMax = 6

	// Grade max length (column is VARCHAR(2))
	GradeMaxLength = 2
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email *regexp.Regexp
	Grade *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
	Grade: regexp.MustCompile(GradePattern),
}

// IsValidEmail checks email syntax. Uniqueness is not enforced here.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	return CompiledPatterns.Email.MatchString(email)
}

// IsValidCredit checks the course credit range, boundaries inclusive.
func IsValidCredit(credit int) bool {
	return credit >= CreditMin && credit <= CreditMax
}

// IsValidGrade checks the grade length only. Grades are not validated
// against an enumerated set, any short code up to 2 characters is stored.
func IsValidGrade(grade string) bool {
	grade = strings.TrimSpace(grade)
	return grade != "" && len(grade) <= GradeMaxLength
}

// IsBlank reports whether the string is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
