// Package validate holds the small input validators shared by the upload and
// search flows.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	employeeCodePattern = regexp.MustCompile(`^A(\d{4})$`)
	dateDMYPattern      = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// EmployeeCode validates an employee code and returns its canonical form
// ("A" + four zero-padded digits). Matching is case-insensitive and ignores
// internal whitespace; the numeric part must lie in [1, 2000].
func EmployeeCode(text string) (string, bool) {
	normalized := strings.ToUpper(whitespacePattern.ReplaceAllString(strings.TrimSpace(text), ""))

	m := employeeCodePattern.FindStringSubmatch(normalized)
	if m == nil {
		return "", false
	}

	num, err := strconv.Atoi(m[1])
	if err != nil || num < 1 || num > 2000 {
		return "", false
	}

	return fmt.Sprintf("A%04d", num), true
}

// DateDMY reports whether text is a plausible day/month/year date with "/"
// separators, as entered in the search-by-date flow.
func DateDMY(text string) bool {
	m := dateDMYPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])

	return day >= 1 && day <= 31 && month >= 1 && month <= 12
}
