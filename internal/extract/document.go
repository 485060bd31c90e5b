package extract

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// minLabelMatches is how many generic-form labels must appear for text to
// qualify as a labeled form.
const minLabelMatches = 2

// dayMonthYearPattern is the whole-value shape test used by swap-correction.
var dayMonthYearPattern = regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}$`)

// documentStrategy extracts the generic labeled form: one value per
// canonical field, found either on the label's own line or on a following
// line.
type documentStrategy struct {
	dict *Dictionary
}

func (s *documentStrategy) eligible(lines []string) bool {
	text := collapse(strings.Join(lines, "\n"))

	matches := 0
	for _, fl := range s.dict.Fields {
		for _, syn := range fl.Synonyms {
			if strings.Contains(text, collapse(syn)) {
				matches++
				break
			}
		}
	}
	return matches >= minLabelMatches
}

func (s *documentStrategy) extract(raw string, lines []string, now time.Time) Record {
	values := make(map[string]string, len(s.dict.Fields))
	for _, fl := range s.dict.Fields {
		values[fl.Field] = s.fieldValue(lines, fl.Synonyms)
	}

	doc := &Document{
		Date:      values[FieldDate],
		DocNumber: values[FieldDocNumber],
		Name:      values[FieldName],
		Detail:    values[FieldDetail],
		Remark:    values[FieldRemark],
		Raw:       raw,
		Timestamp: now,
	}

	// Swapped-field correction runs exactly once, then the length guard.
	doc.Date, doc.DocNumber = swapCorrect(doc.Date, doc.DocNumber)
	if utf8.RuneCountInString(doc.DocNumber) > maxDocNumberLen {
		doc.DocNumber = ""
	}

	return doc
}

// fieldValue tries the same-line strategy first, then next-line. The first
// matching synonym wins per strategy.
func (s *documentStrategy) fieldValue(lines []string, synonyms []string) string {
	if v := sameLineValue(lines, synonyms); v != "" {
		return v
	}
	return nextLineValue(lines, synonyms)
}

// sameLineValue finds a line shaped "<label><optional separator><value>" and
// returns the trailing value.
func sameLineValue(lines []string, synonyms []string) string {
	for _, syn := range synonyms {
		lowerSyn := strings.ToLower(syn)
		for _, line := range lines {
			lower := strings.ToLower(line)
			if !strings.HasPrefix(lower, lowerSyn) {
				continue
			}
			rest := strings.TrimSpace(line[len(syn):])
			rest = strings.TrimLeft(rest, ":：=-")
			rest = strings.TrimSpace(rest)
			if rest != "" {
				return rest
			}
		}
	}
	return ""
}

// nextLineValue finds a line that, ignoring whitespace, equals a label
// synonym, then returns the first non-garbage line within the lookahead
// window below it.
func nextLineValue(lines []string, synonyms []string) string {
	for _, syn := range synonyms {
		collapsed := collapse(syn)
		for i, line := range lines {
			if collapse(line) != collapsed {
				continue
			}
			for j := i + 1; j < len(lines) && j <= i+nextLineLookahead; j++ {
				if !isGarbageLine(lines[j]) {
					return lines[j]
				}
			}
		}
	}
	return ""
}

// swapCorrect exchanges the date and doc-number values when shape evidence
// says they landed in the wrong fields: the doc number looks like a
// day/month/year date while the date does not. Applied at most once; after a
// swap the condition no longer holds, so repeated runs never oscillate.
func swapCorrect(date, docNumber string) (string, string) {
	if looksLikeDate(docNumber) && !looksLikeDate(date) {
		return docNumber, date
	}
	return date, docNumber
}

func looksLikeDate(v string) bool {
	return dayMonthYearPattern.MatchString(strings.TrimSpace(v))
}
