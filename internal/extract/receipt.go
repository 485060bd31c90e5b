package extract

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// amountPattern matches a monetary amount: comma-grouped digits with
	// exactly two decimal places.
	amountPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{2}`)
	// idRunPattern captures the alphanumeric/hyphen run after an id marker.
	idRunPattern = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9-]*`)
	// timeTriplePattern matches a colon-separated numeric time triple.
	timeTriplePattern = regexp.MustCompile(`\d{1,2}:\d{2}:\d{2}`)
)

// itemLookback bounds how far above an amount line the item description may
// sit.
const itemLookback = 3

// receiptStrategy extracts the itemized clinic receipt via targeted marker
// patterns rather than the generic label scan.
type receiptStrategy struct {
	dict *Dictionary
}

func (s *receiptStrategy) eligible(lines []string) bool {
	text := collapse(strings.Join(lines, "\n"))
	for _, tok := range s.dict.Receipt.Mandatory {
		if !strings.Contains(text, collapse(tok)) {
			return false
		}
	}
	return true
}

func (s *receiptStrategy) extract(raw string, lines []string, now time.Time) Record {
	m := s.dict.Receipt

	rec := &Receipt{
		Identifier:  markerRun(lines, m.Identifier),
		SecondaryID: markerRun(lines, m.SecondaryID),
		PaymentType: markerRemainder(lines, m.Payment),
		Raw:         raw,
		Timestamp:   now,
	}

	rec.DateRaw, rec.TimeRaw = s.dateAndTime(lines)
	rec.PatientName = s.patientName(lines)
	rec.Total = s.amountOnLineWith(lines, m.Total, true)
	rec.VAT = s.amountOnLineWith(lines, m.VAT, false)
	rec.Items = s.items(lines)

	return rec
}

// markerRun finds the first line carrying one of the markers and captures the
// alphanumeric/hyphen run following it.
func markerRun(lines []string, markers []string) string {
	for _, marker := range markers {
		lowerMarker := strings.ToLower(marker)
		for _, line := range lines {
			idx := strings.Index(strings.ToLower(line), lowerMarker)
			if idx < 0 {
				continue
			}
			if run := idRunPattern.FindString(line[idx+len(marker):]); run != "" {
				return run
			}
		}
	}
	return ""
}

// markerRemainder finds the first line carrying one of the markers and
// returns the text after its separator.
func markerRemainder(lines []string, markers []string) string {
	for _, marker := range markers {
		lowerMarker := strings.ToLower(marker)
		for _, line := range lines {
			idx := strings.Index(strings.ToLower(line), lowerMarker)
			if idx < 0 {
				continue
			}
			rest := strings.TrimSpace(line[idx+len(marker):])
			rest = strings.TrimSpace(strings.TrimLeft(rest, ":："))
			if rest != "" {
				return rest
			}
		}
	}
	return ""
}

// dateAndTime captures the receipt date and time. When both markers share a
// line the date is the text between them; otherwise each is captured from
// whichever line carries its marker.
func (s *receiptStrategy) dateAndTime(lines []string) (string, string) {
	m := s.dict.Receipt

	for _, line := range lines {
		dateMarker := prefixMarker(line, m.Date)
		if dateMarker == "" {
			continue
		}
		rest := strings.TrimSpace(line[len(dateMarker):])
		rest = strings.TrimSpace(strings.TrimLeft(rest, ":："))

		if timeIdx, timeMarker := indexAny(rest, m.Time); timeIdx >= 0 {
			date := strings.TrimSpace(rest[:timeIdx])
			timeText := timeTriplePattern.FindString(rest[timeIdx+len(timeMarker):])
			return date, timeText
		}
		return rest, s.timeFromAnyLine(lines)
	}

	return "", s.timeFromAnyLine(lines)
}

func (s *receiptStrategy) timeFromAnyLine(lines []string) string {
	for _, line := range lines {
		if idx, marker := indexAny(line, s.dict.Receipt.Time); idx >= 0 {
			return timeTriplePattern.FindString(line[idx+len(marker):])
		}
	}
	return ""
}

// patientName captures the name near the name marker. OCR often splits the
// honorific onto its own line between the marker and the name.
func (s *receiptStrategy) patientName(lines []string) string {
	m := s.dict.Receipt

	for i, line := range lines {
		marker := prefixMarker(line, m.Name)
		if marker == "" {
			continue
		}
		rest := strings.TrimSpace(line[len(marker):])
		rest = strings.TrimSpace(strings.TrimLeft(rest, ":："))

		if i+1 < len(lines) && s.isHonorific(lines[i+1]) {
			if i+2 < len(lines) {
				return lines[i+2]
			}
			return ""
		}
		if rest != "" {
			return rest
		}
		if i+1 < len(lines) {
			return lines[i+1]
		}
		return ""
	}
	return ""
}

func (s *receiptStrategy) isHonorific(line string) bool {
	trimmed := strings.TrimSuffix(strings.TrimSpace(line), ".")
	if utf8.RuneCountInString(trimmed) > 6 {
		return false
	}
	for _, h := range s.dict.Receipt.Honorifics {
		if trimmed == h {
			return true
		}
	}
	return false
}

// amountOnLineWith returns the amount on a line containing one of the given
// tokens, skipping ignored (signature/cashier/page) lines. With fallback set,
// the last amount anywhere in the text is returned when no such line exists.
func (s *receiptStrategy) amountOnLineWith(lines []string, tokens []string, fallback bool) string {
	found := ""
	for _, line := range lines {
		if containsAny(line, s.dict.Receipt.Ignore) {
			continue
		}
		if !containsAny(line, tokens) {
			continue
		}
		if amt := amountPattern.FindString(line); amt != "" {
			// Keep scanning: the grand total follows any subtotal lines.
			found = amt
		}
	}
	if found != "" || !fallback {
		return found
	}

	for _, line := range lines {
		if amt := amountPattern.FindString(line); amt != "" {
			found = amt
		}
	}
	return found
}

// items pairs each amount-bearing line with its description: the text before
// the amount on the same line when long enough, otherwise the nearest
// qualifying line within the lookback window above.
func (s *receiptStrategy) items(lines []string) []ReceiptItem {
	m := s.dict.Receipt
	skip := make([]string, 0, len(m.Total)+len(m.VAT)+len(m.Ignore))
	skip = append(skip, m.Total...)
	skip = append(skip, m.VAT...)
	skip = append(skip, m.Ignore...)

	var items []ReceiptItem
	seen := make(map[string]bool)

	for i, line := range lines {
		loc := amountPattern.FindStringIndex(line)
		if loc == nil || containsAny(line, skip) {
			continue
		}
		amount := line[loc[0]:loc[1]]

		desc := strings.TrimSpace(line[:loc[0]])
		if utf8.RuneCountInString(desc) < 3 {
			desc = s.lookbackDescription(lines, i)
		}
		if desc == "" {
			continue
		}

		key := desc + "|" + amount
		if seen[key] {
			continue
		}
		seen[key] = true

		items = append(items, ReceiptItem{Description: desc, Amount: amount})
		if len(items) >= maxReceiptItems {
			break
		}
	}
	return items
}

// lookbackDescription scans up to itemLookback lines above index i for the
// nearest line with no amount, no ignored marker, and length >= 3.
func (s *receiptStrategy) lookbackDescription(lines []string, i int) string {
	for j := i - 1; j >= 0 && j >= i-itemLookback; j-- {
		cand := lines[j]
		if amountPattern.MatchString(cand) {
			continue
		}
		if containsAny(cand, s.dict.Receipt.Ignore) {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(cand)) < 3 {
			continue
		}
		return strings.TrimSpace(cand)
	}
	return ""
}

// prefixMarker returns the marker that the line starts with, or "".
func prefixMarker(line string, markers []string) string {
	lower := strings.ToLower(line)
	for _, marker := range markers {
		if strings.HasPrefix(lower, strings.ToLower(marker)) {
			return marker
		}
	}
	return ""
}

// indexAny returns the position and marker of the first token found in line.
func indexAny(line string, markers []string) (int, string) {
	lower := strings.ToLower(line)
	for _, marker := range markers {
		if idx := strings.Index(lower, strings.ToLower(marker)); idx >= 0 {
			return idx, marker
		}
	}
	return -1, ""
}
