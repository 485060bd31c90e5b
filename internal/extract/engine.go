// Package extract turns raw recognized text into structured records. The
// heuristics are deterministic: identical input and dictionary always yield
// identical output.
package extract

import (
	"strings"
	"time"
	"unicode"
)

const (
	// nextLineLookahead bounds how far below a bare label the value may sit.
	nextLineLookahead = 6
	// maxDocNumberLen discards runaway doc-number captures as mis-extractions.
	maxDocNumberLen = 40
	// maxReceiptItems caps the item list of one receipt.
	maxReceiptItems = 30
)

// strategy is one document-family extraction implementation.
type strategy interface {
	// eligible is the document-shape check for this family.
	eligible(lines []string) bool
	// extract builds the best-effort record. It never fails.
	extract(raw string, lines []string, now time.Time) Record
}

// Engine dispatches between the document-family strategies over one shared
// dictionary.
type Engine struct {
	dict       *Dictionary
	strategies map[Kind]strategy
}

// NewEngine creates an Engine over the given dictionary, or the default
// dictionary when nil.
func NewEngine(dict *Dictionary) *Engine {
	if dict == nil {
		dict = DefaultDictionary()
	}
	e := &Engine{dict: dict}
	e.strategies = map[Kind]strategy{
		KindDocument: &documentStrategy{dict: dict},
		KindReceipt:  &receiptStrategy{dict: dict},
	}
	return e
}

// Detect classifies raw text into a document family. Receipts are checked
// first: receipt text also contains generic-looking labels, so the stricter
// all-tokens check must win. ok is false when neither shape qualifies.
func (e *Engine) Detect(raw string) (Kind, bool) {
	lines := splitLines(raw)
	if e.strategies[KindReceipt].eligible(lines) {
		return KindReceipt, true
	}
	if e.strategies[KindDocument].eligible(lines) {
		return KindDocument, true
	}
	return KindDocument, false
}

// Extract runs the strategy for kind over raw text. The result always carries
// the raw input and the given timestamp; unmatched fields stay empty.
func (e *Engine) Extract(kind Kind, raw string, now time.Time) Record {
	return e.strategies[kind].extract(raw, splitLines(raw), now)
}

// splitLines returns the trimmed, non-empty lines of raw text.
func splitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// collapse removes all whitespace and lowercases, for whitespace-insensitive
// label matching.
func collapse(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// containsAny reports whether line contains any of the tokens,
// case-insensitively.
func containsAny(line string, tokens []string) bool {
	lower := strings.ToLower(line)
	for _, tok := range tokens {
		if strings.Contains(lower, strings.ToLower(tok)) {
			return true
		}
	}
	return false
}

// isGarbageLine reports whether a line is too uninformative to serve as a
// field value: no letter or digit of any script, only combining marks, or a
// single rune.
func isGarbageLine(line string) bool {
	runes := []rune(strings.TrimSpace(line))
	if len(runes) <= 1 {
		return true
	}

	hasAlnum := false
	allMarks := true
	for _, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			hasAlnum = true
		}
		if !unicode.Is(unicode.Mn, r) {
			allMarks = false
		}
	}

	return !hasAlnum || allMarks
}
