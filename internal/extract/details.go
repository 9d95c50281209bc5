package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"lease-risk-eval/internal/report"
)

// Heuristic search windows, in bytes of lowercased text. Fixed so that
// extraction is deterministic for identical input.
const (
	windowBefore = 40
	windowAfter  = 120
)

var (
	moneyRe  = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	slashRe  = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	isoRe    = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	longRe   = regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`)
	nameRe   = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+){0,2}\b`)
	noticeRe = regexp.MustCompile(`([0-9]+)\s*(?:\([a-z ]+\)\s*)?days'?\s*(?:written\s+|prior\s+)?notice`)
)

// Facts holds the structured facts pulled from one contract text. Numeric
// fields are zero when the fact could not be located; Details contains
// only the facts that were actually found.
type Facts struct {
	MonthlyRent     float64
	SecurityDeposit float64
	PetDeposit      float64
	Details         []report.KeyDetail
}

// DepositRatio returns deposit-to-rent ratio and whether both inputs were
// available to compute it. Pet deposits count toward the combined total.
func (f Facts) DepositRatio() (float64, bool) {
	if f.MonthlyRent <= 0 || f.SecurityDeposit+f.PetDeposit <= 0 {
		return 0, false
	}
	return (f.SecurityDeposit + f.PetDeposit) / f.MonthlyRent, true
}

// FromText extracts key details from raw contract text. Absent facts are
// simply omitted, never fabricated; labels in the output are unique.
func FromText(text string) Facts {
	var f Facts
	lower := strings.ToLower(text)

	if v, _, ok := moneyNear(text, lower, "monthly rent", "rent"); ok {
		f.MonthlyRent = v
		f.add("Monthly Rent", formatMoney(v), "rent")
	}
	depositPos := -1
	if v, pos, ok := moneyNear(text, lower, "security deposit", "damage deposit", "deposit"); ok {
		f.SecurityDeposit = v
		depositPos = pos
		f.add("Security Deposit", formatMoney(v), "deposit")
	}
	// Dedupe against the generic "deposit" anchor by match position, so
	// a pet deposit that happens to equal the security deposit still
	// counts toward the combined ratio.
	if v, pos, ok := moneyNear(text, lower, "pet deposit", "pet damage deposit"); ok && pos != depositPos {
		f.PetDeposit = v
		f.add("Pet Deposit", formatMoney(v), "deposit")
	}
	if v, ok := dateNear(text, lower, "commencing", "commence", "start date", "begins", "beginning"); ok {
		f.add("Lease Start Date", v, "dates")
	}
	if v, ok := dateNear(text, lower, "ending", "end date", "expires", "terminates", "until"); ok {
		f.add("Lease End Date", v, "dates")
	}
	if v, ok := nameNear(text, lower, "landlord:", "lessor:", "landlord", "lessor"); ok {
		f.add("Landlord", v, "parties")
	}
	if v, ok := nameNear(text, lower, "tenant:", "lessee:", "tenant", "lessee"); ok {
		f.add("Tenant", v, "parties")
	}
	if m := noticeRe.FindStringSubmatch(lower); m != nil {
		f.add("Notice Period", m[1]+" days", "notice")
	}

	return f
}

func (f *Facts) add(label, value, category string) {
	for _, d := range f.Details {
		if d.Label == label {
			return
		}
	}
	f.Details = append(f.Details, report.KeyDetail{Label: label, Value: value, Category: category})
}

// moneyNear finds the first monetary amount near the earliest
// word-boundary occurrence of any anchor term, returning the amount and
// the absolute offset of the match. Anchors are tried in order so the
// more specific term wins; the window after the anchor is searched
// before the short window preceding it, so a neighbouring amount for a
// different term cannot shadow the right one.
func moneyNear(text, lower string, anchors ...string) (float64, int, bool) {
	for _, anchor := range anchors {
		idx := anchorIndex(lower, anchor)
		if idx < 0 {
			continue
		}
		for _, sp := range spans(text, idx, len(anchor)) {
			loc := moneyRe.FindStringSubmatchIndex(sp.text)
			if loc == nil {
				continue
			}
			raw := strings.ReplaceAll(sp.text[loc[2]:loc[3]], ",", "")
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v <= 0 {
				continue
			}
			return v, sp.start + loc[0], true
		}
	}
	return 0, -1, false
}

func dateNear(text, lower string, anchors ...string) (string, bool) {
	for _, anchor := range anchors {
		idx := anchorIndex(lower, anchor)
		if idx < 0 {
			continue
		}
		for _, sp := range spans(text, idx, len(anchor)) {
			for _, re := range []*regexp.Regexp{slashRe, isoRe, longRe} {
				if m := re.FindString(sp.text); m != "" {
					return m, true
				}
			}
		}
	}
	return "", false
}

// span is a search slice plus its absolute offset in the source text.
type span struct {
	start int
	text  string
}

// spans returns the search slices for an anchor hit: first the text
// following the anchor, then the short stretch before it.
func spans(text string, idx, anchorLen int) []span {
	afterStart := idx + anchorLen
	afterEnd := afterStart + windowAfter
	if afterEnd > len(text) {
		afterEnd = len(text)
	}
	beforeStart := idx - windowBefore
	if beforeStart < 0 {
		beforeStart = 0
	}
	return []span{
		{start: afterStart, text: text[afterStart:afterEnd]},
		{start: beforeStart, text: text[beforeStart:idx]},
	}
}

// anchorIndex returns the first word-boundary occurrence of anchor, so
// "rent" never anchors inside words like "current".
func anchorIndex(lower, anchor string) int {
	if anchor == "" {
		return -1
	}
	from := 0
	for {
		idx := strings.Index(lower[from:], anchor)
		if idx < 0 {
			return -1
		}
		pos := from + idx
		if boundaryBefore(lower, pos) && boundaryAfter(lower, pos+len(anchor)) {
			return pos
		}
		from = pos + 1
	}
}

func boundaryBefore(s string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:pos])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, pos int) bool {
	if pos >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[pos:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// nameNear picks the first run of capitalized words after an anchor,
// skipping generic filler like "The" or "This Agreement".
func nameNear(text, lower string, anchors ...string) (string, bool) {
	for _, anchor := range anchors {
		idx := anchorIndex(lower, anchor)
		if idx < 0 {
			continue
		}
		start := idx + len(anchor)
		end := start + windowAfter
		if end > len(text) {
			end = len(text)
		}
		if start >= end {
			continue
		}
		for _, cand := range nameRe.FindAllString(text[start:end], 4) {
			if isFillerName(cand) {
				continue
			}
			return cand, true
		}
	}
	return "", false
}

var fillerWords = map[string]bool{
	"The": true, "This": true, "Agreement": true, "Landlord": true,
	"Tenant": true, "Lessor": true, "Lessee": true, "Lease": true,
	"Premises": true, "Property": true, "Shall": true, "Hereby": true,
}

func isFillerName(candidate string) bool {
	for _, word := range strings.Fields(candidate) {
		if !fillerWords[word] {
			return false
		}
	}
	return true
}

func formatMoney(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("$%d", int64(v))
	}
	return fmt.Sprintf("$%.2f", v)
}
