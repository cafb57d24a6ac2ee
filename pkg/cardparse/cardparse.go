// Package cardparse recovers (national id, card number) pairs from insurer
// reply text. The insurer output format is not contractually specified, so
// both strategies are deliberately permissive: lines or segments that do not
// match the expected shape are dropped silently.
package cardparse

import (
	"regexp"
	"strings"
)

// CardAssignment is one parsed national-id / card-number pair.
type CardAssignment struct {
	NID  string
	Card string
}

// Positional contract of the insurer's tabular export. These indices are tied
// to an external format nobody validates; change them in exactly one place.
const (
	nationalIDColumn = 9
	cardNumberColumn = 10
	minTableFields   = 11
)

var (
	fieldSplitRe = regexp.MustCompile(`\t|\s{2,}`)

	// 14-digit NID, optional label words and punctuation, then a 6-25 char
	// alphanumeric-or-hyphen card token.
	looseCardRe = regexp.MustCompile(`(?i)(\d{14})\s+(?:card|policy|member|no|number)?\s*[:\-]?\s*([A-Za-z0-9\-]{6,25})`)
)

// ParseTable scans plaintext table lines. Blank lines and the header row
// (any line containing "national id") are skipped; remaining lines are split
// on tabs or runs of 2+ spaces and must carry at least 11 fields.
func ParseTable(body string) []CardAssignment {
	var results []CardAssignment

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(strings.ToLower(line), "national id") {
			continue
		}

		fields := fieldSplitRe.Split(strings.TrimSpace(line), -1)
		if len(fields) < minTableFields {
			continue
		}

		nid := strings.TrimSpace(fields[nationalIDColumn])
		card := strings.TrimSpace(fields[cardNumberColumn])
		if nid != "" && card != "" {
			results = append(results, CardAssignment{NID: nid, Card: card})
		}
	}

	return results
}

// ParseLoose scans flattened (usually HTML-derived) text for NID/card pairs
// by pattern alone. False positives are possible and accepted; the caller's
// update is scoped by request and nid, so a stray match misses.
func ParseLoose(text string) []CardAssignment {
	var results []CardAssignment

	for _, match := range looseCardRe.FindAllStringSubmatch(text, -1) {
		results = append(results, CardAssignment{
			NID:  strings.TrimSpace(match[1]),
			Card: strings.TrimSpace(match[2]),
		})
	}

	return results
}
