package csvimport

import (
	"encoding/csv"
	"strings"
)

// DefaultDelimiter is used when the first line contains no recognized
// delimiter at all (single-column files, empty lines).
const DefaultDelimiter = ','

// delimiterCandidates are probed in order; the first candidate with the
// highest field count wins a tie.
var delimiterCandidates = []rune{';', ',', '\t', '|'}

// DetectDelimiter inspects the first line of a CSV file and returns the
// delimiter that splits it into the most fields. Quoted sections are honored,
// so a comma inside "a, quoted value" does not count toward the comma
// candidate.
func DetectDelimiter(firstLine string) rune {
	if strings.TrimSpace(firstLine) == "" {
		return DefaultDelimiter
	}

	best := DefaultDelimiter
	bestCount := 0
	for _, candidate := range delimiterCandidates {
		count := countFields(firstLine, candidate)
		if count > bestCount {
			best = candidate
			bestCount = count
		}
	}

	// Every candidate yields a single field when the line has no delimiter.
	if bestCount <= 1 {
		return DefaultDelimiter
	}
	return best
}

func countFields(line string, delimiter rune) int {
	reader := csv.NewReader(strings.NewReader(line))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	record, err := reader.Read()
	if err != nil {
		// Malformed quoting for this candidate; fall back to a naive split
		// so the candidate still gets counted.
		return len(strings.Split(line, string(delimiter)))
	}
	return len(record)
}
