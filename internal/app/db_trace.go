package app

import "strings"

const maxTracedQueryLength = 512

// formatDBQueryForTrace flattens a statement onto one line before it
// is attached to a span, truncating oversized queries.
func formatDBQueryForTrace(query string) string {
	flat := strings.Join(strings.Fields(query), " ")
	if len(flat) > maxTracedQueryLength {
		return flat[:maxTracedQueryLength] + "..."
	}
	return flat
}
