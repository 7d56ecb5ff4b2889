// Package attribution maps an observed set of external identifiers to
// the best-matching labeled candidate set. It is generic over what the
// labels mean; the engine uses it to attribute reported game sides to
// internal teams.
package attribution

// Candidate is one labeled identifier set, in tie-break order.
type Candidate struct {
	ID   int64
	Keys []string
}

// Resolve scores every candidate by overlap with observed and returns
// the id of the highest-scoring one. A candidate replaces the current
// best only on a strictly greater score, so ties go to the earliest
// candidate in the slice. Returns ok=false when no candidate overlaps
// at all.
func Resolve(observed []string, candidates []Candidate) (id int64, ok bool) {
	seen := make(map[string]struct{}, len(observed))
	for _, key := range observed {
		seen[key] = struct{}{}
	}

	best := 0
	for _, candidate := range candidates {
		score := 0
		for _, key := range candidate.Keys {
			if _, found := seen[key]; found {
				score++
			}
		}
		if score > best {
			best = score
			id = candidate.ID
			ok = true
		}
	}
	return id, ok
}
