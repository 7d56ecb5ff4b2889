package season

import "time"

// Season owns the teams and matches of one competitive split.
type Season struct {
	ID        int64
	Name      string
	StartsAt  time.Time
	CreatedAt time.Time
}
