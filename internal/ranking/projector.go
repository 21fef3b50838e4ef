// Package ranking simulates inserting a candidate score into a top-K
// snapshot to decide where the candidate would place. The snapshot is read
// before the submission is persisted, so a naive membership check against it
// would miss a brand-new #1 and could count a player twice; merging the
// candidate in memory gives one consistent view for all flags.
package ranking

import (
	"sort"

	"github.com/game-leaderboard/internal/domain"
)

// TopWindow is the size of the ranking window the submission flags refer to.
const TopWindow = 5

// Candidate is a just-submitted score to rank. Identity for ranking is the
// (Name, Section) pair.
type Candidate struct {
	Name    string
	Section string
	Score   int64
}

// Projection reports the candidate's placement in the merged window.
type Projection struct {
	// Top5 is true when the candidate's exact (name, section, score) entry
	// survives truncation to the window.
	Top5 bool
	// Best is true when that entry holds rank 0.
	Best bool
}

type slot struct {
	name    string
	section string
	score   int64
}

// Project merges the candidate into the given top entries (already
// deduplicated per player) and re-ranks. An existing entry for the same
// (name, section) is raised to max(existing, candidate) rather than
// replaced, so a lower resubmission never erases a real best and never
// duplicates the player.
func Project(c Candidate, top []domain.LeaderboardEntry) Projection {
	slots := make([]slot, 0, len(top)+1)
	merged := false
	for _, e := range top {
		s := slot{name: e.Name, section: e.Section, score: e.Score}
		if e.Name == c.Name && e.Section == c.Section {
			if c.Score > s.score {
				s.score = c.Score
			}
			merged = true
		}
		slots = append(slots, s)
	}
	if !merged {
		slots = append(slots, slot{name: c.Name, section: c.Section, score: c.Score})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].score > slots[j].score
	})
	if len(slots) > TopWindow {
		slots = slots[:TopWindow]
	}

	var p Projection
	for i, s := range slots {
		if s.name == c.Name && s.section == c.Section && s.score == c.Score {
			p.Top5 = true
			p.Best = i == 0
			break
		}
	}
	return p
}
