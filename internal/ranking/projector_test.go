package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/game-leaderboard/internal/domain"
)

// snapshot builds a deduplicated top list from (name, score) pairs, all in
// the same section.
func snapshot(section string, scores ...int64) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(scores))
	for i, s := range scores {
		entries = append(entries, domain.NewLeaderboardEntry(domain.ScoreRecord{
			Name:    fmt.Sprintf("player%d", i+1),
			Section: section,
			Score:   s,
		}))
	}
	return entries
}

func TestProjectNewPlayer(t *testing.T) {
	top := snapshot("General", 90, 80, 70, 60, 50)

	tests := []struct {
		name     string
		score    int64
		wantTop5 bool
		wantBest bool
	}{
		{name: "new overall best", score: 95, wantTop5: true, wantBest: true},
		{name: "mid-window entry", score: 75, wantTop5: true},
		{name: "below the window", score: 55},
		{name: "equal to last place loses stable tie", score: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(Candidate{Name: "newcomer", Section: "General", Score: tt.score}, top)
			require.Equal(t, tt.wantTop5, got.Top5)
			require.Equal(t, tt.wantBest, got.Best)
		})
	}
}

func TestProjectSelfReplacement(t *testing.T) {
	top := snapshot("General", 90, 80, 70, 60, 50)

	// player3 holds rank 3 with 70. A lower resubmission must not duplicate
	// the player and must keep the prior best in the window.
	got := Project(Candidate{Name: "player3", Section: "General", Score: 40}, top)
	require.False(t, got.Top5, "lower resubmission should not rank as the submitted score")
	require.False(t, got.Best)

	// A higher resubmission replaces the player's own slot.
	got = Project(Candidate{Name: "player3", Section: "General", Score: 99}, top)
	require.True(t, got.Top5)
	require.True(t, got.Best)
}

func TestProjectSectionIdentity(t *testing.T) {
	// Same display name in a different section is a distinct rankable
	// entity, not a self-replacement.
	top := snapshot("A", 90, 80, 70, 60, 50)
	got := Project(Candidate{Name: "player1", Section: "B", Score: 85}, top)
	require.True(t, got.Top5)
	require.False(t, got.Best)
}

func TestProjectEmptySnapshot(t *testing.T) {
	got := Project(Candidate{Name: "first", Section: "General", Score: 1}, nil)
	require.True(t, got.Top5)
	require.True(t, got.Best)
}

func TestProjectPartialWindow(t *testing.T) {
	top := snapshot("General", 30, 20)
	got := Project(Candidate{Name: "newcomer", Section: "General", Score: 10}, top)
	require.True(t, got.Top5, "an underfilled window always admits the candidate")
	require.False(t, got.Best)
}
