package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/game-leaderboard/internal/config"
	"github.com/game-leaderboard/internal/domain"
	"github.com/game-leaderboard/internal/ranking"
	"github.com/game-leaderboard/internal/sanitize"
)

// ScoreStore is the persistence collaborator. Append assigns id and
// created_at; QueryAll returns every persisted record, optionally filtered
// to a section (empty string means no filter).
type ScoreStore interface {
	Append(ctx context.Context, rec domain.ScoreRecord) (domain.ScoreRecord, error)
	QueryAll(ctx context.Context, section string) ([]domain.ScoreRecord, error)
}

// LeaderboardService computes deduplicated leaderboard views and orchestrates
// score submissions. It keeps no leaderboard state of its own: every query
// recomputes from the durable record set.
type LeaderboardService struct {
	store     ScoreStore
	sanitizer *sanitize.Sanitizer
	config    *config.LeaderboardConfig
	logger    *slog.Logger
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(
	store ScoreStore,
	sanitizer *sanitize.Sanitizer,
	cfg *config.LeaderboardConfig,
	logger *slog.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		store:     store,
		sanitizer: sanitizer,
		config:    cfg,
		logger:    logger,
	}
}

// playerKey identifies a rankable entity. The same name in two sections is
// two entities.
type playerKey struct {
	name    string
	section string
}

// TopN returns the best score per (name, section) pair, filtered to the
// given section when one is provided, ordered by score descending with
// earlier created_at winning ties. A non-positive limit yields no entries.
func (s *LeaderboardService) TopN(ctx context.Context, section string, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		return []domain.LeaderboardEntry{}, nil
	}
	if limit > s.config.MaxLimit {
		limit = s.config.MaxLimit
	}

	records, err := s.store.QueryAll(ctx, section)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}

	// Representative record per player: max score, and among equal scores
	// the most recent occurrence.
	best := make(map[playerKey]domain.ScoreRecord)
	for _, rec := range records {
		key := playerKey{name: rec.Name, section: rec.Section}
		cur, ok := best[key]
		if !ok || rec.Score > cur.Score ||
			(rec.Score == cur.Score && rec.CreatedAt.After(cur.CreatedAt)) {
			best[key] = rec
		}
	}

	entries := make([]domain.LeaderboardEntry, 0, len(best))
	for _, rec := range best {
		entries = append(entries, domain.NewLeaderboardEntry(rec))
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// DefaultLimit returns the limit applied when the caller does not supply one.
func (s *LeaderboardService) DefaultLimit() int {
	return s.config.DefaultLimit
}

// Submit validates and persists a score submission, then ranks the new score
// against the overall and section top-5. The snapshots are taken before the
// append so the candidate can never appear as both an existing entry and the
// merge candidate.
//
// An unparseable score is the only hard failure (domain.ErrInvalidScore,
// nothing persisted). An unparseable near-miss counter coerces to 0 and a
// rejected name is replaced by a generated identity; neither blocks the
// submission.
func (s *LeaderboardService) Submit(ctx context.Context, sub domain.ScoreSubmission) (*domain.SubmissionResult, error) {
	score, err := sub.ScoreValue()
	if err != nil {
		return nil, domain.ErrInvalidScore
	}
	nearMisses := sub.NearMissValue()

	name := domain.Truncate(sub.Name)
	if name == "" {
		name = domain.DefaultName
	}
	section := domain.Truncate(sub.Section)
	if section == "" {
		section = domain.DefaultSection
	}
	skin := domain.Truncate(sub.Skin)
	if skin == "" {
		skin = domain.DefaultSkin
	}

	name = domain.Truncate(s.sanitizer.Clean(name))

	overallTop, err := s.TopN(ctx, "", ranking.TopWindow)
	if err != nil {
		return nil, fmt.Errorf("fetching overall top: %w", err)
	}
	sectionTop, err := s.TopN(ctx, section, ranking.TopWindow)
	if err != nil {
		return nil, fmt.Errorf("fetching section top: %w", err)
	}

	rec, err := s.store.Append(ctx, domain.ScoreRecord{
		Name:       name,
		Section:    section,
		Score:      score,
		Skin:       skin,
		NearMisses: nearMisses,
	})
	if err != nil {
		return nil, fmt.Errorf("persisting score: %w", err)
	}

	candidate := ranking.Candidate{Name: name, Section: section, Score: score}
	overall := ranking.Project(candidate, overallTop)
	inSection := ranking.Project(candidate, sectionTop)

	s.logger.Info("score submitted",
		"id", rec.ID,
		"name", rec.Name,
		"section", rec.Section,
		"score", rec.Score,
		"overall_top5", overall.Top5,
	)

	return &domain.SubmissionResult{
		LeaderboardEntry: domain.NewLeaderboardEntry(rec),
		RankingOutcome: domain.RankingOutcome{
			IsOverallTop5: overall.Top5,
			IsOverallBest: overall.Best,
			IsSectionTop5: inSection.Top5,
		},
	}, nil
}
