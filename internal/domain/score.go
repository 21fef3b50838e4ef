package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Defaults applied to submissions with missing fields.
const (
	DefaultName    = "Anon"
	DefaultSection = "General"
	DefaultSkin    = "Classic"

	// MaxFieldLen is the storage limit for name, section and skin.
	MaxFieldLen = 64
)

// ScoreRecord is a single durable score submission. Records are append-only
// and never mutated once persisted; ID and CreatedAt are assigned by the
// store.
type ScoreRecord struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Section    string    `json:"section"`
	Score      int64     `json:"score"`
	Skin       string    `json:"skin"`
	NearMisses int       `json:"nearMisses"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LeaderboardEntry is the derived per-player view served to clients: the
// representative record for a (name, section) pair plus the display icon
// path for its skin. Never persisted; recomputed per query.
type LeaderboardEntry struct {
	ScoreRecord
	SkinIconURL string `json:"skinIconUrl"`
}

// NewLeaderboardEntry wraps a representative record for display.
func NewLeaderboardEntry(rec ScoreRecord) LeaderboardEntry {
	return LeaderboardEntry{
		ScoreRecord: rec,
		SkinIconURL: SkinIconURL(rec.Skin),
	}
}

// SkinIconURL maps a skin tag to its static icon path. Skins are cosmetic
// and not validated against an enum; unknown tags simply yield a path that
// may 404.
func SkinIconURL(skin string) string {
	if skin == "" {
		skin = DefaultSkin
	}
	return "assets/icons/" + skin + ".webp"
}

// RankingOutcome carries the three ranking flags computed against the
// just-submitted score.
type RankingOutcome struct {
	IsOverallTop5 bool `json:"isOverallTop5"`
	IsOverallBest bool `json:"isOverallBest"`
	IsSectionTop5 bool `json:"isSectionTop5"`
}

// SubmissionResult is the response to a successful score submission.
type SubmissionResult struct {
	LeaderboardEntry
	RankingOutcome
}

// ScoreSubmission is a raw score submission as received on the wire, either
// over HTTP or from the ingestion topic. Score and NearMisses stay raw until
// the orchestrator parses them: clients send both numbers and numeric
// strings, and the two fields have different failure policies.
type ScoreSubmission struct {
	Name       string          `json:"name"`
	Section    string          `json:"section"`
	Score      json.RawMessage `json:"score"`
	Skin       string          `json:"skin"`
	NearMisses json.RawMessage `json:"nearMisses"`
}

// nearMissAliases are the accepted wire casings for the nearMisses field,
// probed in order. "nearMisses" is canonical.
var nearMissAliases = []string{"NearMisses", "near_misses"}

// UnmarshalJSON decodes a submission, resolving legacy casings of the
// nearMisses field when the canonical name is absent.
func (s *ScoreSubmission) UnmarshalJSON(data []byte) error {
	type plain ScoreSubmission
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = ScoreSubmission(p)

	if len(s.NearMisses) == 0 {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		for _, alias := range nearMissAliases {
			if v, ok := fields[alias]; ok {
				s.NearMisses = v
				break
			}
		}
	}
	return nil
}

// ScoreValue parses the submitted score. A missing score defaults to 0; an
// unparseable one returns ErrInvalidScore.
func (s *ScoreSubmission) ScoreValue() (int64, error) {
	v, ok, err := parseFlexInt(s.Score)
	if err != nil {
		return 0, ErrInvalidScore
	}
	if !ok {
		return 0, nil
	}
	return v, nil
}

// NearMissValue parses the submitted near-miss counter. Any parse failure or
// negative value coerces to 0; submissions are never rejected over it.
func (s *ScoreSubmission) NearMissValue() int {
	v, ok, err := parseFlexInt(s.NearMisses)
	if err != nil || !ok || v < 0 {
		return 0
	}
	return int(v)
}

// parseFlexInt reads an integer from a raw JSON value that may be a number,
// a numeric string, or absent (ok=false).
func parseFlexInt(raw json.RawMessage) (v int64, ok bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false, nil
	}

	text := string(raw)
	quoted := strings.HasPrefix(text, `"`)
	if quoted {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false, err
		}
		text = strings.TrimSpace(text)
	}

	v, err = strconv.ParseInt(text, 10, 64)
	if err != nil {
		// A fractional JSON number truncates like an int cast would; a
		// fractional string does not parse.
		if !quoted {
			if f, ferr := strconv.ParseFloat(text, 64); ferr == nil {
				return int64(f), true, nil
			}
		}
		return 0, false, err
	}
	return v, true, nil
}

// Truncate trims s to at most MaxFieldLen bytes.
func Truncate(s string) string {
	if len(s) > MaxFieldLen {
		return s[:MaxFieldLen]
	}
	return s
}
