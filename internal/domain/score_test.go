package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreValue(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{name: "number", raw: `{"score": 42}`, want: 42},
		{name: "negative number", raw: `{"score": -5}`, want: -5},
		{name: "numeric string", raw: `{"score": "42"}`, want: 42},
		{name: "padded numeric string", raw: `{"score": " 42 "}`, want: 42},
		{name: "fractional number truncates", raw: `{"score": 12.9}`, want: 12},
		{name: "missing defaults to zero", raw: `{}`, want: 0},
		{name: "null defaults to zero", raw: `{"score": null}`, want: 0},
		{name: "garbage string", raw: `{"score": "abc"}`, wantErr: true},
		{name: "fractional string", raw: `{"score": "12.9"}`, wantErr: true},
		{name: "object", raw: `{"score": {"v": 1}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sub ScoreSubmission
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &sub))

			got, err := sub.ScoreValue()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidScore)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNearMissValueNeverFails(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "number", raw: `{"nearMisses": 3}`, want: 3},
		{name: "string", raw: `{"nearMisses": "3"}`, want: 3},
		{name: "missing", raw: `{}`, want: 0},
		{name: "garbage", raw: `{"nearMisses": "many"}`, want: 0},
		{name: "negative", raw: `{"nearMisses": -1}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sub ScoreSubmission
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &sub))
			require.Equal(t, tt.want, sub.NearMissValue())
		})
	}
}

func TestNearMissAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "canonical", raw: `{"nearMisses": 1}`, want: 1},
		{name: "pascal case", raw: `{"NearMisses": 2}`, want: 2},
		{name: "snake case", raw: `{"near_misses": 3}`, want: 3},
		{name: "canonical wins over alias", raw: `{"nearMisses": 1, "NearMisses": 2}`, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sub ScoreSubmission
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &sub))
			require.Equal(t, tt.want, sub.NearMissValue())
		})
	}
}

func TestSkinIconURL(t *testing.T) {
	require.Equal(t, "assets/icons/Golden.webp", SkinIconURL("Golden"))
	require.Equal(t, "assets/icons/Classic.webp", SkinIconURL(""))
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 100)
	require.Len(t, Truncate(long), MaxFieldLen)
	require.Equal(t, "short", Truncate("short"))
}
