package sanitize

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var fallbackPattern = regexp.MustCompile(`^Player-\d{4}$`)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain lowercase", in: "badword", want: "badword"},
		{name: "uppercase", in: "BadWord", want: "badword"},
		{name: "leetspeak digits", in: "b4dW0rd", want: "badword"},
		{name: "diacritics", in: "bàdwòrd", want: "badword"},
		{name: "combining marks", in: "bàdword", want: "badword"},
		{name: "repeated letters collapse to two", in: "cooooool", want: "cool"},
		{name: "double letters survive", in: "moose", want: "moose"},
		{name: "punctuation and spaces removed", in: "b a.d-w_o r d!", want: "badword"},
		{name: "uncovered digits removed", in: "player2000", want: "playeroo"},
		{name: "emoji removed", in: "zoe🔥", want: "zoe"},
		{name: "empty", in: "", want: ""},
		{name: "only symbols", in: "!!! ???", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"b4dW0rd", "bàdwòrd", "baaaadword", "Zoe", "cooooool",
		"ÅngstrÖm", "x Æ a-12", "1337 5p34k", "",
	}
	for _, in := range inputs {
		once, err := Normalize(in)
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		require.Equal(t, once, twice, "normalize not idempotent for %q", in)
	}
}

func TestCleanRejections(t *testing.T) {
	s := New([]string{"badword"})

	rejected := []string{
		"badword",
		"BadWord",
		"b4dW0rd",
		"bàdwòrd",
		"baaaadword",
		"xxBADWORDxx",
		"b.a.d.w.o.r.d",
	}
	for _, name := range rejected {
		got := s.Clean(name)
		require.Regexp(t, fallbackPattern, got, "expected %q to be rejected", name)
	}
}

func TestCleanAcceptsOriginal(t *testing.T) {
	s := New([]string{"badword"})

	accepted := []string{"Zoe", "Gänseblümchen", "n00b_slayer", "A B C"}
	for _, name := range accepted {
		require.Equal(t, name, s.Clean(name))
	}
}

func TestCleanEmptyInput(t *testing.T) {
	s := New([]string{"badword"})

	for _, name := range []string{"", "   ", "\t\n"} {
		require.Regexp(t, fallbackPattern, s.Clean(name))
	}
}

func TestCleanNormalizesTerms(t *testing.T) {
	// A leet-obfuscated entry in the config list still matches plain input.
	s := New([]string{"b4dword"})
	require.Regexp(t, fallbackPattern, s.Clean("badword"))
}

func TestFallbackNameShape(t *testing.T) {
	for i := 0; i < 200; i++ {
		name := FallbackName()
		require.Regexp(t, fallbackPattern, name)

		n, err := strconv.Atoi(strings.TrimPrefix(name, "Player-"))
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 1000)
		require.LessOrEqual(t, n, 9999)
	}
}
