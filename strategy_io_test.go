package pycfr

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/tengshiquan/pycfr/gametree"
)

func newTestStrategy() *Strategy {
	s := NewStrategy(0)
	s.Set("K:", Distribution{0.1, 0.2, 0.7})
	s.Set("A:r", Distribution{0, 1, 0})
	s.Set("Q:cr", Distribution{1.0 / 3, 1.0 / 3, 1.0 / 3})
	return s
}

func TestSave(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestStrategy().Save(&buf))

	expected := "A:r 0.000000000 1.000000000 0.000000000\n" +
		"K: 0.700000000 0.200000000 0.100000000\n" +
		"Q:cr 0.333333333 0.333333333 0.333333333\n"
	require.Equal(t, expected, buf.String())
}

func TestSave_InvalidKey(t *testing.T) {
	for _, key := range []string{"", "has space", "#comment", "tab\tkey"} {
		s := NewStrategy(0)
		s.Set(key, Distribution{1, 0, 0})
		err := s.Save(&bytes.Buffer{})
		require.True(t, errors.Is(err, ErrInvalidInput), "key %q: got %v", key, err)
	}
}

func TestLoad(t *testing.T) {
	input := `# player 0 strategy
K: 0.700000000 0.200000000 0.100000000

   A:r   0 1 0
# trailing comment
`
	s := NewStrategy(0)
	require.NoError(t, s.Load(strings.NewReader(input)))
	require.Equal(t, []string{"A:r", "K:"}, s.Keys())

	d, err := s.Probabilities("K:")
	require.NoError(t, err)
	require.Equal(t, 0.1, d.Prob(gametree.Fold))
	require.Equal(t, 0.2, d.Prob(gametree.Call))
	require.Equal(t, 0.7, d.Prob(gametree.Raise))
}

func TestLoad_Malformed(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"too few tokens", "K: 0.5 0.5\n"},
		{"too many tokens", "K: 0.5 0.5 0 0\n"},
		{"not a number", "K: 0.5 half 0\n"},
		{"malformed after valid", "Q: 0 0 1\nK:\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStrategy()
			err := s.Load(strings.NewReader(tc.input))
			require.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)

			// Policy is unchanged after a failed load.
			require.Equal(t, newTestStrategy().Keys(), s.Keys())
			_, err = s.Probabilities("Q:")
			require.True(t, errors.Is(err, ErrMissingContext), "got %v", err)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tree := newKuhnTree(t)
	strategies := newSkewedKuhnStrategies(tree)
	dir := t.TempDir()

	for _, filename := range []string{"strategy.txt", "strategy.txt.gz"} {
		t.Run(filename, func(t *testing.T) {
			for _, s := range strategies {
				path := filepath.Join(dir, filename)
				require.NoError(t, s.SaveToFile(path))

				reloaded := NewStrategy(s.Player())
				require.NoError(t, reloaded.LoadFromFile(path))
				require.Equal(t, s.Keys(), reloaded.Keys())
				for _, context := range s.Keys() {
					expected, err := s.Probabilities(context)
					require.NoError(t, err)
					got, err := reloaded.Probabilities(context)
					require.NoError(t, err)
					for _, a := range gametree.Actions {
						require.InDelta(t, expected.Prob(a), got.Prob(a), 1e-9,
							"%s %v", context, a)
					}
				}
			}
		})
	}
}

func TestSaveToFile_Compressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategy.gz")
	require.NoError(t, newTestStrategy().SaveToFile(path))

	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	// gzip magic number.
	require.Equal(t, []byte{0x1f, 0x8b}, buf[:2])
}

func TestLoadFromFile_Errors(t *testing.T) {
	dir := t.TempDir()
	s := NewStrategy(0)
	require.Error(t, s.LoadFromFile(filepath.Join(dir, "missing.txt")))

	notGzip := filepath.Join(dir, "plain.gz")
	require.NoError(t, os.WriteFile(notGzip, []byte("K: 0 0 1\n"), 0o644))
	require.Error(t, s.LoadFromFile(notGzip))

	malformed := filepath.Join(dir, "malformed.txt")
	require.NoError(t, os.WriteFile(malformed, []byte("K: 0 1\n"), 0o644))
	err := s.LoadFromFile(malformed)
	require.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
	require.Contains(t, err.Error(), "line 1")
}

func TestSaveToFile_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no_such_dir", "strategy.txt")
	require.Error(t, newTestStrategy().SaveToFile(path))
}
