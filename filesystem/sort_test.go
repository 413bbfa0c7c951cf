package filesystem

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestParseLocale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		locale string
		want   language.Tag
	}{
		{"empty", "", language.Und},
		{"root", "und", language.Und},
		{"english", "en", language.English},
		{"malformed", "not a locale!", language.Und},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parseLocale(tt.locale))
		})
	}
}

func TestSortNodes(t *testing.T) {
	t.Parallel()

	storage := memfs.New()
	for _, d := range []string{"zeta", "Alpha"} {
		require.NoError(t, storage.MkdirAll("/r/"+d, 0o755))
	}
	for _, f := range []string{"cherry", "Banana", "apple"} {
		require.NoError(t, util.WriteFile(storage, "/r/"+f, nil, 0o644))
	}

	tests := []struct {
		name   string
		locale language.Tag
	}{
		{"root locale", language.Und},
		{"english", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var nodes []*Node
			for _, n := range []string{"cherry", "zeta", "Banana", "apple", "Alpha"} {
				node, err := NewNode(storage, "/r/"+n, nil)
				require.NoError(t, err)
				nodes = append(nodes, node)
			}

			sortNodes(nodes, tt.locale)

			assert.Equal(t, []string{
				"Alpha(directory)", "zeta(directory)",
				"apple(file)", "Banana(file)", "cherry(file)",
			}, names(nodes))
		})
	}
}

// Names equal under collation still get a stable order
func TestSortNodes_TieBreak(t *testing.T) {
	t.Parallel()

	storage := memfs.New()
	for _, f := range []string{"a", "A"} {
		require.NoError(t, util.WriteFile(storage, "/r/"+f, nil, 0o644))
	}
	lower, err := NewNode(storage, "/r/a", nil)
	require.NoError(t, err)
	upper, err := NewNode(storage, "/r/A", nil)
	require.NoError(t, err)

	first := []*Node{lower, upper}
	second := []*Node{upper, lower}
	sortNodes(first, language.Und)
	sortNodes(second, language.Und)

	assert.Equal(t, names(first), names(second))
}
