package filesystem

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// parseLocale returns the collation tag for locale, falling back to the
// root locale when it is empty or malformed
func parseLocale(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und
	}
	return tag
}

// sortNodes orders nodes directories first, then by locale-aware name.
// Names the collator considers equal fall back to a byte comparison so the
// order is total for a fixed directory snapshot.
func sortNodes(nodes []*Node, tag language.Tag) {
	// a Collator keeps internal buffers and must not be shared between goroutines
	c := collate.New(tag)
	slices.SortFunc(nodes, func(a, b *Node) int {
		if a.isDir != b.isDir {
			if a.isDir {
				return -1
			}
			return 1
		}
		an, bn := a.Name(), b.Name()
		if r := c.CompareString(an, bn); r != 0 {
			return r
		}
		return strings.Compare(an, bn)
	})
}
