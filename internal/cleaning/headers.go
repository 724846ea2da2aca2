package cleaning

import (
	"regexp"
	"strings"

	"aibox/internal/tabular"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeHeader trims, collapses internal whitespace, and lowercases a
// raw header label. Mapping a header already in canonical form returns
// the canonical form again.
func NormalizeHeader(h string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(strings.ToLower(h)), " ")
}

// MapHeaders builds the original→canonical renaming for the table's
// columns against a synonym table. Headers without a synonym pass
// through with spaces replaced by underscores. Every original column
// gets an entry; nothing is dropped or merged here. When two originals
// resolve to the same target the collision is settled later by
// Table.Rename with last-write-wins.
func MapHeaders(t *tabular.Table, synonyms map[string]string) map[string]string {
	mapping := make(map[string]string, len(t.Columns()))
	for _, c := range t.Columns() {
		k := NormalizeHeader(c)
		if target, ok := synonyms[k]; ok {
			mapping[c] = target
		} else {
			mapping[c] = strings.ReplaceAll(k, " ", "_")
		}
	}
	return mapping
}
