package core

import (
	"sort"

	"github.com/huangsam/pulse/schema"
)

// rankAuthors sorts merged records descending by the kind's key metric and
// caps the result at limit. Ties are broken by author name ascending for
// deterministic output.
func rankAuthors(records []schema.AuthorStats, kind schema.ReportKind, limit int) []schema.AuthorStats {
	ranked := append([]schema.AuthorStats(nil), records...)
	sort.Slice(ranked, func(i, j int) bool {
		a, b := keyMetric(ranked[i], kind), keyMetric(ranked[j], kind)
		if a != b {
			return a > b
		}
		return ranked[i].Author < ranked[j].Author
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// keyMetric picks the ranking metric for a report kind.
func keyMetric(rec schema.AuthorStats, kind schema.ReportKind) int {
	if kind == schema.LinesReport {
		return rec.Additions
	}
	return rec.Commits
}
