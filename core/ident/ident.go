// Package ident reconciles multiple usernames belonging to the same author.
//
// Every downstream aggregation consumes records that already passed through
// Resolve or MergeRecords, never raw usernames. Matching is case-insensitive;
// display case is preserved from the alias table.
package ident

import (
	"sort"
	"strings"

	"github.com/huangsam/pulse/schema"
)

// Resolver maps any known username to one canonical author identity.
type Resolver struct {
	aliases map[string][]string // canonical -> declared aliases
	reverse map[string]string   // lowercased alias -> canonical
}

// NewResolver builds a resolver from a canonical -> aliases table.
// A canonical name is always an alias of itself.
func NewResolver(table map[string][]string) *Resolver {
	r := &Resolver{
		aliases: make(map[string][]string),
		reverse: make(map[string]string),
	}
	for canonical, aliases := range table {
		for _, alias := range aliases {
			r.AddAlias(canonical, alias)
		}
		// Canonicals with an empty alias list still self-map.
		if _, ok := r.aliases[canonical]; !ok {
			r.aliases[canonical] = []string{}
			r.reverse[strings.ToLower(canonical)] = canonical
		}
	}
	return r
}

// Resolve returns the canonical name for a username, or the input unchanged
// when no mapping exists. Empty input is returned unchanged.
func (r *Resolver) Resolve(username string) string {
	if username == "" {
		return username
	}
	if canonical, ok := r.reverse[strings.ToLower(username)]; ok {
		return canonical
	}
	return username
}

// IsAliased reports whether a case-insensitive mapping exists for username,
// including the self-mapping of a declared canonical name.
func (r *Resolver) IsAliased(username string) bool {
	_, ok := r.reverse[strings.ToLower(username)]
	return ok
}

// AliasesFor returns the declared aliases of a canonical name.
func (r *Resolver) AliasesFor(canonical string) []string {
	return r.aliases[canonical]
}

// AddAlias appends an alias to a canonical name. The call is idempotent and
// updates the reverse lookup in place, so no rebuild step is needed.
// It reports whether the alias was newly added.
func (r *Resolver) AddAlias(canonical, alias string) bool {
	if canonical == "" || alias == "" {
		return false
	}
	key := strings.ToLower(alias)
	if _, ok := r.reverse[key]; ok {
		return false
	}
	r.aliases[canonical] = append(r.aliases[canonical], alias)
	r.reverse[key] = canonical
	r.reverse[strings.ToLower(canonical)] = canonical
	return true
}

// Canonicals returns all canonical names in sorted order.
func (r *Resolver) Canonicals() []string {
	names := make([]string, 0, len(r.aliases))
	for name := range r.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table returns a copy of the canonical -> aliases mapping for persistence.
func (r *Resolver) Table() map[string][]string {
	table := make(map[string][]string, len(r.aliases))
	for canonical, aliases := range r.aliases {
		table[canonical] = append([]string(nil), aliases...)
	}
	return table
}

// MergeRecords groups records by resolved canonical name and folds each
// group into one record. Counters are summed, embedded week breakdowns are
// merged by week key and re-sorted ascending, and OriginalAuthors becomes
// the de-duplicated set of pre-merge authors in first-seen order. Fields
// outside the summed set are taken from the first record of the group.
func (r *Resolver) MergeRecords(records []schema.AuthorStats) []schema.AuthorStats {
	groups := make(map[string][]schema.AuthorStats)
	var order []string
	for _, rec := range records {
		canonical := r.Resolve(rec.Author)
		if _, ok := groups[canonical]; !ok {
			order = append(order, canonical)
		}
		groups[canonical] = append(groups[canonical], rec)
	}

	merged := make([]schema.AuthorStats, 0, len(order))
	for _, canonical := range order {
		merged = append(merged, foldGroup(canonical, groups[canonical]))
	}
	return merged
}

// foldGroup collapses the records of one canonical identity.
func foldGroup(canonical string, group []schema.AuthorStats) schema.AuthorStats {
	out := group[0]
	out.Author = canonical
	out.OriginalAuthors = nil

	seen := make(map[string]bool)
	weekTotals := make(map[string]schema.WeekStat)
	for _, rec := range group {
		if !seen[rec.Author] {
			seen[rec.Author] = true
			out.OriginalAuthors = append(out.OriginalAuthors, rec.Author)
		}
		for _, w := range rec.Weeks {
			total := weekTotals[w.Week]
			total.Week = w.Week
			total.Commits += w.Commits
			total.Additions += w.Additions
			total.Deletions += w.Deletions
			weekTotals[w.Week] = total
		}
	}

	if len(group) > 1 {
		out.Commits, out.Additions, out.Deletions = 0, 0, 0
		for _, rec := range group {
			out.Commits += rec.Commits
			out.Additions += rec.Additions
			out.Deletions += rec.Deletions
		}
		out.Weeks = sortedWeeks(weekTotals)
	}
	return out
}

// sortedWeeks flattens a week map into a slice ascending by week key.
func sortedWeeks(totals map[string]schema.WeekStat) []schema.WeekStat {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	weeks := make([]schema.WeekStat, 0, len(keys))
	for _, k := range keys {
		weeks = append(weeks, totals[k])
	}
	return weeks
}
