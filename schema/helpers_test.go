package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.InDelta(t, 2.5, Round2(2.5), 0.0001)
	assert.InDelta(t, 1.23, Round2(1.2345), 0.0001)
	assert.InDelta(t, 1.24, Round2(1.235), 0.0001)
	assert.InDelta(t, 0, Round2(0), 0.0001)
}

func TestPercentOf(t *testing.T) {
	assert.InDelta(t, 50.0, PercentOf(5, 10), 0.0001)
	assert.InDelta(t, 33.33, PercentOf(1, 3), 0.0001)
	assert.InDelta(t, 0, PercentOf(5, 0), 0.0001)
}

func TestFormatAuthors(t *testing.T) {
	assert.Equal(t, "alice, bob", FormatAuthors([]string{"alice", "bob"}))
	assert.Equal(t, "", FormatAuthors(nil))
}

func TestAuthorsEqual(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want bool
	}{
		{"same order", []string{"a", "b"}, []string{"a", "b"}, true},
		{"different order", []string{"b", "a"}, []string{"a", "b"}, true},
		{"different length", []string{"a"}, []string{"a", "b"}, false},
		{"different entries", []string{"a", "c"}, []string{"a", "b"}, false},
		{"both empty", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthorsEqual(tt.a, tt.b))
		})
	}
}

func TestIsBotAuthor(t *testing.T) {
	assert.True(t, IsBotAuthor("github-actions[bot]", DefaultBotAuthors))
	assert.True(t, IsBotAuthor("Dependabot[bot]", DefaultBotAuthors))
	assert.False(t, IsBotAuthor("alice", DefaultBotAuthors))
	assert.False(t, IsBotAuthor("alice", nil))
}

func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, "High", GetPlainLabel(150))
	assert.Equal(t, "High", GetPlainLabel(100))
	assert.Equal(t, "Moderate", GetPlainLabel(99))
	assert.Equal(t, "Moderate", GetPlainLabel(20))
	assert.Equal(t, "Low", GetPlainLabel(19))
	assert.Equal(t, "Low", GetPlainLabel(0))
}

func TestAuthorStatsDerived(t *testing.T) {
	stats := AuthorStats{
		Author:    "alice",
		Commits:   12,
		Additions: 100,
		Deletions: 40,
		Weeks: []WeekStat{
			{Week: "2024-01-07", Commits: 5},
			{Week: "2024-01-14", Commits: 0},
			{Week: "2024-01-21", Commits: 7},
		},
	}
	assert.Equal(t, 2, stats.ActiveWeeks())
	assert.Equal(t, 60, stats.NetLines())
}
