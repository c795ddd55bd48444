package namematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type person struct {
	id          int
	first, last string
}

func names(p person) (string, string) { return p.first, p.last }

func TestMatchName_Passes(t *testing.T) {
	candidates := []person{
		{1, "Jean-Pierre", "Martinez"},
		{2, "Jean", "Martin"},
		{3, "jean", "martin"},
	}

	tests := []struct {
		name        string
		first, last string
		wantID      int
		wantPass    Pass
	}{
		{"exact wins over earlier case-insensitive", "jean", "martin", 3, PassExact},
		{"case-insensitive fallback", "jean", "MARTIN", 2, PassCaseInsensitive},
		{"substring fallback", "pierre", "MARTINEZ", 1, PassSubstring},
		{"no match", "Paul", "Martin", 0, PassNone},
		{"empty claim never matches", "", "Martin", 0, PassNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pass := MatchName(candidates, names, tt.first, tt.last)
			assert.Equal(t, tt.wantPass, pass)
			assert.Equal(t, tt.wantID, got.id)
		})
	}
}

func TestMatchName_SubstringIsRecordContainsClaim(t *testing.T) {
	candidates := []person{{1, "Jo", "Doe"}}

	_, pass := MatchName(candidates, names, "John", "Doe")
	assert.Equal(t, PassNone, pass, "a longer claim must not match a shorter record")
}

func TestMatchName_FirstCandidateWinsWithinPass(t *testing.T) {
	candidates := []person{
		{10, "Sara", "Benali"},
		{11, "Sara", "Benali"},
	}

	got, pass := MatchName(candidates, names, "sara", "benali")
	assert.Equal(t, PassCaseInsensitive, pass)
	assert.Equal(t, 10, got.id)
}

func TestMatch_SingleField(t *testing.T) {
	type coach struct {
		id   int
		name string
	}
	candidates := []*coach{{1, "Karim Alaoui"}, {2, "karim"}}
	field := func(c *coach) []string { return []string{c.name} }

	got, pass := Match(candidates, field, "KARIM")
	assert.Equal(t, PassCaseInsensitive, pass)
	assert.Equal(t, 2, got.id)

	got, pass = Match(candidates, field, "alaoui")
	assert.Equal(t, PassSubstring, pass)
	assert.Equal(t, 1, got.id)

	got, pass = Match[*coach](nil, field, "karim")
	assert.Nil(t, got)
	assert.Equal(t, PassNone, pass)
}
