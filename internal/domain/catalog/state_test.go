package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterState_FilterChangesResetPage(t *testing.T) {
	s := FilterState{}.WithPage(2)

	tests := []struct {
		name   string
		change func(FilterState) FilterState
	}{
		{"search", func(s FilterState) FilterState { return s.WithSearch("kopi") }},
		{"sort", func(s FilterState) FilterState { return s.WithSort(SortPriceLow) }},
		{"categories", func(s FilterState) FilterState { return s.WithCategories([]string{"cat-1"}) }},
		{"toggle", func(s FilterState) FilterState { return s.ToggleCategory("cat-1", true) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.change(s)
			assert.Zero(t, got.Page)
			assert.Equal(t, 2, s.Page, "receiver must not change")
		})
	}
}

func TestFilterState_PageKeepsFilters(t *testing.T) {
	s := FilterState{}.WithSearch("madu").WithSort(SortNameAsc).WithCategories([]string{"cat-2"})

	got := s.WithPage(3)
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, "madu", got.Search)
	assert.Equal(t, SortNameAsc, got.Sort)
	assert.Equal(t, []string{"cat-2"}, got.Categories)

	assert.Zero(t, got.WithPage(-4).Page)
}

func TestFilterState_ToggleCategory(t *testing.T) {
	s := FilterState{}.ToggleCategory("a", true).ToggleCategory("b", true)
	assert.Equal(t, []string{"a", "b"}, s.Categories)

	s = s.ToggleCategory("a", true)
	assert.Equal(t, []string{"b", "a"}, s.Categories)

	s = s.ToggleCategory("b", false)
	assert.Equal(t, []string{"a"}, s.Categories)
}

func TestFilterState_Clear(t *testing.T) {
	s := FilterState{}.WithSearch("x").WithSort(SortOldest).WithCategories([]string{"c"}).WithPage(5)
	assert.Equal(t, FilterState{}, s.Clear())
}

func TestFilterState_Query(t *testing.T) {
	s := FilterState{}.WithSearch(" Kopi ").WithCategories([]string{"b", "a", "b", ""}).WithPage(1)

	q := s.Query()
	assert.Equal(t, Query{
		Page:        1,
		Sort:        SortNewest,
		Search:      " Kopi ",
		CategoryIDs: []string{"a", "b"},
	}, q)
	assert.Equal(t, []string{"b", "a", "b", ""}, s.Categories, "state keeps its own slice")
}
