package catalog

import "slices"

// FilterState is the user's current catalog selection. Changing any filter
// input resets the page to the first one; changing the page alone keeps the
// filters.
//
// Methods return a modified copy; the zero value is the default state.
type FilterState struct {
	Search     string
	Sort       SortKey
	Categories []string
	Page       int
}

// WithSearch sets the search text and returns to the first page.
func (s FilterState) WithSearch(text string) FilterState {
	s.Search = text
	s.Page = 0
	return s
}

// WithSort sets the ordering and returns to the first page.
func (s FilterState) WithSort(key SortKey) FilterState {
	s.Sort = key
	s.Page = 0
	return s
}

// WithCategories replaces the selected categories and returns to the first page.
func (s FilterState) WithCategories(ids []string) FilterState {
	s.Categories = slices.Clone(ids)
	s.Page = 0
	return s
}

// ToggleCategory selects or deselects a single category and returns to the
// first page.
func (s FilterState) ToggleCategory(id string, selected bool) FilterState {
	ids := slices.DeleteFunc(slices.Clone(s.Categories), func(v string) bool { return v == id })
	if selected {
		ids = append(ids, id)
	}
	return s.WithCategories(ids)
}

// WithPage moves to page p keeping every filter.
func (s FilterState) WithPage(p int) FilterState {
	if p < 0 {
		p = 0
	}
	s.Page = p
	return s
}

// Clear resets every filter to its default.
func (s FilterState) Clear() FilterState {
	return FilterState{}
}

// Query builds the engine query for the state.
func (s FilterState) Query() Query {
	return Query{
		Page:        s.Page,
		Sort:        s.Sort.OrDefault(),
		Search:      s.Search,
		CategoryIDs: slices.Clone(s.Categories),
	}.Normalize()
}
