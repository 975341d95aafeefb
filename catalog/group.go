package catalog

import "sort"

// DefaultCategories are the sections of the directory page, in page order.
var DefaultCategories = []string{"ai-tools", "monetization", "info-gap", "data-analysis", "creation"}

// Section is one category with its sites.
type Section struct {
	Category string
	Sites    []Site
}

// Group files every site under its primary category and each subcategory.
// Categories outside the list are ignored. Sites keep input order among
// equal weights.
func Group(sites []Site, categories []string) []Section {
	index := make(map[string]int, len(categories))
	sections := make([]Section, len(categories))
	for i, c := range categories {
		index[c] = i
		sections[i].Category = c
	}

	for _, s := range sites {
		seen := make(map[string]bool, 1+len(s.SubCategories))
		for _, c := range s.Categories() {
			i, ok := index[c]
			if !ok || seen[c] {
				continue
			}
			seen[c] = true
			sections[i].Sites = append(sections[i].Sites, s)
		}
	}

	for i := range sections {
		list := sections[i].Sites
		sort.SliceStable(list, func(a, b int) bool { return list[a].Weight > list[b].Weight })
	}
	return sections
}
