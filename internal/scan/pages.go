package scan

import "sort"

// Duplicate reports a file whose contents already appeared under another name.
type Duplicate struct {
	Kept    Source
	Dropped Source
}

// AssignPages numbers sources 1..N within each prefix, ordered by
// (series, index). Sources must be sorted by RelPath, as Tree returns them.
// When two files share a hash only the first is kept; the rest are returned
// as duplicates. The returned slice keeps the input order.
func AssignPages(sources []Source) ([]Source, []Duplicate) {
	seen := make(map[string]int, len(sources))
	kept := make([]Source, 0, len(sources))
	var dups []Duplicate
	for _, src := range sources {
		if i, ok := seen[src.Hash]; ok {
			dups = append(dups, Duplicate{Kept: kept[i], Dropped: src})
			continue
		}
		seen[src.Hash] = len(kept)
		kept = append(kept, src)
	}

	groups := make(map[string][]int)
	for i, src := range kept {
		groups[src.Name.Prefix] = append(groups[src.Name.Prefix], i)
	}
	for _, idx := range groups {
		sort.SliceStable(idx, func(a, b int) bool {
			na, nb := kept[idx[a]].Name, kept[idx[b]].Name
			if na.Series != nb.Series {
				return na.Series < nb.Series
			}
			return na.Index < nb.Index
		})
		for page, i := range idx {
			kept[i].Page = page + 1
		}
	}
	return kept, dups
}
