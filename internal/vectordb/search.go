package vectordb

import "sort"

// mergeTopK combines per-partition result lists into a single list of at
// most limit results ordered by descending similarity.
func mergeTopK(parts [][]SearchResult, limit int) []SearchResult {
	var all []SearchResult
	for _, p := range parts {
		all = append(all, p...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Similarity > all[j].Similarity
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}
