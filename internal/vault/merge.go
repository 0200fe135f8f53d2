package vault

import "sort"

// Merge reconciles the cached and remote snapshots into one collection.
//
// The remote store is authoritative for existence and content; the cache
// wins only for titles the remote does not know about (content created
// while offline). The returned order lists remote titles in their given
// order followed by cache-only titles sorted by title, so the "first item"
// fallback after a reload is stable.
//
// Merge is a pure function and is idempotent: merging its own result with
// the same remote snapshot again yields the same collection.
func Merge(local map[string]Item, remote []Item) (map[string]Item, []string) {
	merged := make(map[string]Item, len(remote)+len(local))
	order := make([]string, 0, len(remote)+len(local))

	for _, it := range remote {
		if _, dup := merged[it.Title]; dup {
			continue
		}
		merged[it.Title] = it
		order = append(order, it.Title)
	}

	localOnly := make([]string, 0, len(local))
	for title := range local {
		if _, ok := merged[title]; !ok {
			localOnly = append(localOnly, title)
		}
	}
	sort.Strings(localOnly)

	for _, title := range localOnly {
		merged[title] = local[title]
		order = append(order, title)
	}

	return merged, order
}
