package workitems

// Filter drops User Stories tagged exactly "US New" and every non-story item
// that depends on one of them. Input order is preserved.
func Filter(items []WorkItem) []WorkItem {
	excluded := make(map[int]struct{})
	for _, item := range items {
		if item.IsUserStory() && item.HasTagsExactly(TagNew) {
			excluded[item.ID] = struct{}{}
		}
	}

	out := make([]WorkItem, 0, len(items))
	for _, item := range items {
		if item.IsUserStory() {
			if !item.HasTagsExactly(TagNew) {
				out = append(out, item)
			}
			continue
		}
		if !dependsOnAny(item, excluded) {
			out = append(out, item)
		}
	}
	return out
}

func dependsOnAny(item WorkItem, ids map[int]struct{}) bool {
	for _, dep := range item.Dependencies {
		if _, ok := ids[dep]; ok {
			return true
		}
	}
	return false
}

// ByState keeps items whose state equals state. An empty state keeps all.
func ByState(items []WorkItem, state string) []WorkItem {
	if state == "" {
		return items
	}
	out := make([]WorkItem, 0, len(items))
	for _, item := range items {
		if item.State == state {
			out = append(out, item)
		}
	}
	return out
}
