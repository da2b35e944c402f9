package stats

import "sort"

// Grouped maintains one Summary per key, for per-category rollups of a
// keyed value stream. Single-writer, like its parts.
type Grouped struct {
	groups map[string]*Summary
}

func NewGrouped() *Grouped {
	return &Grouped{
		groups: make(map[string]*Summary),
	}
}

func (grouped *Grouped) Fold(key string, value float64) error {
	summary, ok := grouped.groups[key]
	if !ok {
		summary = NewSummary()
		grouped.groups[key] = summary
	}
	return summary.Fold(value)
}

func (grouped *Grouped) Get(key string) (*Summary, bool) {
	summary, ok := grouped.groups[key]
	return summary, ok
}

func (grouped *Grouped) NumGroups() int {
	return len(grouped.groups)
}

// Keys returns the group keys in sorted order.
func (grouped *Grouped) Keys() []string {
	keys := make([]string, 0, len(grouped.groups))
	for key := range grouped.groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Merge folds every group of other into grouped. other is not modified.
func (grouped *Grouped) Merge(other *Grouped) {
	for key, theirs := range other.groups {
		ours, ok := grouped.groups[key]
		if !ok {
			merged := NewSummary()
			merged.Merge(theirs)
			grouped.groups[key] = merged
			continue
		}
		ours.Merge(theirs)
	}
}
