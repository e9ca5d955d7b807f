package registry

import (
	"fmt"
	"strings"
)

// DefaultMaxChanges is the change-count cap applied when the limit gate is
// enabled without an explicit threshold.
const DefaultMaxChanges = 15

// Options controls the optional change-limit gate. When EnforceLimit is
// set and the consolidated add+remove count exceeds MaxChanges, the whole
// batch is refused; nothing is partially emitted.
type Options struct {
	EnforceLimit bool
	MaxChanges   int
}

// LimitExceededError indicates a diff whose consolidated change count
// exceeded the configured cap.
type LimitExceededError struct {
	Count int
	Limit int
}

// Error implements the error interface
func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("change limit exceeded: %d consolidated changes, limit is %d", e.Count, e.Limit)
}

// Added returns the records of new whose URL does not appear anywhere in
// old, preserving new's order. Duplicate URLs within new are not collapsed
// here; consolidation handles them.
func Added(old, new []Record) []Record {
	oldURLs := urlSet(old)

	added := make([]Record, 0)
	for _, record := range new {
		if _, ok := oldURLs[record.URL]; !ok {
			added = append(added, record)
		}
	}
	return added
}

// Removed returns the records of old whose URL does not appear anywhere in
// new, preserving old's order.
func Removed(old, new []Record) []Record {
	newURLs := urlSet(new)

	removed := make([]Record, 0)
	for _, record := range old {
		if _, ok := newURLs[record.URL]; !ok {
			removed = append(removed, record)
		}
	}
	return removed
}

// FilterConflicts drops every URL that appears in both the added and the
// removed set from both sides. Such a URL was introduced and withdrawn
// between the same two snapshots through unrelated edits, so neither an
// add nor a remove is safe to emit. The dropped URLs are returned in
// added-set order for reporting.
func FilterConflicts(added, removed []Record) (adds, removes []Record, conflicts []string) {
	removedURLs := urlSet(removed)

	conflicting := make(map[string]struct{})
	conflicts = make([]string, 0)
	for _, record := range added {
		if _, ok := removedURLs[record.URL]; !ok {
			continue
		}
		if _, ok := conflicting[record.URL]; ok {
			continue
		}
		conflicting[record.URL] = struct{}{}
		conflicts = append(conflicts, record.URL)
	}

	adds = make([]Record, 0, len(added))
	for _, record := range added {
		if _, ok := conflicting[record.URL]; !ok {
			adds = append(adds, record)
		}
	}

	removes = make([]Record, 0, len(removed))
	for _, record := range removed {
		if _, ok := conflicting[record.URL]; !ok {
			removes = append(removes, record)
		}
	}

	return adds, removes, conflicts
}

// Consolidate merges records sharing a URL into one change record per
// unique URL. Output order is the insertion order of each URL's first
// occurrence, which keeps re-runs byte-stable. Consolidation is idempotent:
// a sequence whose URLs are already unique passes through unchanged.
func Consolidate(records []Record, action Action) []Change {
	order := make([]string, 0, len(records))
	groups := make(map[string][]Record, len(records))
	for _, record := range records {
		if _, ok := groups[record.URL]; !ok {
			order = append(order, record.URL)
		}
		groups[record.URL] = append(groups[record.URL], record)
	}

	changes := make([]Change, 0, len(order))
	for _, url := range order {
		group := groups[url]
		changes = append(changes, Change{
			URL:         url,
			Contributor: mergeContributors(group),
			Action:      action,
			Tags:        mergeGroupTags(group),
		})
	}

	return changes
}

// Diff runs the full pipeline over two parsed snapshots: set difference,
// conflict filtering, consolidation, and the optional change-limit gate.
// On a limit violation it returns a *LimitExceededError and no result.
func Diff(old, new []Record, opts Options) (*Result, error) {
	adds, removes, conflicts := FilterConflicts(Added(old, new), Removed(old, new))

	changes := Consolidate(adds, ActionAdd)
	changes = append(changes, Consolidate(removes, ActionRemove)...)

	if opts.EnforceLimit {
		limit := opts.MaxChanges
		if limit <= 0 {
			limit = DefaultMaxChanges
		}
		if len(changes) > limit {
			return nil, &LimitExceededError{Count: len(changes), Limit: limit}
		}
	}

	return &Result{Changes: changes, Conflicts: conflicts}, nil
}

// mergeContributors joins the non-empty contributor names of a group in
// first-occurrence order, dropping exact duplicates.
func mergeContributors(group []Record) string {
	seen := make(map[string]struct{}, len(group))
	names := make([]string, 0, len(group))
	for _, record := range group {
		if record.Contributor == "" {
			continue
		}
		if _, ok := seen[record.Contributor]; ok {
			continue
		}
		seen[record.Contributor] = struct{}{}
		names = append(names, record.Contributor)
	}
	return strings.Join(names, ", ")
}

// mergeGroupTags unions the tag lists of a group in first-occurrence
// order. It returns nil when no member of the group carried tags.
func mergeGroupTags(group []Record) []string {
	var merged []string
	var seen map[string]struct{}
	for _, record := range group {
		if record.Tags == nil {
			continue
		}
		if merged == nil {
			merged = make([]string, 0, len(record.Tags))
			seen = make(map[string]struct{}, len(record.Tags))
		}
		for _, tag := range record.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			merged = append(merged, tag)
		}
	}
	return merged
}

func urlSet(records []Record) map[string]struct{} {
	urls := make(map[string]struct{}, len(records))
	for _, record := range records {
		urls[record.URL] = struct{}{}
	}
	return urls
}
