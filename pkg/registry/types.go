package registry

// Action is the kind of change a record represents.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Record is one entry of the registry document. A nil Tags slice means the
// entry carried no tag field at all, which is distinct from an empty tag
// list. Multiple records in one snapshot may share the same URL; they
// represent separate contributions for the same target and are merged
// during consolidation, not rejected.
type Record struct {
	URL         string
	Contributor string
	Tags        []string
}

// Change is one consolidated add or remove, serialized with the payload
// keys the downstream automation consumes.
type Change struct {
	URL         string   `json:"repo_url"`
	Contributor string   `json:"contributor_name"`
	Action      Action   `json:"action"`
	Tags        []string `json:"tags,omitempty"`
}

// Result holds the outcome of a diff run. Conflicts lists the URLs that
// appeared in both the added and removed sets and were dropped from both.
type Result struct {
	Changes   []Change
	Conflicts []string
}

// HasChanges reports whether the diff produced any change records.
func (r *Result) HasChanges() bool {
	return len(r.Changes) > 0
}
