package registry

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseError indicates a snapshot that could not be parsed as a registry
// document. It is recoverable: the parser returns an empty record list and
// the caller decides whether to abort.
type ParseError struct {
	Cause error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed registry document: %v", e.Cause)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// rawEntry mirrors the YAML shape of one repo-list entry. The initial_tags
// field is the legacy spelling of tags; both may be present.
type rawEntry struct {
	RepoURL     string   `yaml:"repo_url"`
	InitialTags []string `yaml:"initial_tags"`
	Tags        []string `yaml:"tags"`
	Contributor string   `yaml:"contributor_name"`
}

type document struct {
	Repos []rawEntry `yaml:"repos"`
}

// ParseSnapshot parses one version of the registry document and returns its
// entries in source order. The legacy initial_tags field and the current
// tags field are merged into a single deduplicated tag list at this
// boundary; entries with neither field get a nil tag list.
func ParseSnapshot(content []byte) ([]Record, error) {
	var doc document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return []Record{}, &ParseError{Cause: err}
	}

	records := make([]Record, 0, len(doc.Repos))
	for _, entry := range doc.Repos {
		records = append(records, Record{
			URL:         entry.RepoURL,
			Contributor: entry.Contributor,
			Tags:        mergeTagFields(entry.InitialTags, entry.Tags),
		})
	}

	return records, nil
}

// mergeTagFields unions the legacy and current tag fields, keeping
// first-occurrence order. It returns nil only when both fields were absent,
// so an explicitly empty tag list survives as an empty slice.
func mergeTagFields(legacy, current []string) []string {
	if legacy == nil && current == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(legacy)+len(current))
	merged := make([]string, 0, len(legacy)+len(current))
	for _, tags := range [][]string{legacy, current} {
		for _, tag := range tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			merged = append(merged, tag)
		}
	}

	return merged
}
