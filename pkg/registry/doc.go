// Package registry implements the repo-list change detection engine.
// It parses YAML snapshots of the registry document, computes added and
// removed entries between two snapshots, filters URLs that appear on both
// sides of the diff, and consolidates duplicate entries into one change
// record per URL. The whole pipeline is a pure transformation over two
// in-memory slices; emitting the resulting change records is the caller's
// responsibility.
package registry
