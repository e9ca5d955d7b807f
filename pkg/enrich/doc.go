// Package enrich resolves a GitHub repository URL to an owner/name pair,
// fetches repository and latest-commit metadata from the GitHub API, and
// reshapes the combined result into the flat payload the registry
// consumers expect. It also provides the HTTP handler that exposes the
// lookup as a POST endpoint.
package enrich
