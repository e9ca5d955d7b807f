package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repoResponse = `{
	"full_name": "octo/widget",
	"description": "A widget factory",
	"html_url": "https://github.com/octo/widget",
	"stargazers_count": 42,
	"forks_count": 7,
	"open_issues_count": 3,
	"language": "Go",
	"license": {"name": "MIT License"},
	"topics": ["tooling", "registry"],
	"created_at": "2020-01-02T03:04:05Z",
	"pushed_at": "2024-06-07T08:09:10Z",
	"owner": {"login": "octo", "avatar_url": "https://avatars.example.com/octo"}
}`

const commitsResponse = `[{
	"sha": "abc123",
	"html_url": "https://github.com/octo/widget/commit/abc123",
	"commit": {
		"message": "fix parser\n\nlong body here",
		"author": {"name": "Octo Dev", "date": "2024-06-07T08:00:00Z"}
	}
}]`

// newStubClient starts a stub GitHub API and returns a client pointed at
// it. Handlers are registered per path.
func newStubClient(t *testing.T, handlers map[string]http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	for path, handler := range handlers {
		mux.HandleFunc(path, handler)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClientWithBaseURL("test-token", server.URL)
	require.NoError(t, err)
	return client
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}
}

func TestEnrich(t *testing.T) {
	client := newStubClient(t, map[string]http.HandlerFunc{
		"/repos/octo/widget":         jsonHandler(http.StatusOK, repoResponse),
		"/repos/octo/widget/commits": jsonHandler(http.StatusOK, commitsResponse),
	})

	enrichment, err := client.Enrich(context.Background(), "octo", "widget")
	require.NoError(t, err)

	assert.Equal(t, "octo/widget", enrichment.FullName)
	assert.Equal(t, "A widget factory", enrichment.Description)
	assert.Equal(t, "https://github.com/octo/widget", enrichment.ProjectURL)
	assert.Equal(t, 42, enrichment.Stars)
	assert.Equal(t, 7, enrichment.Forks)
	assert.Equal(t, 3, enrichment.OpenIssues)
	assert.Equal(t, "Go", enrichment.Language)
	assert.Equal(t, "MIT License", enrichment.License)
	assert.Equal(t, []string{"tooling", "registry"}, enrichment.Topics)
	assert.Equal(t, "2020-01-02T03:04:05Z", enrichment.CreatedAt)
	assert.Equal(t, "2024-06-07T08:09:10Z", enrichment.LastPushedAt)
	assert.Equal(t, "octo", enrichment.Owner.Login)

	require.NotNil(t, enrichment.LatestCommit)
	assert.Equal(t, "abc123", enrichment.LatestCommit.SHA)
	// Only the first line of the commit message survives.
	assert.Equal(t, "fix parser", enrichment.LatestCommit.Message)
	assert.Equal(t, "Octo Dev", enrichment.LatestCommit.Author)
	assert.Equal(t, "2024-06-07T08:00:00Z", enrichment.LatestCommit.Date)
}

func TestEnrichCommitLookupDegrades(t *testing.T) {
	client := newStubClient(t, map[string]http.HandlerFunc{
		"/repos/octo/widget":         jsonHandler(http.StatusOK, repoResponse),
		"/repos/octo/widget/commits": jsonHandler(http.StatusConflict, `{"message":"Git Repository is empty."}`),
	})

	enrichment, err := client.Enrich(context.Background(), "octo", "widget")
	require.NoError(t, err)
	assert.Nil(t, enrichment.LatestCommit)
}

func TestEnrichMissingMetadata(t *testing.T) {
	client := newStubClient(t, map[string]http.HandlerFunc{
		"/repos/octo/bare":         jsonHandler(http.StatusOK, `{"full_name": "octo/bare", "owner": {"login": "octo"}}`),
		"/repos/octo/bare/commits": jsonHandler(http.StatusOK, `[]`),
	})

	enrichment, err := client.Enrich(context.Background(), "octo", "bare")
	require.NoError(t, err)

	assert.Empty(t, enrichment.License)
	assert.Empty(t, enrichment.Language)
	assert.NotNil(t, enrichment.Topics)
	assert.Empty(t, enrichment.Topics)
	assert.Empty(t, enrichment.CreatedAt)
	assert.Nil(t, enrichment.LatestCommit)
}

func TestEnrichNotFound(t *testing.T) {
	client := newStubClient(t, map[string]http.HandlerFunc{
		"/repos/octo/ghost": jsonHandler(http.StatusNotFound, `{"message":"Not Found"}`),
	})

	_, err := client.Enrich(context.Background(), "octo", "ghost")

	var enrichErr *Error
	require.ErrorAs(t, err, &enrichErr)
	assert.Equal(t, ErrorTypeNotFound, enrichErr.Type)
}

func TestEnrichAccessDenied(t *testing.T) {
	client := newStubClient(t, map[string]http.HandlerFunc{
		"/repos/octo/secret": jsonHandler(http.StatusForbidden, `{"message":"Must have push access"}`),
	})

	_, err := client.Enrich(context.Background(), "octo", "secret")

	var enrichErr *Error
	require.ErrorAs(t, err, &enrichErr)
	assert.Equal(t, ErrorTypeForbidden, enrichErr.Type)
}

func TestEnrichUpstreamError(t *testing.T) {
	client := newStubClient(t, map[string]http.HandlerFunc{
		"/repos/octo/flaky": jsonHandler(http.StatusBadGateway, `{"message":"upstream down"}`),
	})

	_, err := client.Enrich(context.Background(), "octo", "flaky")

	var enrichErr *Error
	require.ErrorAs(t, err, &enrichErr)
	assert.Equal(t, ErrorTypeUpstream, enrichErr.Type)
}
