package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
	}{
		{
			name:      "plain repo url",
			url:       "https://github.com/darkquasar/purplerepo",
			wantOwner: "darkquasar",
			wantRepo:  "purplerepo",
		},
		{
			name:      "trailing slash",
			url:       "https://github.com/owner/repo/",
			wantOwner: "owner",
			wantRepo:  "repo",
		},
		{
			name:      "extra path segments ignored",
			url:       "https://github.com/owner/repo/tree/main/docs",
			wantOwner: "owner",
			wantRepo:  "repo",
		},
		{
			name:      "git suffix stripped",
			url:       "https://github.com/owner/repo.git",
			wantOwner: "owner",
			wantRepo:  "repo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRepoURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestParseRepoURLInvalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "wrong host", url: "https://gitlab.com/owner/repo"},
		{name: "missing repo", url: "https://github.com/owner"},
		{name: "bare host", url: "https://github.com"},
		{name: "not a url", url: "://broken"},
		{name: "empty", url: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseRepoURL(tt.url)

			var enrichErr *Error
			require.ErrorAs(t, err, &enrichErr)
			assert.Equal(t, ErrorTypeBadRequest, enrichErr.Type)
		})
	}
}
