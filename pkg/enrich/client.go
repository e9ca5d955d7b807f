package enrich

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// Enrichment is the flat repository payload returned to consumers.
type Enrichment struct {
	FullName     string      `json:"full_name"`
	Description  string      `json:"description"`
	ProjectURL   string      `json:"project_url"`
	Stars        int         `json:"stars"`
	Forks        int         `json:"forks"`
	OpenIssues   int         `json:"open_issues"`
	Language     string      `json:"language"`
	License      string      `json:"license"`
	Topics       []string    `json:"topics"`
	CreatedAt    string      `json:"created_at"`
	LastPushedAt string      `json:"last_pushed_at"`
	Owner        Owner       `json:"owner"`
	LatestCommit *CommitInfo `json:"latest_commit"`
}

// Owner identifies the repository owner.
type Owner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// CommitInfo describes the most recent commit on the default branch.
type CommitInfo struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	URL     string `json:"url"`
}

// Client fetches repository metadata from the GitHub API.
type Client struct {
	gh *github.Client
}

// NewClient creates an enrichment client authenticated with the provided
// token.
func NewClient(token string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{gh: github.NewClient(tc)}
}

// NewClientWithBaseURL creates a client pointed at an alternative API
// endpoint. Used by tests to target a stub server.
func NewClientWithBaseURL(token, baseURL string) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	client := NewClient(token)
	client.gh.BaseURL = parsed
	return client, nil
}

// Enrich fetches repository metadata plus the most recent commit and
// reshapes both into the flat payload. A failing commit lookup degrades to
// a null latest_commit rather than failing the whole request.
func (c *Client) Enrich(ctx context.Context, owner, repo string) (*Enrichment, error) {
	repository, _, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, wrapAPIError(err, owner, repo)
	}

	topics := repository.Topics
	if topics == nil {
		topics = []string{}
	}

	enrichment := &Enrichment{
		FullName:     repository.GetFullName(),
		Description:  repository.GetDescription(),
		ProjectURL:   repository.GetHTMLURL(),
		Stars:        repository.GetStargazersCount(),
		Forks:        repository.GetForksCount(),
		OpenIssues:   repository.GetOpenIssuesCount(),
		Language:     repository.GetLanguage(),
		License:      repository.GetLicense().GetName(),
		Topics:       topics,
		CreatedAt:    formatTimestamp(repository.GetCreatedAt()),
		LastPushedAt: formatTimestamp(repository.GetPushedAt()),
		Owner: Owner{
			Login:     repository.GetOwner().GetLogin(),
			AvatarURL: repository.GetOwner().GetAvatarURL(),
		},
	}

	enrichment.LatestCommit = c.latestCommit(ctx, owner, repo)

	return enrichment, nil
}

// latestCommit returns the newest commit, or nil when the lookup fails or
// the repository has no commits.
func (c *Client) latestCommit(ctx context.Context, owner, repo string) *CommitInfo {
	commits, _, err := c.gh.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil || len(commits) == 0 {
		return nil
	}

	commit := commits[0]
	message := commit.GetCommit().GetMessage()
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		message = message[:idx]
	}

	return &CommitInfo{
		SHA:     commit.GetSHA(),
		Message: message,
		Author:  commit.GetCommit().GetAuthor().GetName(),
		Date:    formatTimestamp(commit.GetCommit().GetAuthor().GetDate()),
		URL:     commit.GetHTMLURL(),
	}
}

func formatTimestamp(ts github.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
