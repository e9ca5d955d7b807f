package enrich

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseRepoURL extracts the owner and repository name from a GitHub
// repository URL such as https://github.com/owner/repo. Extra path
// segments are ignored; a trailing .git suffix on the name is stripped.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	parsed, parseErr := url.Parse(raw)
	if parseErr != nil {
		return "", "", newError(ErrorTypeBadRequest,
			"invalid GitHub URL format, expected: https://github.com/owner/repo", parseErr)
	}

	if parsed.Hostname() != "github.com" {
		return "", "", newError(ErrorTypeBadRequest,
			fmt.Sprintf("unsupported host %q, expected github.com", parsed.Hostname()), nil)
	}

	parts := make([]string, 0, 2)
	for _, part := range strings.Split(parsed.Path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) < 2 {
		return "", "", newError(ErrorTypeBadRequest,
			"invalid GitHub URL format, expected: https://github.com/owner/repo", nil)
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
