package registry

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// RegistryGitHub identifies the VCS registry in results.
const RegistryGitHub = "github"

// GitHub resource shapes.
var (
	// Usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen.
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// Repo names: 1-100 alphanumeric, hyphen, underscore, or dot.
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ParseRepoRef parses an "owner/repo" string and validates both parts.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	parts := strings.SplitN(ref, "/", 2)
	if len(parts) != 2 {
		return "", "", errors.New("invalid repo format: use owner/repo")
	}
	owner, repo = parts[0], parts[1]
	if !validOwner.MatchString(owner) {
		return "", "", errors.New("invalid owner format")
	}
	if !validRepo.MatchString(repo) {
		return "", "", errors.New("invalid repo format")
	}
	return owner, repo, nil
}

// GitHub is the VCS probe. It only applies to owner/repo-shaped names and
// rejects response bodies carrying a not-found marker even when the
// transport succeeded.
type GitHub struct {
	client  *Client
	baseURL string
}

// NewGitHub creates the VCS probe with optional authentication. Pass an
// empty token for unauthenticated requests (lower rate limits).
func NewGitHub(baseURL, token string) *GitHub {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &GitHub{client: NewClient(headers), baseURL: baseURL}
}

// Name returns the probe identifier.
func (g *GitHub) Name() string { return RegistryGitHub }

// Applicable reports whether pkg is owner/repo shaped.
func (g *GitHub) Applicable(pkg string) bool {
	_, _, err := ParseRepoRef(pkg)
	return err == nil
}

type repoResponse struct {
	FullName string `json:"full_name"`
	Message  string `json:"message"`
}

// Lookup performs a single blocking lookup with no local retry.
func (g *GitHub) Lookup(ctx context.Context, pkg string) (*Metadata, error) {
	owner, repo, err := ParseRepoRef(pkg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	var data repoResponse
	url := fmt.Sprintf("%s/repos/%s/%s", g.baseURL, owner, repo)
	if err := g.client.Get(ctx, url, &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
		}
		return nil, err
	}
	// Some proxies answer 200 with an error body; trust the marker over
	// the status line.
	if strings.EqualFold(data.Message, "Not Found") || data.FullName == "" {
		return nil, fmt.Errorf("%w: github repo %s/%s", ErrNotFound, owner, repo)
	}

	return &Metadata{
		Name:     pkg,
		Registry: RegistryGitHub,
	}, nil
}
