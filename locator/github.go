package locator

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const defaultGitHubURL = "https://api.github.com"

var gistIDRegexp = regexp.MustCompile(`^[a-zA-Z0-9]{32}$`)

type gistResponse struct {
	Files map[string]gistFile `json:"files"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type gistFile struct {
	Content string `json:"content"`
}

// GitHub reads "statement{delimiter}signature" files from a gist.
type GitHub struct {
	c *client
}

var _ EvidenceLocator = (*GitHub)(nil)

// NewGitHub returns a gist locator.
func NewGitHub(opts ...Option) *GitHub {
	return &GitHub{c: newClient(defaultGitHubURL, opts...)}
}

// LocateEvidence fetches gist q.Ref and returns one candidate per file that
// contains the delimiter. The gist must be owned by q.Handle.
func (g *GitHub) LocateEvidence(ctx context.Context, q Query) ([]Evidence, error) {
	if !gistIDRegexp.MatchString(q.Ref) {
		return nil, errors.Errorf("github: gist id %q is not 32 alphanumeric characters", q.Ref)
	}

	var res gistResponse
	if err := g.c.getJSON(ctx, g.c.baseURL+"/gists/"+q.Ref, nil, &res); err != nil {
		return nil, errors.Wrap(err, "github")
	}

	if !strings.EqualFold(res.Owner.Login, q.Handle) {
		return nil, errors.Wrapf(ErrNotFound, "github: gist owner %q is not %q", res.Owner.Login, q.Handle)
	}

	names := make([]string, 0, len(res.Files))
	for name := range res.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	var found []Evidence
	for _, name := range names {
		if e, ok := splitPost(res.Files[name].Content, q.Delimiter); ok {
			found = append(found, e)
		}
	}
	if len(found) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "github: no signed statement in gist %s", q.Ref)
	}

	return found, nil
}
