package locator

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
)

const defaultRedditURL = "https://www.reddit.com"

type redditAbout struct {
	Data struct {
		Subreddit struct {
			PublicDescription string `json:"public_description"`
		} `json:"subreddit"`
	} `json:"data"`
}

// Reddit reads a signature from the profile description of an account.
type Reddit struct {
	c *client
}

var _ EvidenceLocator = (*Reddit)(nil)

// NewReddit returns a Reddit profile locator.
func NewReddit(opts ...Option) *Reddit {
	return &Reddit{c: newClient(defaultRedditURL, opts...)}
}

// LocateEvidence returns the public description of q.Handle as a signature.
func (r *Reddit) LocateEvidence(ctx context.Context, q Query) ([]Evidence, error) {
	if q.Handle == "" {
		return nil, errors.New("reddit: missing handle")
	}

	var res redditAbout
	u := r.c.baseURL + "/user/" + url.PathEscape(q.Handle) + "/about/.json"
	if err := r.c.getJSON(ctx, u, nil, &res); err != nil {
		return nil, errors.Wrap(err, "reddit")
	}

	sig := res.Data.Subreddit.PublicDescription
	if sig == "" {
		return nil, errors.Wrapf(ErrNotFound, "reddit: %s has no profile description", q.Handle)
	}

	return []Evidence{{Signature: sig}}, nil
}
