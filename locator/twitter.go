package locator

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const defaultTwitterURL = "https://api.twitter.com/2"

type tweetResponse struct {
	Data []struct {
		Text string `json:"text"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
}

// Twitter reads "statement{delimiter}signature" from a tweet through the v2 API.
type Twitter struct {
	c      *client
	apiKey string
}

var _ EvidenceLocator = (*Twitter)(nil)

// NewTwitter returns a tweet locator authenticated with a bearer token.
func NewTwitter(apiKey string, opts ...Option) *Twitter {
	return &Twitter{c: newClient(defaultTwitterURL, opts...), apiKey: apiKey}
}

// LocateEvidence fetches tweet q.Ref, which must be authored by q.Handle.
func (t *Twitter) LocateEvidence(ctx context.Context, q Query) ([]Evidence, error) {
	if q.Ref == "" {
		return nil, errors.New("twitter: missing tweet id")
	}

	u := t.c.baseURL + "/tweets?" + url.Values{
		"ids":         {q.Ref},
		"expansions":  {"author_id"},
		"user.fields": {"username"},
	}.Encode()
	header := http.Header{"Authorization": {"Bearer " + t.apiKey}}

	var res tweetResponse
	if err := t.c.getJSON(ctx, u, header, &res); err != nil {
		return nil, errors.Wrap(err, "twitter")
	}

	if len(res.Includes.Users) == 0 || len(res.Data) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "twitter: tweet %s not found", q.Ref)
	}
	if !strings.EqualFold(res.Includes.Users[0].Username, q.Handle) {
		return nil, errors.Wrapf(ErrNotFound, "twitter: tweet author %q is not %q", res.Includes.Users[0].Username, q.Handle)
	}

	e, ok := splitPost(res.Data[0].Text, q.Delimiter)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "twitter: no signed statement in tweet %s", q.Ref)
	}

	return []Evidence{e}, nil
}
