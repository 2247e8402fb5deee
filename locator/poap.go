package locator

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

const defaultPOAPURL = "https://api.poap.tech"

type poapEntry struct {
	Event struct {
		ID int64 `json:"id"`
	} `json:"event"`
}

// POAP checks event attendance with the POAP scan API.
type POAP struct {
	c      *client
	apiKey string
}

var _ POAPLocator = (*POAP)(nil)

// NewPOAP returns a POAP locator authenticated with an API key.
func NewPOAP(apiKey string, opts ...Option) *POAP {
	return &POAP{c: newClient(defaultPOAPURL, opts...), apiKey: apiKey}
}

// HasEvent reports whether owner holds a POAP for eventID.
func (p *POAP) HasEvent(ctx context.Context, owner string, eventID int64) (bool, error) {
	if owner == "" {
		return false, errors.New("poap: missing owner")
	}

	var entries []poapEntry
	header := http.Header{"X-API-KEY": {p.apiKey}}
	if err := p.c.getJSON(ctx, p.c.baseURL+"/actions/scan/"+url.PathEscape(owner), header, &entries); err != nil {
		return false, errors.Wrap(err, "poap")
	}

	for _, e := range entries {
		if e.Event.ID == eventID {
			return true, nil
		}
	}

	return false, nil
}
