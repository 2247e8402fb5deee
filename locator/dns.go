package locator

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// DefaultDNSServer is the DNS-over-HTTPS endpoint queried by NewDNS.
const DefaultDNSServer = "https://cloudflare-dns.com/dns-query"

type dnsResponse struct {
	Answer []dnsAnswer `json:"Answer"`
}

type dnsAnswer struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// DNS finds signatures in TXT records through a DNS-over-HTTPS JSON API.
type DNS struct {
	c *client
}

var _ EvidenceLocator = (*DNS)(nil)

// NewDNS returns a DNS-over-HTTPS locator.
func NewDNS(opts ...Option) *DNS {
	return &DNS{c: newClient(DefaultDNSServer, opts...)}
}

// Server is the DNS-over-HTTPS endpoint recorded in evidence.
func (d *DNS) Server() string {
	return d.c.baseURL
}

// LocateEvidence returns every TXT record of q.Handle that starts with
// q.Prefix, with the prefix removed.
func (d *DNS) LocateEvidence(ctx context.Context, q Query) ([]Evidence, error) {
	if q.Handle == "" {
		return nil, errors.New("dns: missing domain")
	}

	u := d.c.baseURL + "?" + url.Values{"name": {q.Handle}, "type": {"txt"}}.Encode()
	header := http.Header{"Accept": {"application/dns-json"}}

	var res dnsResponse
	if err := d.c.getJSON(ctx, u, header, &res); err != nil {
		return nil, errors.Wrap(err, "dns")
	}

	var found []Evidence
	for _, answer := range res.Answer {
		record := answer.Data
		if len(record) >= 2 && strings.HasPrefix(record, `"`) && strings.HasSuffix(record, `"`) {
			record = record[1 : len(record)-1]
		}
		if strings.HasPrefix(record, q.Prefix) {
			found = append(found, Evidence{Signature: strings.TrimPrefix(record, q.Prefix)})
		}
	}
	if len(found) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "dns: no TXT record of %s starts with %q", q.Handle, q.Prefix)
	}

	return found, nil
}
