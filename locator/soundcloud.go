package locator

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	defaultSoundCloudURL = "https://api-v2.soundcloud.com"
	maxSoundCloudLimit   = 200
	maxSoundCloudWindow  = 10000
)

type soundCloudPage struct {
	Collection []struct {
		Permalink   *string `json:"permalink"`
		Description *string `json:"description"`
	} `json:"collection"`
}

// SoundCloud pages through the user search API for a permalink and reads a
// signature from the profile description.
type SoundCloud struct {
	c         *client
	clientID  string
	limit     uint64
	maxOffset uint64
}

var _ EvidenceLocator = (*SoundCloud)(nil)

// NewSoundCloud returns a SoundCloud locator reading limit results per page
// up to offset maxOffset.
func NewSoundCloud(clientID string, limit, maxOffset uint64, opts ...Option) (*SoundCloud, error) {
	if err := ValidateSoundCloudWindow(limit, maxOffset); err != nil {
		return nil, err
	}
	return &SoundCloud{
		c:         newClient(defaultSoundCloudURL, opts...),
		clientID:  clientID,
		limit:     limit,
		maxOffset: maxOffset,
	}, nil
}

// ValidateSoundCloudWindow checks the paging bounds accepted by the search API.
func ValidateSoundCloudWindow(limit, maxOffset uint64) error {
	switch {
	case limit == 0:
		return errors.New("soundcloud: limit must be greater than 0")
	case limit > maxSoundCloudLimit:
		return errors.Errorf("soundcloud: limit must be less than or equal to %d", maxSoundCloudLimit)
	case maxOffset+limit > maxSoundCloudWindow:
		return errors.Errorf("soundcloud: the sum of max_offset and limit must be at most %d", maxSoundCloudWindow)
	}
	return nil
}

// LocateEvidence returns the descriptions of the profiles on the first
// result page that matches q.Handle.
func (s *SoundCloud) LocateEvidence(ctx context.Context, q Query) ([]Evidence, error) {
	if q.Handle == "" {
		return nil, errors.New("soundcloud: missing permalink")
	}

	for offset := uint64(0); offset <= s.maxOffset; offset += s.limit {
		u := s.c.baseURL + "/search/users?" + url.Values{
			"q":          {q.Handle},
			"client_id":  {s.clientID},
			"limit":      {strconv.FormatUint(s.limit, 10)},
			"offset":     {strconv.FormatUint(offset, 10)},
			"app_locale": {"en"},
		}.Encode()

		var page soundCloudPage
		if err := s.c.getJSON(ctx, u, nil, &page); err != nil {
			return nil, errors.Wrap(err, "soundcloud")
		}
		if len(page.Collection) == 0 {
			break
		}

		var found []Evidence
		for _, entry := range page.Collection {
			if entry.Permalink == nil || entry.Description == nil {
				continue
			}
			if strings.EqualFold(*entry.Permalink, q.Handle) {
				found = append(found, Evidence{Signature: *entry.Description})
			}
		}
		if len(found) > 0 {
			return found, nil
		}
	}

	return nil, errors.Wrapf(ErrNotFound, "soundcloud: profile %s not found after searching up to %d entries",
		q.Handle, s.maxOffset+s.limit)
}
