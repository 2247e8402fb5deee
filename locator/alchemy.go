package locator

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const maxAlchemyPages = 100

type alchemyPage struct {
	OwnedNfts []struct {
		Contract struct {
			Address string `json:"address"`
		} `json:"contract"`
	} `json:"ownedNfts"`
	PageKey *string `json:"pageKey"`
}

// Alchemy checks token ownership with the Alchemy NFT API.
type Alchemy struct {
	c      *client
	apiKey string
}

var _ NFTLocator = (*Alchemy)(nil)

// NewAlchemy returns an Alchemy ownership locator. Without WithBaseURL the
// network selects the API host, e.g. https://eth-mainnet.g.alchemy.com.
func NewAlchemy(apiKey string, opts ...Option) *Alchemy {
	return &Alchemy{c: newClient("", opts...), apiKey: apiKey}
}

func (a *Alchemy) endpoint(network string) string {
	base := a.c.baseURL
	if base == "" {
		base = "https://" + network + ".g.alchemy.com"
	}
	return base + "/nft/v2/" + url.PathEscape(a.apiKey) + "/getNFTs"
}

// OwnsContract pages through the NFTs of owner until one from contract is found.
func (a *Alchemy) OwnsContract(ctx context.Context, network, owner, contract string) (bool, error) {
	if network == "" || owner == "" || contract == "" {
		return false, errors.New("alchemy: network, owner and contract are required")
	}

	endpoint := a.endpoint(network)
	pageKey := ""
	for i := 0; i < maxAlchemyPages; i++ {
		params := url.Values{"owner": {owner}, "withMetadata": {"false"}}
		if pageKey != "" {
			params.Set("pageKey", pageKey)
		}

		var page alchemyPage
		if err := a.c.getJSON(ctx, endpoint+"?"+params.Encode(), nil, &page); err != nil {
			return false, errors.Wrap(err, "alchemy")
		}

		for _, nft := range page.OwnedNfts {
			if strings.EqualFold(nft.Contract.Address, contract) {
				return true, nil
			}
		}

		if page.PageKey == nil || *page.PageKey == "" {
			return false, nil
		}
		pageKey = *page.PageKey
	}

	return false, errors.Errorf("alchemy: gave up after %d pages", maxAlchemyPages)
}
