package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Snapshot holds the market data for the watched pair at a single point in time.
// It is recomputed on every fetch and never persisted.
type Snapshot struct {
	PriceUSD  float64   `json:"price_usd"`
	PriceSOL  float64   `json:"price_sol"`
	FDV       float64   `json:"fdv"`
	Liquidity float64   `json:"liquidity"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ClientConfig configuration of the price client
type ClientConfig struct {
	BaseURL     string
	ChainID     string
	PairAddress string
	HTTPClient  *http.Client
}

// Client fetches pair data from the DexScreener public API
type Client struct {
	config ClientConfig
	client *http.Client
}

// pairResponse mirrors the relevant part of the /latest/dex/pairs payload.
// priceUsd and priceNative arrive as strings.
type pairResponse struct {
	Pairs []struct {
		PriceNative string  `json:"priceNative"`
		PriceUSD    string  `json:"priceUsd"`
		FDV         float64 `json:"fdv"`
		Liquidity   struct {
			USD float64 `json:"usd"`
		} `json:"liquidity"`
	} `json:"pairs"`
}

// NewClient creates a new DexScreener price client
func NewClient(c ClientConfig) *Client {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		config: c,
		client: httpClient,
	}
}

// ChainID returns the chain the watched pair lives on.
func (c *Client) ChainID() string {
	return c.config.ChainID
}

// PairAddress returns the watched pair address.
func (c *Client) PairAddress() string {
	return c.config.PairAddress
}

// Fetch queries the pair endpoint and parses it into a Snapshot. All failures
// (network, non-2xx, malformed body, missing fields) are returned as errors and
// should be treated as transient by callers.
func (c *Client) Fetch(ctx context.Context) (*Snapshot, error) {
	url := fmt.Sprintf("%s/latest/dex/pairs/%s/%s", c.config.BaseURL, c.config.ChainID, c.config.PairAddress)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not create pair request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch pair data")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("pair endpoint returned status %d", resp.StatusCode)
	}

	var payload pairResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "could not decode pair response")
	}

	if len(payload.Pairs) == 0 {
		return nil, errors.Errorf("no pair data for %s on %s", c.config.PairAddress, c.config.ChainID)
	}

	pair := payload.Pairs[0]
	priceUSD, err := strconv.ParseFloat(pair.PriceUSD, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed priceUsd %q", pair.PriceUSD)
	}
	priceSOL, err := strconv.ParseFloat(pair.PriceNative, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed priceNative %q", pair.PriceNative)
	}

	log.Debugf("fetched pair %s: $%f / %f SOL", c.config.PairAddress, priceUSD, priceSOL)

	return &Snapshot{
		PriceUSD:  priceUSD,
		PriceSOL:  priceSOL,
		FDV:       pair.FDV,
		Liquidity: pair.Liquidity.USD,
		FetchedAt: time.Now(),
	}, nil
}
