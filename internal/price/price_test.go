package price

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pairJSON = `{
	"schemaVersion": "1.0.0",
	"pairs": [
		{
			"chainId": "solana",
			"priceNative": "0.00001234",
			"priceUsd": "0.002345",
			"fdv": 2345000,
			"liquidity": {"usd": 123456.78, "base": 1000, "quote": 500}
		}
	]
}`

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:     baseURL,
		ChainID:     "solana",
		PairAddress: "testpair",
	})
}

func TestFetchParsesSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/pairs/solana/testpair", r.URL.Path)
		fmt.Fprint(w, pairJSON)
	}))
	defer server.Close()

	snapshot, err := newTestClient(server.URL).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.002345, snapshot.PriceUSD)
	assert.Equal(t, 0.00001234, snapshot.PriceSOL)
	assert.Equal(t, 2345000.0, snapshot.FDV)
	assert.Equal(t, 123456.78, snapshot.Liquidity)
	assert.False(t, snapshot.FetchedAt.IsZero())
}

func TestFetchNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background())
	require.Error(t, err)
}

func TestFetchEmptyPairList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"schemaVersion": "1.0.0", "pairs": []}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pair data")
}

func TestFetchMalformedPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"pairs": [{"priceNative": "0.1", "priceUsd": "n/a", "fdv": 1, "liquidity": {"usd": 1}}]}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "priceUsd")
}

func TestFetchNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background())
	require.Error(t, err)
}
