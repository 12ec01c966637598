package commands

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"dexscreener-telegram-bot/internal/price"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pairJSON = `{
	"pairs": [
		{
			"priceNative": "0.00001234",
			"priceUsd": "0.002345",
			"fdv": 2345000,
			"liquidity": {"usd": 123456.78}
		}
	]
}`

func TestCommandPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pairJSON))
	}))
	defer server.Close()

	client := price.NewClient(price.ClientConfig{
		BaseURL:     server.URL,
		ChainID:     "solana",
		PairAddress: "pair-command-price",
	})

	text, err := CommandPrice(client)
	require.NoError(t, err)

	assert.Contains(t, text, "`$0\\.002345`")
	assert.Contains(t, text, "`0\\.00001234 SOL`")
	assert.Contains(t, text, "`$2,345,000`")
	assert.Contains(t, text, "`$123,456`")
	assert.Contains(t, text, "dexscreener.com/solana/pair-command-price")
}

func TestCommandPriceUsesCache(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(pairJSON))
	}))
	defer server.Close()

	client := price.NewClient(price.ClientConfig{
		BaseURL:     server.URL,
		ChainID:     "solana",
		PairAddress: "pair-cached",
	})

	first, err := CommandPrice(client)
	require.NoError(t, err)
	second, err := CommandPrice(client)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), hits.Load())
}

func TestCommandPriceFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := price.NewClient(price.ClientConfig{
		BaseURL:     server.URL,
		ChainID:     "solana",
		PairAddress: "pair-failing",
	})

	_, err := CommandPrice(client)
	require.Error(t, err)
}

func TestFormatSnapshot(t *testing.T) {
	s := &price.Snapshot{
		PriceUSD:  1500,
		PriceSOL:  7.5,
		FDV:       9000000,
		Liquidity: 50000,
		FetchedAt: time.Now(),
	}

	text := FormatSnapshot(s, "solana", "somepair")
	assert.Contains(t, text, "`$1,500`")
	assert.Contains(t, text, "`7\\.50 SOL`")
	assert.Contains(t, text, "`$9,000,000`")
	assert.Contains(t, text, "`$50,000`")
}
