package commands

import (
	"context"
	"fmt"
	"time"

	"dexscreener-telegram-bot/internal/price"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CommandPrice handles /price: an immediate one-off fetch independent of any
// recurring schedule. Responses are cached briefly so a chattering chat does
// not hammer the API.
func CommandPrice(client *price.Client) (string, error) {
	log.Debugf("processing command /price for pair %s", client.PairAddress())

	if cached, found := cacheGet(client.PairAddress()); found {
		log.Debugf("returning cached snapshot for %s", client.PairAddress())
		return cached.Text, nil
	}

	snapshot, err := client.Fetch(context.Background())
	if err != nil {
		return "", errors.Wrap(err, "command /price")
	}

	text := FormatSnapshot(snapshot, client.ChainID(), client.PairAddress())
	cacheSet(client.PairAddress(), text, 10*time.Second)
	return text, nil
}

// FormatSnapshot renders a snapshot as a MarkdownV2 message.
func FormatSnapshot(s *price.Snapshot, chainID, pairAddress string) string {
	return fmt.Sprintf(
		"*Token update:*\n\n"+
			"▫️Price: `$%s`\n"+
			"▫️Price: `%s SOL`\n"+
			"▫️FDV: `$%s`\n"+
			"▫️Liquidity: `$%s`\n\n"+
			"[See pair on DexScreener](https://dexscreener.com/%s/%s)",
		formatPriceUS(s.PriceUSD, true),
		formatPriceUS(s.PriceSOL, true),
		formatUSDCompact(s.FDV),
		formatUSDCompact(s.Liquidity),
		chainID, pairAddress,
	)
}
