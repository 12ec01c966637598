package commands

import (
	"sync"
	"time"
)

type cacheItem struct {
	Text       string
	Expiration time.Time
}

var (
	snapshotCache   = make(map[string]*cacheItem)
	snapshotCacheMu sync.Mutex
)

func cacheGet(pair string) (*cacheItem, bool) {
	snapshotCacheMu.Lock()
	defer snapshotCacheMu.Unlock()

	if item, found := snapshotCache[pair]; found && time.Now().Before(item.Expiration) {
		return item, true
	}
	return nil, false
}

func cacheSet(pair, text string, duration time.Duration) {
	snapshotCacheMu.Lock()
	defer snapshotCacheMu.Unlock()

	snapshotCache[pair] = &cacheItem{
		Text:       text,
		Expiration: time.Now().Add(duration),
	}
}
