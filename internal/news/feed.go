// Package news serves the dashboard's headline strip. The feed is a
// fixed editorial set; there is no upstream news provider.
package news

import (
	"time"

	"crypto-nexus/internal/domain"
)

var items = []struct {
	title  string
	source string
	age    time.Duration
	trend  string
}{
	{"Bitcoin extends rally on institutional demand", "CryptoNews", 0, "up"},
	{"Ethereum prepares for its next major network upgrade", "ETH Foundation", time.Hour, "neutral"},
	{"L2 networks post record transaction growth", "DeFi Pulse", 2 * time.Hour, "up"},
	{"Regulators debate new rules for digital assets", "Bloomberg Crypto", 3 * time.Hour, "neutral"},
}

// Feed returns the headline set with timestamps anchored at now.
func Feed(now time.Time) []domain.NewsItem {
	out := make([]domain.NewsItem, len(items))
	for i, it := range items {
		out[i] = domain.NewsItem{
			Title:  it.title,
			Source: it.source,
			Time:   now.Add(-it.age),
			Trend:  it.trend,
		}
	}
	return out
}
