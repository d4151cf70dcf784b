package provider

import (
	"math/rand"
	"time"

	"crypto-nexus/internal/domain"
)

// fallbackAssets is the fixed offline snapshot covering the configured
// catalog. Figures are plausible example data, not live quotes.
var fallbackAssets = []domain.Asset{
	{
		ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin",
		Price: 97234.50, Change24h: 2.34,
		MarketCap: 1_920_000_000_000, Volume24h: 42_000_000_000,
		Icon:  "₿",
		Image: "https://assets.coingecko.com/coins/images/1/large/bitcoin.png",
	},
	{
		ID: "ethereum", Symbol: "ETH", Name: "Ethereum",
		Price: 3342.67, Change24h: -0.89,
		MarketCap: 402_000_000_000, Volume24h: 18_000_000_000,
		Icon:  "Ξ",
		Image: "https://assets.coingecko.com/coins/images/279/large/ethereum.png",
	},
	{
		ID: "solana", Symbol: "SOL", Name: "Solana",
		Price: 189.45, Change24h: 5.67,
		MarketCap: 92_000_000_000, Volume24h: 3_200_000_000,
		Icon:  "◎",
		Image: "https://assets.coingecko.com/coins/images/4128/large/solana.png",
	},
	{
		ID: "cardano", Symbol: "ADA", Name: "Cardano",
		Price: 0.876, Change24h: 1.23,
		MarketCap: 30_500_000_000, Volume24h: 680_000_000,
		Icon:  "₳",
		Image: "https://assets.coingecko.com/coins/images/975/large/cardano.png",
	},
	{
		ID: "polkadot", Symbol: "DOT", Name: "Polkadot",
		Price: 6.78, Change24h: -2.34,
		MarketCap: 9_800_000_000, Volume24h: 280_000_000,
		Icon:  "●",
		Image: "https://assets.coingecko.com/coins/images/12171/large/polkadot.png",
	},
	{
		ID: "avalanche-2", Symbol: "AVAX", Name: "Avalanche",
		Price: 34.56, Change24h: 3.45,
		MarketCap: 14_200_000_000, Volume24h: 520_000_000,
		Icon:  "▲",
		Image: "https://assets.coingecko.com/coins/images/12559/large/avalanche.png",
	},
}

// FallbackAssets returns the static offline snapshot. The result is a
// fresh copy so callers may not corrupt the table.
func FallbackAssets() []domain.Asset {
	out := make([]domain.Asset, len(fallbackAssets))
	copy(out, fallbackAssets)
	return out
}

// SyntheticSeries generates a plausible chart series anchored at the
// asset's last known price: uniform noise within ±1.5% of the base price,
// volume uniform in [0, volume24h). Points step back one hour (1-day
// window) or one day per point, oldest first.
func SyntheticSeries(asset domain.Asset, windowDays int, now time.Time) []domain.ChartPoint {
	count := domain.WindowPoints(windowDays)

	step := 24 * time.Hour
	if windowDays == 1 {
		step = time.Hour
	}

	points := make([]domain.ChartPoint, 0, count)
	for i := 0; i < count; i++ {
		ts := now.Add(-time.Duration(count-i) * step)
		noise := (rand.Float64() - 0.5) * asset.Price * 0.03
		points = append(points, domain.ChartPoint{
			Time:   FormatPointLabel(ts, windowDays),
			Price:  asset.Price + noise,
			Volume: rand.Float64() * asset.Volume24h,
		})
	}
	return points
}
