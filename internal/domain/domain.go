package domain

import "time"

// Asset is the current market snapshot for one tracked coin. Snapshots are
// replaced wholesale on every refresh, never merged field by field.
type Asset struct {
	ID        string  `json:"id"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change_24h"`
	MarketCap float64 `json:"market_cap"`
	Volume24h float64 `json:"volume_24h"`
	Icon      string  `json:"icon"`
	Image     string  `json:"image"`
}

// ChartPoint is one point of a historical price/volume series. Time is a
// display label (hour:minute for the 1-day window, day month otherwise).
type ChartPoint struct {
	Time   string  `json:"time"`
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

// Holding is a user's recorded position in one asset.
type Holding struct {
	Symbol   string  `json:"symbol"`
	Amount   float64 `json:"amount"`
	AvgPrice float64 `json:"avg_price"`
}

// Position is a holding valued against the current market snapshot.
type Position struct {
	Holding
	CurrentPrice float64 `json:"current_price"`
	CurrentValue float64 `json:"current_value"`
	Invested     float64 `json:"invested"`
	Profit       float64 `json:"profit"`
	ProfitPct    float64 `json:"profit_pct"`
	Weight       float64 `json:"weight"`
}

type Action string

const (
	ActionBuy  Action = "BUY"
	ActionHold Action = "HOLD"
	ActionSell Action = "SELL"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PortfolioCoin marks a recommendation that applies to the whole portfolio
// rather than a single asset.
const PortfolioCoin = "portfolio"

type Recommendation struct {
	Action   Action   `json:"action"`
	Coin     string   `json:"coin"`
	Reason   string   `json:"reason"`
	Priority Priority `json:"priority"`
}

type AnalysisResult struct {
	Analysis        string           `json:"analysis"`
	Recommendations []Recommendation `json:"recommendations"`
}

type NewsItem struct {
	Title  string    `json:"title"`
	Source string    `json:"source"`
	Time   time.Time `json:"time"`
	Trend  string    `json:"trend"`
}

type ConversationMessage struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// CoinMeta is one entry of the fixed asset catalog.
type CoinMeta struct {
	ID     string
	Symbol string
	Icon   string
}

// Catalog lists the tracked coins in display order.
var Catalog = []CoinMeta{
	{ID: "bitcoin", Symbol: "BTC", Icon: "₿"},
	{ID: "ethereum", Symbol: "ETH", Icon: "Ξ"},
	{ID: "solana", Symbol: "SOL", Icon: "◎"},
	{ID: "cardano", Symbol: "ADA", Icon: "₳"},
	{ID: "polkadot", Symbol: "DOT", Icon: "●"},
	{ID: "avalanche-2", Symbol: "AVAX", Icon: "▲"},
}

// CoinGeckoID maps internal symbols to CoinGecko API identifiers.
var CoinGeckoID = map[string]string{}

// CoinGeckoIDToSymbol is the reverse mapping.
var CoinGeckoIDToSymbol = map[string]string{}

// SupportedSymbols lists all tracked symbols in catalog order.
var SupportedSymbols []string

// CatalogIDs lists all tracked CoinGecko ids in catalog order.
var CatalogIDs []string

func init() {
	for _, meta := range Catalog {
		CoinGeckoID[meta.Symbol] = meta.ID
		CoinGeckoIDToSymbol[meta.ID] = meta.Symbol
		SupportedSymbols = append(SupportedSymbols, meta.Symbol)
		CatalogIDs = append(CatalogIDs, meta.ID)
	}
}

// CatalogIcon returns the configured icon for a CoinGecko id, or a neutral
// dot when the id is not in the catalog.
func CatalogIcon(id string) string {
	for _, meta := range Catalog {
		if meta.ID == id {
			return meta.Icon
		}
	}
	return "●"
}

// SupportedWindows are the chart windows in days.
var SupportedWindows = []int{1, 7, 30}

// WindowPoints returns the exact number of chart points a window produces.
func WindowPoints(days int) int {
	if days == 1 {
		return 24
	}
	return days
}

// ReserveSymbol is the primary reserve asset the analyzer anchors on.
const ReserveSymbol = "BTC"

// SecondaryReserveSymbol is the default hold target when no momentum or
// loss rule fires.
const SecondaryReserveSymbol = "ETH"

// MomentumSymbol is the configured momentum asset for the rotation rule.
const MomentumSymbol = "SOL"

// DefaultHoldings seeds the portfolio when the store has no record yet.
var DefaultHoldings = []Holding{
	{Symbol: "BTC", Amount: 0.5, AvgPrice: 65000},
	{Symbol: "ETH", Amount: 5, AvgPrice: 3500},
	{Symbol: "SOL", Amount: 20, AvgPrice: 140},
}
