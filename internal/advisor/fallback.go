package advisor

import (
	"fmt"
	"strings"

	"crypto-nexus/internal/domain"
	"crypto-nexus/internal/portfolio"
)

// Keyword families route a question to a canned answer when the model
// endpoint is unavailable. Stems rather than whole words, so inflected
// forms still match.
var (
	buyKeywords      = []string{"buy", "invest", "where", "купить", "куда", "инвестир"}
	sellKeywords     = []string{"sell", "when", "прода", "когда"}
	forecastKeywords = []string{"forecast", "rise", "прогноз", "вырастет"}
)

// FallbackReply produces a deterministic answer from local portfolio and
// market data. Families are checked in order: buy, sell, forecast, then a
// generic portfolio summary.
func FallbackReply(message string, holdings []domain.Holding, assets []domain.Asset) string {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, buyKeywords):
		return buyReply(holdings, assets)
	case containsAny(lower, sellKeywords):
		return sellReply(holdings, assets)
	case containsAny(lower, forecastKeywords):
		return forecastReply(assets)
	default:
		return summaryReply(holdings, assets)
	}
}

func containsAny(s string, stems []string) bool {
	for _, stem := range stems {
		if strings.Contains(s, stem) {
			return true
		}
	}
	return false
}

func buyReply(holdings []domain.Holding, assets []domain.Asset) string {
	var b strings.Builder
	if gainer := topGainer(assets); gainer != nil {
		fmt.Fprintf(&b, "%s (%s) shows the strongest momentum right now at %+.2f%% over 24h. ",
			gainer.Name, gainer.Symbol, gainer.Change24h)
	}
	b.WriteString("Consider spreading new purchases across several assets instead of ")
	b.WriteString("concentrating in one, and only invest what you can afford to hold ")
	b.WriteString("through a drawdown.")
	if len(holdings) > 0 {
		val := portfolio.Valuate(holdings, assets)
		fmt.Fprintf(&b, " Your portfolio currently stands at $%.2f.", val.TotalValue)
	}
	return b.String()
}

func sellReply(holdings []domain.Holding, assets []domain.Asset) string {
	if len(holdings) == 0 {
		return "You have no open positions, so there is nothing to sell. " +
			"Build a position first and set exit targets before you buy."
	}
	val := portfolio.Valuate(holdings, assets)
	var b strings.Builder
	fmt.Fprintf(&b, "Your portfolio P/L is %+.2f%% ($%+.2f). ",
		val.TotalProfitPct, val.TotalProfit)
	b.WriteString("Avoid panic-selling at a loss unless the investment thesis is broken. ")
	for _, p := range val.Positions {
		if p.ProfitPct > 50 {
			fmt.Fprintf(&b, "%s is up %+.1f%%, taking partial profits there is reasonable. ",
				p.Symbol, p.ProfitPct)
		}
	}
	b.WriteString("Decide exit levels in advance rather than reacting to daily swings.")
	return b.String()
}

func forecastReply(assets []domain.Asset) string {
	var b strings.Builder
	b.WriteString("Nobody can reliably forecast crypto prices, so treat any projection ")
	b.WriteString("as a scenario, not a promise. Current market snapshot: ")
	top := assets
	if len(top) > 3 {
		top = top[:3]
	}
	parts := make([]string, 0, len(top))
	for _, a := range top {
		parts = append(parts, fmt.Sprintf("%s $%.2f (%+.2f%%)", a.Symbol, a.Price, a.Change24h))
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString(". Momentum can reverse quickly, size positions accordingly.")
	return b.String()
}

func summaryReply(holdings []domain.Holding, assets []domain.Asset) string {
	if len(holdings) == 0 {
		return "Your portfolio is empty. Ask me where to invest, when to sell, " +
			"or for a market forecast and I'll walk you through it."
	}
	val := portfolio.Valuate(holdings, assets)
	var b strings.Builder
	b.WriteString("Here is where your portfolio stands:\n")
	for _, p := range val.Positions {
		fmt.Fprintf(&b, "- %s: $%.2f (%+.2f%%)\n", p.Symbol, p.CurrentValue, p.ProfitPct)
	}
	fmt.Fprintf(&b, "Total: $%.2f (%+.2f%%). ", val.TotalValue, val.TotalProfitPct)
	b.WriteString("Ask about buying, selling or a forecast for more specific guidance.")
	return b.String()
}

func topGainer(assets []domain.Asset) *domain.Asset {
	var best *domain.Asset
	for i := range assets {
		if best == nil || assets[i].Change24h > best.Change24h {
			best = &assets[i]
		}
	}
	return best
}
