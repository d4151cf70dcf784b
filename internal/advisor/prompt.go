package advisor

import (
	"fmt"
	"strings"

	"crypto-nexus/internal/domain"
	"crypto-nexus/internal/portfolio"
)

// BuildSystemPrompt assembles the advisor persona plus a snapshot of the
// user's portfolio and current market prices, so the model answers with
// concrete figures instead of generic advice.
func BuildSystemPrompt(holdings []domain.Holding, assets []domain.Asset) string {
	var b strings.Builder

	b.WriteString("You are an experienced cryptocurrency investment advisor. ")
	b.WriteString("Answer concisely and back every claim with the numbers below. ")
	b.WriteString("Never promise returns and always mention risk where relevant.\n\n")

	b.WriteString("Current market:\n")
	for _, a := range assets {
		fmt.Fprintf(&b, "- %s (%s): $%.2f, 24h change %+.2f%%\n",
			a.Name, a.Symbol, a.Price, a.Change24h)
	}

	b.WriteString("\nUser portfolio:\n")
	if len(holdings) == 0 {
		b.WriteString("- empty\n")
	} else {
		val := portfolio.Valuate(holdings, assets)
		for _, p := range val.Positions {
			fmt.Fprintf(&b, "- %s: %.4f bought at $%.2f, now worth $%.2f (%+.2f%%)\n",
				p.Symbol, p.Amount, p.AvgPrice, p.CurrentValue, p.ProfitPct)
		}
		fmt.Fprintf(&b, "Total value: $%.2f, total P/L: %+.2f%%\n",
			val.TotalValue, val.TotalProfitPct)
	}

	return b.String()
}
