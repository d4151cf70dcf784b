package portfolio

import "crypto-nexus/internal/domain"

// Valuation is the portfolio valued against one market snapshot.
type Valuation struct {
	Positions      []domain.Position `json:"positions"`
	TotalInvested  float64           `json:"total_invested"`
	TotalValue     float64           `json:"total_value"`
	TotalProfit    float64           `json:"total_profit"`
	TotalProfitPct float64           `json:"total_profit_pct"`
}

// Valuate computes per-holding and aggregate figures. A holding whose
// asset is missing from the snapshot values at price 0. Profit percent is
// defined as 0 whenever the invested cost is 0, never a non-finite value.
func Valuate(holdings []domain.Holding, assets []domain.Asset) Valuation {
	bySymbol := make(map[string]domain.Asset, len(assets))
	for _, a := range assets {
		bySymbol[a.Symbol] = a
	}

	v := Valuation{Positions: make([]domain.Position, 0, len(holdings))}
	for _, h := range holdings {
		price := bySymbol[h.Symbol].Price
		pos := domain.Position{
			Holding:      h,
			CurrentPrice: price,
			CurrentValue: price * h.Amount,
			Invested:     h.AvgPrice * h.Amount,
		}
		pos.Profit = pos.CurrentValue - pos.Invested
		pos.ProfitPct = safePct(pos.Profit, pos.Invested)

		v.Positions = append(v.Positions, pos)
		v.TotalInvested += pos.Invested
		v.TotalValue += pos.CurrentValue
	}

	v.TotalProfit = v.TotalValue - v.TotalInvested
	v.TotalProfitPct = safePct(v.TotalProfit, v.TotalInvested)

	for i := range v.Positions {
		v.Positions[i].Weight = safePct(v.Positions[i].CurrentValue, v.TotalValue)
	}
	return v
}

func safePct(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
