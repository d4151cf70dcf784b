// Package engine is the deterministic rule-based portfolio analyzer. It
// serves as the advisor's fallback and defines the shape the advisor's
// structured output is decoded against.
package engine

import (
	"fmt"
	"math"

	"crypto-nexus/internal/domain"
	"crypto-nexus/internal/portfolio"
)

const (
	reserveFloorPct   = 30
	momentumGatePct   = 5
	lossGatePct       = -20
	profitTakeGatePct = 50
	rotationGatePct   = 3
)

// Analyze produces the analysis summary and exactly three recommendations:
// the core-holding check, the momentum/loss check, and the profit-taking
// check, in that order. Deterministic for fixed inputs; ties resolve to
// the first occurrence.
func Analyze(holdings []domain.Holding, assets []domain.Asset) domain.AnalysisResult {
	val := portfolio.Valuate(holdings, assets)

	best := extremePosition(val.Positions, func(a, b domain.Position) bool { return a.ProfitPct > b.ProfitPct })
	worst := extremePosition(val.Positions, func(a, b domain.Position) bool { return a.ProfitPct < b.ProfitPct })
	gainer := topGainer(assets)

	recs := []domain.Recommendation{
		coreHoldingRule(val.Positions),
		momentumRule(val.Positions, worst, gainer),
		profitTakingRule(best, assets),
	}

	return domain.AnalysisResult{
		Analysis:        summarize(val, best, worst),
		Recommendations: recs,
	}
}

// coreHoldingRule: the reserve asset should carry at least 30% of the
// portfolio's value.
func coreHoldingRule(positions []domain.Position) domain.Recommendation {
	for _, pos := range positions {
		if pos.Symbol != domain.ReserveSymbol {
			continue
		}
		if pos.Weight >= reserveFloorPct {
			return domain.Recommendation{
				Action:   domain.ActionHold,
				Coin:     domain.ReserveSymbol,
				Reason:   fmt.Sprintf("Solid base position at %.1f%% of the portfolio", pos.Weight),
				Priority: domain.PriorityMedium,
			}
		}
		break
	}
	return domain.Recommendation{
		Action:   domain.ActionBuy,
		Coin:     domain.ReserveSymbol,
		Reason:   "Bitcoin anchors the portfolio; holding 30-50% in BTC adds stability",
		Priority: domain.PriorityHigh,
	}
}

// momentumRule: chase a strong unheld 24h gainer, otherwise flag a deep
// loss, otherwise default to holding the secondary reserve.
func momentumRule(positions []domain.Position, worst *domain.Position, gainer *domain.Asset) domain.Recommendation {
	if gainer != nil && gainer.Change24h > momentumGatePct && !held(positions, gainer.Symbol) {
		return domain.Recommendation{
			Action:   domain.ActionBuy,
			Coin:     gainer.Symbol,
			Reason:   fmt.Sprintf("Up %.2f%% over 24h; adding 5-10%% of the portfolio is reasonable", gainer.Change24h),
			Priority: domain.PriorityMedium,
		}
	}
	if worst != nil && worst.ProfitPct < lossGatePct {
		return domain.Recommendation{
			Action:   domain.ActionSell,
			Coin:     worst.Symbol,
			Reason:   fmt.Sprintf("Down %.1f%%; consider cutting the loss or averaging down", worst.ProfitPct),
			Priority: domain.PriorityLow,
		}
	}
	return domain.Recommendation{
		Action:   domain.ActionHold,
		Coin:     domain.SecondaryReserveSymbol,
		Reason:   "Ethereum is the second most established asset and the backbone of DeFi",
		Priority: domain.PriorityMedium,
	}
}

// profitTakingRule: lock in oversized gains, otherwise rotate into the
// momentum asset when it is moving, otherwise stay the course.
func profitTakingRule(best *domain.Position, assets []domain.Asset) domain.Recommendation {
	if best != nil && best.ProfitPct > profitTakeGatePct {
		return domain.Recommendation{
			Action:   domain.ActionSell,
			Coin:     best.Symbol,
			Reason:   fmt.Sprintf("Take partial profit (+%.1f%%); selling 20-30%% of the position locks gains", best.ProfitPct),
			Priority: domain.PriorityHigh,
		}
	}
	for _, a := range assets {
		if a.Symbol == domain.MomentumSymbol && a.Change24h > rotationGatePct {
			return domain.Recommendation{
				Action:   domain.ActionBuy,
				Coin:     domain.MomentumSymbol,
				Reason:   "Solana is moving; fast chain with low fees",
				Priority: domain.PriorityLow,
			}
		}
	}
	return domain.Recommendation{
		Action:   domain.ActionHold,
		Coin:     domain.PortfolioCoin,
		Reason:   "Current allocation is balanced; stay the course",
		Priority: domain.PriorityLow,
	}
}

func summarize(val portfolio.Valuation, best, worst *domain.Position) string {
	if len(val.Positions) == 0 {
		return "Portfolio is empty. Total value: $0.00."
	}

	direction := "up"
	if val.TotalProfit < 0 {
		direction = "down"
	}
	return fmt.Sprintf(
		"Portfolio is %s %.2f%% ($%.2f). Best position: %s (%+.1f%%). Worst: %s (%+.1f%%). Total value: $%.2f.",
		direction, math.Abs(val.TotalProfitPct), math.Abs(val.TotalProfit),
		best.Symbol, best.ProfitPct, worst.Symbol, worst.ProfitPct,
		val.TotalValue,
	)
}

func extremePosition(positions []domain.Position, better func(a, b domain.Position) bool) *domain.Position {
	if len(positions) == 0 {
		return nil
	}
	pick := positions[0]
	for _, pos := range positions[1:] {
		if better(pos, pick) {
			pick = pos
		}
	}
	return &pick
}

func topGainer(assets []domain.Asset) *domain.Asset {
	if len(assets) == 0 {
		return nil
	}
	pick := assets[0]
	for _, a := range assets[1:] {
		if a.Change24h > pick.Change24h {
			pick = a
		}
	}
	return &pick
}

func held(positions []domain.Position, symbol string) bool {
	for _, pos := range positions {
		if pos.Symbol == symbol {
			return true
		}
	}
	return false
}
