package tui

import (
	"fmt"
	"strings"

	"crypto-nexus/internal/portfolio"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	paneStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	upStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	downStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m Model) View() string {
	if m.chatOpen {
		return m.chatView()
	}
	return m.dashboardView()
}

func (m Model) dashboardView() string {
	header := titleStyle.Render("Crypto Nexus") + "  " + m.sourceBadge()

	left := paneStyle.Render(m.assetListView())
	right := paneStyle.Render(m.chartView())
	top := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(m.portfolioView()),
		paneStyle.Render(m.recommendationsView()),
	)

	help := dimStyle.Render("j/k select · 1/7/3 window · r regenerate · c chat · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, top, bottom, help)
}

func (m Model) sourceBadge() string {
	if m.state.Live {
		return upStyle.Render("LIVE")
	}
	return downStyle.Render("OFFLINE")
}

func (m Model) assetListView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Markets") + "\n")
	for i, a := range m.state.Assets {
		line := fmt.Sprintf("%s %-5s $%12.2f %s", a.Icon, a.Symbol, a.Price, changeLabel(a.Change24h))
		if i == m.cursor {
			line = selStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func (m Model) chartView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s · %dd", m.state.SelectedID, m.state.WindowDays)) + "\n")
	sb.WriteString(Sparkline(m.state.Chart, 8) + "\n")
	if n := len(m.state.Chart); n > 0 {
		first, last := m.state.Chart[0], m.state.Chart[n-1]
		sb.WriteString(dimStyle.Render(fmt.Sprintf("%s $%.2f  →  %s $%.2f", first.Time, first.Price, last.Time, last.Price)))
	}
	return sb.String()
}

func (m Model) portfolioView() string {
	assets, holdings := m.dash.Valuation()
	val := portfolio.Valuate(holdings, assets)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Portfolio") + "\n")
	for _, p := range val.Positions {
		sb.WriteString(fmt.Sprintf("%-5s %10.4f  $%12.2f %s\n",
			p.Symbol, p.Amount, p.CurrentValue, changeLabel(p.ProfitPct)))
	}
	sb.WriteString(fmt.Sprintf("Total $%.2f %s", val.TotalValue, changeLabel(val.TotalProfitPct)))
	return sb.String()
}

func (m Model) recommendationsView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Recommendations") + "\n")
	if m.state.Analysis != "" {
		sb.WriteString(dimStyle.Render(m.state.Analysis) + "\n")
	}
	for _, r := range m.state.Recommendations {
		sb.WriteString(fmt.Sprintf("[%s] %s %s: %s\n", r.Priority, r.Action, r.Coin, r.Reason))
	}
	if len(m.state.Recommendations) == 0 {
		sb.WriteString(dimStyle.Render("press r to generate"))
	}
	return sb.String()
}

func (m Model) chatView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Advisor Chat") + "\n\n")
	for _, line := range m.chatLog {
		if line.fromUser {
			sb.WriteString(selStyle.Render("you: ") + line.text + "\n")
		} else {
			sb.WriteString(upStyle.Render("bot: ") + line.text + "\n")
		}
	}
	if m.waiting {
		sb.WriteString(m.spinner.View() + " thinking...\n")
	}
	sb.WriteString("\n" + m.input.View() + "\n")
	sb.WriteString(dimStyle.Render("enter send · esc back"))
	return paneStyle.Render(sb.String())
}

func changeLabel(pct float64) string {
	label := fmt.Sprintf("%+.2f%%", pct)
	if pct >= 0 {
		return upStyle.Render(label)
	}
	return downStyle.Render(label)
}
