package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"crypto-nexus/internal/dashboard"
	"crypto-nexus/internal/domain"
	"crypto-nexus/internal/portfolio"

	tele "gopkg.in/telebot.v3"
)

// StartTelegramBot launches the bot with /price, /portfolio and /ask
// commands. Telegram chats share the advisor's conversation store under
// "tg:<chat id>" session keys.
func StartTelegramBot(token string, dash *dashboard.Controller) {
	if token == "" {
		log.Println("Telegram bot token not set, skipping bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/price", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send(fmt.Sprintf("Usage: /price BTC\nSupported: %s", strings.Join(domain.SupportedSymbols, ", ")))
		}
		symbol := strings.ToUpper(args[0])
		if _, ok := domain.CoinGeckoID[symbol]; !ok {
			return c.Send(fmt.Sprintf("Unknown symbol: %s\nSupported: %s", symbol, strings.Join(domain.SupportedSymbols, ", ")))
		}
		state := dash.Snapshot()
		for _, a := range state.Assets {
			if a.Symbol == symbol {
				return c.Send(fmt.Sprintf(
					"%s %s\nPrice: $%.2f\n24h Change: %+.2f%%\n24h Volume: $%.0f",
					a.Icon, a.Name, a.Price, a.Change24h, a.Volume24h,
				))
			}
		}
		return c.Send(fmt.Sprintf("No data for %s yet, try again shortly", symbol))
	})

	b.Handle("/portfolio", func(c tele.Context) error {
		assets, holdings := dash.Valuation()
		if len(holdings) == 0 {
			return c.Send("Portfolio is empty.")
		}
		val := portfolio.Valuate(holdings, assets)
		var sb strings.Builder
		sb.WriteString("Your portfolio:\n")
		for _, p := range val.Positions {
			fmt.Fprintf(&sb, "%s: %.4f = $%.2f (%+.2f%%)\n", p.Symbol, p.Amount, p.CurrentValue, p.ProfitPct)
		}
		fmt.Fprintf(&sb, "Total: $%.2f (%+.2f%%)", val.TotalValue, val.TotalProfitPct)
		return c.Send(sb.String())
	})

	b.Handle("/ask", func(c tele.Context) error {
		question := strings.TrimSpace(c.Message().Payload)
		if question == "" {
			return c.Send("Usage: /ask when should I take profits on BTC?")
		}
		sessionID := fmt.Sprintf("tg:%d", c.Chat().ID)
		reply := dash.Chat(context.Background(), sessionID, question)
		return c.Send(reply)
	})

	log.Println("Telegram bot started")
	go b.Start()
}
