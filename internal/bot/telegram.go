package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"stock-report-engine/internal/service"

	tele "gopkg.in/telebot.v3"
)

func StartTelegramBot(priceService *service.PriceService, newsService *service.NewsService) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
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
			return c.Send("Usage: /price AAPL")
		}
		ticker := strings.ToUpper(args[0])
		quote, outcome := priceService.GetQuote(context.Background(), ticker)
		msg := fmt.Sprintf(
			"%s\nPrice: %.2f %s\nChange: %s (%s)\nSource: %s",
			ticker, quote.LastTradedPrice, quote.Currency, quote.ChangeAbs, quote.ChangePct, quote.Source,
		)
		if quote.Err != "" {
			msg += fmt.Sprintf("\nWarning: %s data", outcome)
		}
		return c.Send(msg)
	})

	b.Handle("/news", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /news AAPL")
		}
		ticker := strings.ToUpper(args[0])
		items, err := newsService.Latest(context.Background(), ticker, 5)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching news for %s: %v", ticker, err))
		}
		if len(items) == 0 {
			return c.Send(fmt.Sprintf("No stored news for %s, try /refresh %s", ticker, ticker))
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Latest news for %s:\n", ticker)
		for _, item := range items {
			fmt.Fprintf(&sb, "\n[%s] %s\n%s\n", item.PublishedAt.Format("Jan 2"), item.Headline, item.Source)
		}
		return c.Send(sb.String())
	})

	b.Handle("/refresh", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /refresh AAPL")
		}
		ticker := strings.ToUpper(args[0])
		result, err := newsService.Ingest(context.Background(), ticker)
		if err != nil {
			return c.Send(fmt.Sprintf("Error refreshing news for %s: %v", ticker, err))
		}
		return c.Send(fmt.Sprintf(
			"%s news refreshed (%s): %d fetched, %d new, %d duplicates",
			ticker, result.Origin, result.Fetched, result.Inserted, result.Duplicates,
		))
	})

	log.Println("Telegram bot started")
	go b.Start()
}
