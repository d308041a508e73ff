package notifier

import (
	"fmt"
	"html"
	"strings"

	"FXStrength/internal/model"
)

const dateLayout = "2006-01-02"

// FormatRanking formats a strength report as a ranked Telegram message.
func FormatRanking(r *model.StrengthReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("💱 <b>Currency Strength</b> | %s\n", strings.ToUpper(string(r.Period))))
	b.WriteString(fmt.Sprintf("%s → %s\n\n", r.From.Format(dateLayout), r.To.Format(dateLayout)))

	b.WriteString("<pre>")
	for _, e := range r.Ranking {
		b.WriteString(fmt.Sprintf("%d. %s %s %5.1f (%+.2f%%)\n",
			e.Rank, e.Unit, scoreBar(e.NormalizedScore), e.NormalizedScore, e.RawScore))
	}
	b.WriteString("</pre>\n")

	if n := len(r.Ranking); n > 1 {
		b.WriteString(fmt.Sprintf("Strongest: <b>%s</b> | Weakest: <b>%s</b>\n",
			r.Ranking[0].Unit, r.Ranking[n-1].Unit))
	}
	return b.String()
}

// scoreBar renders a 0-100 score as a ten-cell bar.
func scoreBar(score float64) string {
	filled := int(score/10 + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

// FormatUniverse lists the pairs and date range of the current basket.
func FormatUniverse(b *model.Basket) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 <b>Universe</b>: %s\n", strings.Join(b.Universe, ", ")))
	sb.WriteString(fmt.Sprintf("Source: %s | %d pairs | %d dates\n", b.Source, len(b.Pairs), b.Len()))
	if b.Len() > 0 {
		sb.WriteString(fmt.Sprintf("Range: %s → %s\n", b.Dates[0].Format(dateLayout), b.Dates[b.Len()-1].Format(dateLayout)))
	}
	sb.WriteString("\n" + strings.Join(b.PairSymbols(), " "))
	return sb.String()
}

// FormatError formats a failed task for the chat.
func FormatError(task string, err error) string {
	return fmt.Sprintf("❌ <b>%s failed</b>\n%s", html.EscapeString(task), html.EscapeString(err.Error()))
}

// HelpText lists the supported bot commands.
func HelpText() string {
	periods := make([]string, len(model.Periods))
	for i, p := range model.Periods {
		periods[i] = string(p)
	}
	return "Available commands:\n" +
		"• /strength [" + strings.Join(periods, "|") + "] - current ranking\n" +
		"• /pairs - tracked pairs and data range\n" +
		"• /refresh - reload market data now"
}
