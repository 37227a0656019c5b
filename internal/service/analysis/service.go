// Package analysis attaches an LLM assessment and score to detected signals.
package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/homeant/todify/internal/domain/signal"
	"github.com/homeant/todify/internal/pkg/dates"
)

const systemPrompt = "You are an experienced A-share technical analyst. " +
	"Assess the given technical signals, explain the short-term outlook in a " +
	"few sentences, and end with a line of the form 'Score: N' where N is " +
	"0-100 (higher means more bullish)."

// defaultScore is used when no score can be parsed from the reply.
const defaultScore = 50

// Completer produces one chat completion.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Service scores persisted signals.
type Service struct {
	signals   signal.Repository
	completer Completer
}

// NewService creates the service.
func NewService(signals signal.Repository, completer Completer) *Service {
	return &Service{signals: signals, completer: completer}
}

// AnalyzeSignal loads the signal at (code, date), asks the model for an
// assessment and attaches the text and extracted score to the row. Flags are
// never modified.
func (s *Service) AnalyzeSignal(ctx context.Context, code string, date time.Time) error {
	date = dates.Day(date)

	sig, err := s.signals.Get(ctx, code, date)
	if err != nil {
		return fmt.Errorf("load signal for %s at %s: %w", code, dates.Format(date), err)
	}

	reply, err := s.completer.Complete(ctx, systemPrompt, buildPrompt(sig))
	if err != nil {
		return fmt.Errorf("analyze signal for %s: %w", code, err)
	}

	score := extractScore(reply)
	if err := s.signals.SetAnalysis(ctx, code, date, reply, score); err != nil {
		return fmt.Errorf("attach analysis for %s: %w", code, err)
	}

	log.Info().
		Str("code", code).
		Str("date", dates.Format(date)).
		Float64("score", score).
		Msg("Signal analyzed")

	return nil
}

// flagDescriptions maps firing flags to prompt lines, in table column order.
func flagDescriptions(sig *signal.Signal) []string {
	checks := []struct {
		on   bool
		desc string
	}{
		{sig.MacdGoldenCross, "MACD golden cross (DIFF crossed above DEA)"},
		{sig.MacdDeadCross, "MACD dead cross (DIFF crossed below DEA)"},
		{sig.KdjGoldenCross, "KDJ golden cross (K crossed above D)"},
		{sig.KdjDeadCross, "KDJ dead cross (K crossed below D)"},
		{sig.KdjOversold, "KDJ oversold (K below 20)"},
		{sig.KdjOverbought, "KDJ overbought (K above 80)"},
		{sig.RsiOversold, "RSI oversold (RSI6 below 20)"},
		{sig.RsiOverbought, "RSI overbought (RSI6 above 80)"},
		{sig.BollBreakUp, "Close broke above the upper Bollinger band"},
		{sig.BollBreakDown, "Close broke below the lower Bollinger band"},
		{sig.MaGoldenCross, "MA5 crossed above MA20"},
		{sig.MaDeadCross, "MA5 crossed below MA20"},
		{sig.PriceRebound, "Price rebounding off a recent low"},
	}

	var out []string
	for _, c := range checks {
		if c.on {
			out = append(out, c.desc)
		}
	}
	return out
}

func buildPrompt(sig *signal.Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stock %s (%s) on %s triggered the following technical signals:\n",
		sig.Name, sig.Code, dates.Format(sig.TradeDate))
	for _, desc := range flagDescriptions(sig) {
		fmt.Fprintf(&b, "- %s\n", desc)
	}
	return b.String()
}

var scorePattern = regexp.MustCompile(`(?i)score[^0-9]*([0-9]+(?:\.[0-9]+)?)`)

// extractScore pulls the numeric score out of the reply, defaulting to 50
// when absent and clamping to [0, 100].
func extractScore(reply string) float64 {
	m := scorePattern.FindStringSubmatch(reply)
	if m == nil {
		return defaultScore
	}
	score, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return defaultScore
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
