package receipt

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	totalRe  = regexp.MustCompile(`(?i)(?:total|amount due|grand total)\s*[:\-]?\s*(?:\$|€|£|Rp)?\s*([0-9][0-9.,]*)`)
	amountRe = regexp.MustCompile(`(?:\$|€|£|Rp)?\s*([0-9]+(?:[.,][0-9]{1,2})?)`)
	dateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashRe  = regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\b`)
)

// RulesParser is the offline fallback: regex heuristics over the receipt
// text. It never fails, it just guesses less well than the model.
type RulesParser struct{}

// NewRulesParser creates the regex-based receipt parser
func NewRulesParser() *RulesParser { return &RulesParser{} }

// Parse extracts merchant, amount and date heuristically. The first
// non-numeric line is taken as the merchant; the "total" line wins over the
// largest standalone amount.
func (p *RulesParser) Parse(_ context.Context, text string) (*Draft, error) {
	draft := &Draft{
		Merchant: guessMerchant(text),
		Amount:   guessAmount(text),
		Date:     guessDate(text),
	}
	if draft.Date == "" {
		draft.Date = time.Now().Format("2006-01-02")
	}
	return draft, nil
}

func guessMerchant(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.ContainsAny(strings.ToLower(line), "abcdefghijklmnopqrstuvwxyz") &&
			!strings.Contains(strings.ToLower(line), "total") {
			if len(line) > 64 {
				line = line[:64]
			}
			return line
		}
	}
	return "Receipt"
}

func guessAmount(text string) float64 {
	if m := totalRe.FindStringSubmatch(text); len(m) == 2 {
		if v, ok := parseAmount(m[1]); ok {
			return v
		}
	}

	// No labelled total: take the largest amount on the receipt.
	var best float64
	for _, m := range amountRe.FindAllStringSubmatch(text, -1) {
		if v, ok := parseAmount(m[1]); ok && v > best {
			best = v
		}
	}
	return best
}

func guessDate(text string) string {
	if m := dateRe.FindStringSubmatch(text); len(m) == 4 {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	if m := slashRe.FindStringSubmatch(text); len(m) == 4 {
		// DD/MM/YYYY
		return m[3] + "-" + m[2] + "-" + m[1]
	}
	return ""
}

// parseAmount handles both "1,234.56" and "1.234,56" style separators.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if lastComma, lastDot := strings.LastIndex(s, ","), strings.LastIndex(s, "."); lastComma > lastDot {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
