package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"jobmatch-engine/internal/textutil"
)

var salaryAmount = regexp.MustCompile(`\d{1,3}(?:\.\d{3})+|\d{1,3}(?:,\d{3})+|\d+`)

var groupSep = strings.NewReplacer(".", "", ",", "")

// ParseSalary reads the upper bound and currency out of a portal's salary
// text, e.g. "$800.000 - $1.000.000 líquido" or "$1,200,000". Portals here are
// Chilean, so a bare "$" means pesos. Amounts below 1000 are ignored since
// they are days, hours or percentages rather than pay.
func ParseSalary(text string) (upper *int64, currency string) {
	folded := textutil.Fold(text)
	if folded == "" {
		return nil, ""
	}

	words := " " + strings.Join(textutil.Words(folded), " ") + " "
	switch {
	case strings.Contains(folded, "us$") || strings.Contains(words, " usd ") || strings.Contains(words, " dolares "):
		currency = "USD"
	case strings.Contains(folded, "$") || strings.Contains(words, " clp ") || strings.Contains(words, " pesos "):
		currency = "CLP"
	}

	var best int64
	for _, m := range salaryAmount.FindAllString(folded, -1) {
		n, err := strconv.ParseInt(groupSep.Replace(m), 10, 64)
		if err != nil || n < 1000 {
			continue
		}
		if n > best {
			best = n
		}
	}
	if best == 0 {
		return nil, currency
	}
	return &best, currency
}
