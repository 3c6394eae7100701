package notifier

import (
	"strconv"
	"strings"
)

// ParsePrice reads a display price such as "1.299,99 €" into a number.
//
// Commas are decimal separators and dots thousands separators. A lone dot is
// a thousands separator only when exactly three digits follow it.
func ParsePrice(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	num := strings.Trim(b.String(), ".,")
	if num == "" {
		return 0, false
	}

	switch {
	case strings.Count(num, ",") > 1:
		return 0, false
	case strings.Contains(num, ","):
		num = strings.ReplaceAll(num, ".", "")
		num = strings.Replace(num, ",", ".", 1)
	case strings.Count(num, ".") > 1:
		num = strings.ReplaceAll(num, ".", "")
	case strings.Contains(num, "."):
		if len(num)-strings.IndexByte(num, '.')-1 == 3 {
			num = strings.Replace(num, ".", "", 1)
		}
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

type priceMove int

const (
	priceOther priceMove = iota
	priceDecrease
	priceIncrease
)

// comparePrices classifies a price field change and returns the drop or rise in percent.
func comparePrices(oldPrice, newPrice string) (priceMove, float64) {
	oldVal, okOld := ParsePrice(oldPrice)
	newVal, okNew := ParsePrice(newPrice)
	if !okOld || !okNew || oldVal == newVal {
		return priceOther, 0
	}

	if newVal < oldVal {
		if oldVal == 0 {
			return priceDecrease, 0
		}
		return priceDecrease, (oldVal - newVal) / oldVal * 100 //nolint:mnd // percent
	}

	if oldVal == 0 {
		return priceIncrease, 0
	}
	return priceIncrease, (newVal - oldVal) / oldVal * 100 //nolint:mnd // percent
}
