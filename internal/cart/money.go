package cart

import (
	"math"
	"strconv"
	"strings"
)

// FromMajor converts a catalog price in major units (dollars) to cents, rounding half away from
// zero.
func FromMajor(major float64) int64 {
	return int64(math.Round(major * 100))
}

// FormatUSD renders cents as "$1,234.56".
func FormatUSD(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	head := thousandSep(cents / 100)
	tail := strconv.FormatInt(cents%100+100, 10)[1:]
	if neg {
		return "-$" + head + "." + tail
	}
	return "$" + head + "." + tail
}

func thousandSep(n int64) string {
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
