package cart

// PromoUnitPrice is what a promoted unit costs, in cents.
const PromoUnitPrice int64 = 100

// Promotion prices an ordered list of lines.
type Promotion interface {
	Price(lines []Line) []PricedLine
}

// EveryNth charges UnitPrice for every Nth unit of the whole cart, whatever the line's own price.
// Units are numbered across all lines in insertion order, so positions are recomputed from the
// current lines on every call and removing a line can move the discount onto different units.
type EveryNth struct {
	N         int
	UnitPrice int64
}

// DefaultPromotion makes every third unit cost one dollar.
var DefaultPromotion Promotion = EveryNth{N: 3, UnitPrice: PromoUnitPrice}

// PricedLine is a line with its promotion applied.
type PricedLine struct {
	Line
	BaseTotal  int64 `json:"baseTotal"`
	PromoUnits int   `json:"promoUnits"`
	// EffectiveUnitPrice is set when every unit of the line costs the same, and nil when the line
	// mixes promoted and full-price units.
	EffectiveUnitPrice *int64 `json:"effectiveUnitPrice"`
	EffectiveTotal     int64  `json:"effectiveTotal"`
}

// AverageUnitPrice is EffectiveTotal spread over the quantity, rounded to the nearest cent.
func (p PricedLine) AverageUnitPrice() int64 {
	if p.Quantity <= 0 {
		return 0
	}
	q := int64(p.Quantity)
	return (p.EffectiveTotal + q/2) / q
}

// Price implements Promotion.
func (e EveryNth) Price(lines []Line) []PricedLine {
	out := make([]PricedLine, 0, len(lines))
	start := 0
	for _, line := range lines {
		promo := e.unitsInRange(start, line.Quantity)
		start += line.Quantity

		full := int64(line.Quantity - promo)
		priced := PricedLine{
			Line:           line,
			BaseTotal:      line.UnitPrice * int64(line.Quantity),
			PromoUnits:     promo,
			EffectiveTotal: full*line.UnitPrice + int64(promo)*e.UnitPrice,
		}
		switch promo {
		case 0:
			priced.EffectiveUnitPrice = int64Ptr(line.UnitPrice)
		case line.Quantity:
			priced.EffectiveUnitPrice = int64Ptr(e.UnitPrice)
		}
		out = append(out, priced)
	}
	return out
}

// unitsInRange counts positions p in [start, start+n) with p mod N == N-1. There are x/N such
// positions below x, so the count is a difference of two quotients.
func (e EveryNth) unitsInRange(start, n int) int {
	if e.N <= 0 || n <= 0 {
		return 0
	}
	return (start+n)/e.N - start/e.N
}

func int64Ptr(v int64) *int64 { return &v }
