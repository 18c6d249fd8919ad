// Package checkout builds the plain-text order summary and the messaging link that hands the
// order to a human advisor. There is no server-side order submission.
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/VAlejandro22/ecommerce-iq/internal/cart"
)

const waBaseURL = "https://wa.me/"

// Handoff is the checkout payload returned to the client.
type Handoff struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// BuildOrderMessage renders one bullet per priced line followed by the promo total, the savings
// when a discount applies and the advisor disclaimer.
func BuildOrderMessage(summary cart.Summary, locale language.Tag) string {
	text := copyFor(locale)
	lines := make([]string, 0, len(summary.Lines)+4)
	lines = append(lines, text.cartGreeting)
	for _, item := range summary.Lines {
		lines = append(lines, orderLine(item, text))
	}
	lines = append(lines, fmt.Sprintf(text.total, cart.FormatUSD(summary.PromoSubtotal)))
	if summary.TotalDiscount > 0 {
		lines = append(lines, fmt.Sprintf(text.savings, cart.FormatUSD(summary.TotalDiscount)))
	}
	lines = append(lines, "", text.disclaimer)
	return strings.Join(lines, "\n")
}

func orderLine(item cart.PricedLine, text copyText) string {
	var b strings.Builder
	b.WriteString("• ")
	b.WriteString(item.Name)
	if item.PromoUnits > 0 {
		b.WriteString(" ")
		b.WriteString(text.promoTag)
	}
	model := text.noModel
	if item.PhoneModel != nil && strings.TrimSpace(*item.PhoneModel) != "" {
		model = *item.PhoneModel
	}
	fmt.Fprintf(&b, " (%s) x%d = %s", model, item.Quantity, cart.FormatUSD(item.EffectiveTotal))
	return b.String()
}

// BuildLink returns the messaging deep link for phone with text percent-encoded. Only the digits
// of phone are kept.
func BuildLink(phone, text string) string {
	return waBaseURL + digitsOnly(phone) + "?text=" + encodeText(text)
}

// ProductInterestLink asks about a single design.
func ProductInterestLink(phone, productName string, locale language.Tag) Handoff {
	msg := fmt.Sprintf(copyFor(locale).interest, productName)
	return Handoff{Message: msg, URL: BuildLink(phone, msg)}
}

// CartHandoff builds the checkout payload for summary. An empty cart falls back to a product
// interest link with no product name.
func CartHandoff(phone string, summary cart.Summary, locale language.Tag) Handoff {
	if len(summary.Lines) == 0 {
		return ProductInterestLink(phone, "", locale)
	}
	msg := BuildOrderMessage(summary, locale)
	return Handoff{Message: msg, URL: BuildLink(phone, msg)}
}

func digitsOnly(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// encodeText matches encodeURIComponent's treatment of spaces.
func encodeText(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
