package checkout

import (
	"strings"

	"golang.org/x/text/language"
)

// Supported message locales. Spanish is first so the matcher falls back to it.
var (
	Spanish = language.Spanish
	English = language.English

	supported = []language.Tag{Spanish, English}
	matcher   = language.NewMatcher(supported)
)

type copyText struct {
	cartGreeting string
	interest     string
	promoTag     string
	noModel      string
	total        string
	savings      string
	disclaimer   string
}

var catalogue = map[language.Tag]copyText{
	Spanish: {
		cartGreeting: "Hola! Quiero comprar estos diseños de CaseWave:",
		interest:     "Hola! Me interesa el diseño \"%s\" de CaseWave. ¿Me pasas info?",
		promoTag:     "[PROMO $1]",
		noModel:      "modelo no especificado",
		total:        "Total: %s",
		savings:      "Ahorro: %s",
		disclaimer:   "* Un asesor te escribirá para confirmar modelo y método de pago (transferencia o tarjeta) antes de finalizar.",
	},
	English: {
		cartGreeting: "Hi! I'd like to buy these CaseWave designs:",
		interest:     "Hi! I'm interested in the CaseWave design \"%s\". Could you send me more info?",
		promoTag:     "[PROMO $1]",
		noModel:      "model not specified",
		total:        "Total: %s",
		savings:      "You save: %s",
		disclaimer:   "* An advisor will message you to confirm the phone model and payment method (transfer or card) before completing the order.",
	},
}

// MatchLocale picks the best supported locale for an Accept-Language header or a bare tag,
// using fallback when nothing parses.
func MatchLocale(accept string, fallback language.Tag) language.Tag {
	accept = strings.TrimSpace(strings.ReplaceAll(accept, "_", "-"))
	if accept == "" {
		return baseOf(fallback)
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return baseOf(fallback)
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return baseOf(fallback)
	}
	return supported[idx]
}

// ParseLocale canonicalises a configured locale such as "es" or "en-US".
func ParseLocale(tag string) (language.Tag, error) {
	tag = strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	if tag == "" {
		return Spanish, nil
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return Spanish, err
	}
	return baseOf(parsed), nil
}

func baseOf(tag language.Tag) language.Tag {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Spanish
	}
	return supported[idx]
}

func copyFor(locale language.Tag) copyText {
	return catalogue[baseOf(locale)]
}
