package checkout

import (
	"net/url"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/VAlejandro22/ecommerce-iq/internal/cart"
)

func strPtr(s string) *string { return &s }

func sampleSummary(t *testing.T) cart.Summary {
	t.Helper()
	c := cart.New()
	if err := c.Add(cart.Product{Slug: "ola", Name: "Ola", UnitPrice: 1000}, strPtr("iPhone 13"), 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(cart.Product{Slug: "neon", Name: "Neón & Co", UnitPrice: 1500}, nil, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	return c.Summary()
}

func TestBuildOrderMessageSpanish(t *testing.T) {
	msg := BuildOrderMessage(sampleSummary(t), Spanish)
	want := strings.Join([]string{
		"Hola! Quiero comprar estos diseños de CaseWave:",
		"• Ola (iPhone 13) x2 = $20.00",
		"• Neón & Co [PROMO $1] (modelo no especificado) x1 = $1.00",
		"Total: $21.00",
		"Ahorro: $14.00",
		"",
		"* Un asesor te escribirá para confirmar modelo y método de pago (transferencia o tarjeta) antes de finalizar.",
	}, "\n")
	if msg != want {
		t.Fatalf("unexpected message:\n%s\nwant:\n%s", msg, want)
	}
}

func TestBuildOrderMessageOmitsSavingsWithoutDiscount(t *testing.T) {
	c := cart.New()
	_ = c.Add(cart.Product{Slug: "ola", Name: "Ola", UnitPrice: 1000}, nil, 1)
	msg := BuildOrderMessage(c.Summary(), English)
	if strings.Contains(msg, "You save") {
		t.Fatalf("expected no savings line, got %q", msg)
	}
	if !strings.Contains(msg, "• Ola (model not specified) x1 = $10.00") || !strings.Contains(msg, "Total: $10.00") {
		t.Fatalf("unexpected english message: %q", msg)
	}
}

func TestBuildLink(t *testing.T) {
	link := BuildLink("+593 98-763-2921", "Hola & chau?\n100%")
	if !strings.HasPrefix(link, "https://wa.me/593987632921?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	if strings.Contains(link, "+") {
		t.Fatalf("expected spaces as %%20, got %s", link)
	}
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := parsed.Query().Get("text"); got != "Hola & chau?\n100%" {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestCartHandoffEmptyCart(t *testing.T) {
	h := CartHandoff("+593987632921", cart.New().Summary(), Spanish)
	if h.Message != `Hola! Me interesa el diseño "" de CaseWave. ¿Me pasas info?` {
		t.Fatalf("unexpected empty-cart message: %q", h.Message)
	}
	if h.URL != BuildLink("+593987632921", h.Message) {
		t.Fatalf("unexpected url: %s", h.URL)
	}
}

func TestCartHandoffWithItems(t *testing.T) {
	summary := sampleSummary(t)
	h := CartHandoff("+593987632921", summary, Spanish)
	if h.Message != BuildOrderMessage(summary, Spanish) {
		t.Fatalf("expected order message in handoff")
	}
}

func TestProductInterestLink(t *testing.T) {
	h := ProductInterestLink("593987632921", "Ola", English)
	if !strings.Contains(h.Message, `"Ola"`) || !strings.HasPrefix(h.Message, "Hi!") {
		t.Fatalf("unexpected message: %q", h.Message)
	}
}

func TestMatchLocale(t *testing.T) {
	cases := []struct {
		accept string
		want   language.Tag
	}{
		{accept: "", want: Spanish},
		{accept: "en-US,en;q=0.9", want: English},
		{accept: "es-EC", want: Spanish},
		{accept: "fr-FR", want: Spanish},
		{accept: "fr;q=0.9, en;q=0.8", want: English},
		{accept: ";;;", want: Spanish},
	}
	for _, tc := range cases {
		if got := MatchLocale(tc.accept, Spanish); got != tc.want {
			t.Errorf("MatchLocale(%q) = %s, want %s", tc.accept, got, tc.want)
		}
	}
	if got := MatchLocale("", English); got != English {
		t.Errorf("expected fallback to english, got %s", got)
	}
}

func TestParseLocale(t *testing.T) {
	if got, err := ParseLocale("en_US"); err != nil || got != English {
		t.Fatalf("ParseLocale(en_US) = %s, %v", got, err)
	}
	if got, err := ParseLocale(""); err != nil || got != Spanish {
		t.Fatalf("ParseLocale(\"\") = %s, %v", got, err)
	}
	if _, err := ParseLocale("!!"); err == nil {
		t.Fatalf("expected parse error")
	}
}
