package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/VAlejandro22/ecommerce-iq/internal/cart"
	"github.com/VAlejandro22/ecommerce-iq/internal/checkout"
	"github.com/VAlejandro22/ecommerce-iq/internal/platform/httpx"
)

// CheckoutHandlers build the messaging handoff for the session cart and for single designs.
type CheckoutHandlers struct {
	carts   CartStore
	designs DesignLookup
	phone   string
	locale  language.Tag
}

// NewCheckoutHandlers constructs checkout handlers sending orders to phone.
func NewCheckoutHandlers(carts CartStore, designs DesignLookup, phone string, defaultLocale language.Tag) *CheckoutHandlers {
	return &CheckoutHandlers{carts: carts, designs: designs, phone: phone, locale: defaultLocale}
}

// Routes wires the checkout endpoints onto r.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/cart/checkout", h.cartCheckout)
	r.Get("/designs/{id}/inquiry", h.designInquiry)
}

func (h *CheckoutHandlers) requestLocale(r *http.Request) language.Tag {
	if explicit := strings.TrimSpace(r.URL.Query().Get("locale")); explicit != "" {
		return checkout.MatchLocale(explicit, h.locale)
	}
	return checkout.MatchLocale(r.Header.Get("Accept-Language"), h.locale)
}

func (h *CheckoutHandlers) cartCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}
	var summary cart.Summary
	if err := h.carts.WithContext(ctx, func(c *cart.Cart) error {
		summary = c.Summary()
		return nil
	}); err != nil {
		writeCartError(ctx, w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httpx.WriteJSON(w, http.StatusOK, checkout.CartHandoff(h.phone, summary, h.requestLocale(r)))
}

func (h *CheckoutHandlers) designInquiry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.designs == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}
	design, err := h.designs.Design(ctx, strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		writeCatalogError(ctx, w, "design", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, checkout.ProductInterestLink(h.phone, design.Name, h.requestLocale(r)))
}
