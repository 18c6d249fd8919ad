package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/VAlejandro22/ecommerce-iq/internal/cart"
	"github.com/VAlejandro22/ecommerce-iq/internal/catalog"
	"github.com/VAlejandro22/ecommerce-iq/internal/platform/httpx"
	"github.com/VAlejandro22/ecommerce-iq/internal/session"
)

// CartStore runs a mutation against the cart owned by the request's session.
type CartStore interface {
	WithContext(ctx context.Context, fn func(*cart.Cart) error) error
}

// DesignLookup resolves a design by id.
type DesignLookup interface {
	Design(ctx context.Context, id string) (catalog.Design, error)
}

// CartHandlers exposes the session cart.
type CartHandlers struct {
	carts   CartStore
	designs DesignLookup
	phones  *cart.PhoneModels
}

// NewCartHandlers constructs cart handlers. designs may be nil, in which case adds must carry
// the full product.
func NewCartHandlers(carts CartStore, designs DesignLookup, phones *cart.PhoneModels) *CartHandlers {
	return &CartHandlers{carts: carts, designs: designs, phones: phones}
}

// Routes wires the /cart endpoints onto r.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/cart", h.getCart)
	r.Delete("/cart", h.clearCart)
	r.Post("/cart/items", h.addItem)
	r.Delete("/cart/items/{slug}", h.removeItem)
	r.Post("/cart/open", h.setOpen)
}

type addItemRequest struct {
	DesignID   string   `json:"designId"`
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Price      *float64 `json:"price"`
	Image      string   `json:"image"`
	PhoneModel *string  `json:"phoneModel"`
	Quantity   *int     `json:"quantity"`
}

type setOpenRequest struct {
	Open *bool `json:"open"`
}

type cartPayload struct {
	cart.Summary
	SubtotalDisplay      string `json:"subtotalDisplay"`
	PromoSubtotalDisplay string `json:"promoSubtotalDisplay"`
	TotalDiscountDisplay string `json:"totalDiscountDisplay"`
}

type cartResponse struct {
	Cart cartPayload `json:"cart"`
}

func buildCartPayload(summary cart.Summary) cartPayload {
	if summary.Lines == nil {
		summary.Lines = []cart.PricedLine{}
	}
	return cartPayload{
		Summary:              summary,
		SubtotalDisplay:      cart.FormatUSD(summary.Subtotal),
		PromoSubtotalDisplay: cart.FormatUSD(summary.PromoSubtotal),
		TotalDiscountDisplay: cart.FormatUSD(summary.TotalDiscount),
	}
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, http.StatusOK, func(*cart.Cart) error { return nil })
}

func (h *CartHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, http.StatusOK, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

func (h *CartHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req addItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_quantity", cart.ErrInvalidQuantity.Error(), http.StatusBadRequest))
		return
	}

	product, ok := h.resolveProduct(w, r, req)
	if !ok {
		return
	}
	model := h.phones.Canonical(req.PhoneModel)

	h.mutate(w, r, http.StatusOK, func(c *cart.Cart) error {
		return c.Add(product, model, quantity)
	})
}

func (h *CartHandlers) resolveProduct(w http.ResponseWriter, r *http.Request, req addItemRequest) (cart.Product, bool) {
	ctx := r.Context()
	if id := strings.TrimSpace(req.DesignID); id != "" {
		if h.designs == nil {
			httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
			return cart.Product{}, false
		}
		design, err := h.designs.Design(ctx, id)
		if err != nil {
			writeCatalogError(ctx, w, "design", err)
			return cart.Product{}, false
		}
		product := cart.Product{Slug: design.ID, Name: design.Name, UnitPrice: cart.FromMajor(design.Price)}
		if design.Image != nil {
			product.Image = *design.Image
		}
		return product, true
	}

	if strings.TrimSpace(req.Slug) == "" || req.Price == nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "designId or slug and price are required", http.StatusBadRequest))
		return cart.Product{}, false
	}
	name := req.Name
	if strings.TrimSpace(name) == "" {
		name = req.Slug
	}
	return cart.Product{
		Slug:      req.Slug,
		Name:      name,
		UnitPrice: cart.FromMajor(*req.Price),
		Image:     req.Image,
	}, true
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	var model *string
	if raw := r.URL.Query().Get("phoneModel"); strings.TrimSpace(raw) != "" {
		model = h.phones.Canonical(&raw)
	}
	h.mutate(w, r, http.StatusOK, func(c *cart.Cart) error {
		c.Remove(slug, model)
		return nil
	})
}

func (h *CartHandlers) setOpen(w http.ResponseWriter, r *http.Request) {
	var req setOpenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Open == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "open is required", http.StatusBadRequest))
		return
	}
	h.mutate(w, r, http.StatusOK, func(c *cart.Cart) error {
		c.SetOpen(*req.Open)
		return nil
	})
}

// mutate applies fn under the session lock and answers with the resulting cart.
func (h *CartHandlers) mutate(w http.ResponseWriter, r *http.Request, status int, fn func(*cart.Cart) error) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}
	var summary cart.Summary
	err := h.carts.WithContext(ctx, func(c *cart.Cart) error {
		if err := fn(c); err != nil {
			return err
		}
		summary = c.Summary()
		return nil
	})
	if err != nil {
		writeCartError(ctx, w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httpx.WriteJSON(w, status, cartResponse{Cart: buildCartPayload(summary)})
}

func writeCartError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_quantity", err.Error(), http.StatusBadRequest))
	case errors.Is(err, cart.ErrInvalidProduct):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_product", err.Error(), http.StatusBadRequest))
	case errors.Is(err, session.ErrNoSession):
		httpx.WriteError(ctx, w, httpx.NewError("session_required", "a browsing session is required", http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("cart_error", "failed to update cart", http.StatusInternalServerError))
	}
}
