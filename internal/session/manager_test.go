package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/VAlejandro22/ecommerce-iq/internal/cart"
)

type fixedClock struct {
	current time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.current
}

func newTestManager(t *testing.T) (*Manager, *fixedClock) {
	t.Helper()

	clock := &fixedClock{current: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	mgr, err := NewManager(Config{
		CookieName: "test_session",
		HashKey:    []byte("12345678901234567890123456789012"),
		BlockKey:   []byte("abcdefghijklmnopqrstuv0123456789"),
		Lifetime:   2 * time.Hour,
		Now:        clock.Now,
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	return mgr, clock
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestNewManagerValidatesKeys(t *testing.T) {
	if _, err := NewManager(Config{}); err == nil {
		t.Fatalf("expected error without hash key")
	}
	if _, err := NewManager(Config{HashKey: []byte("k"), BlockKey: []byte("short")}); err == nil {
		t.Fatalf("expected error for bad block key length")
	}
}

func TestMiddlewareIssuesAndReusesSession(t *testing.T) {
	mgr, clock := newTestManager(t)

	var ids []string
	handler := Middleware(mgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, IDFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, httptest.NewRequest(http.MethodGet, "/cart", nil))
	if len(ids) != 1 || len(ids[0]) != 26 {
		t.Fatalf("expected a ULID session id, got %v", ids)
	}
	cookie := findCookie((&http.Response{Header: rec1.Header()}).Cookies(), "test_session")
	if cookie == nil {
		t.Fatalf("expected session cookie, got %v", rec1.Header().Values("Set-Cookie"))
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}

	clock.current = clock.current.Add(time.Hour)
	req2 := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req2.AddCookie(cookie)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	if ids[1] != ids[0] {
		t.Fatalf("expected same session across requests")
	}
	if rec2.Header().Get("Set-Cookie") != "" {
		t.Fatalf("expected no cookie rewrite for a known session")
	}

	clock.current = clock.current.Add(2 * time.Hour)
	req3 := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req3.AddCookie(cookie)
	rec3 := httptest.NewRecorder()
	handler.ServeHTTP(rec3, req3)
	if ids[2] == ids[0] {
		t.Fatalf("expected new session after lifetime elapsed")
	}
	if rec3.Header().Get("Set-Cookie") == "" {
		t.Fatalf("expected replacement cookie")
	}
}

func TestLoadRejectsTamperedCookie(t *testing.T) {
	mgr, _ := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: "forged"})
	data, fresh := mgr.Load(req)
	if !fresh || data.ID == "" {
		t.Fatalf("expected fresh session for tampered cookie, got %+v %v", data, fresh)
	}
}

func TestDestroyExpiresCookie(t *testing.T) {
	mgr, _ := newTestManager(t)
	rec := httptest.NewRecorder()
	mgr.Destroy(rec)
	if header := rec.Header().Get("Set-Cookie"); !strings.Contains(header, "Max-Age=0") {
		t.Fatalf("expected expired cookie, got %q", header)
	}
}

func TestStoreKeepsOneCartPerSession(t *testing.T) {
	store, err := NewStore(4)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	add := func(id string) error {
		return store.With(id, func(c *cart.Cart) error {
			return c.Add(cart.Product{Slug: "ola", UnitPrice: 1000}, nil, 1)
		})
	}
	if err := add("a"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := add("a"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := add("b"); err != nil {
		t.Fatalf("add: %v", err)
	}

	var qty int
	_ = store.With("a", func(c *cart.Cart) error {
		qty = c.ItemCount()
		return nil
	})
	if qty != 2 {
		t.Fatalf("expected 2 units in session a, got %d", qty)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 carts, got %d", store.Len())
	}

	store.Forget("a")
	_ = store.With("a", func(c *cart.Cart) error {
		qty = c.ItemCount()
		return nil
	})
	if qty != 0 {
		t.Fatalf("expected a fresh cart after forget, got %d", qty)
	}
}

func TestStoreRequiresSession(t *testing.T) {
	store, _ := NewStore(1)
	err := store.With(" ", func(*cart.Cart) error { return nil })
	if err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestStoreEvictsLeastRecentlyUsed(t *testing.T) {
	store, _ := NewStore(2)
	noop := func(*cart.Cart) error { return nil }
	_ = store.With("a", noop)
	_ = store.With("b", noop)
	_ = store.With("a", noop)
	_ = store.With("c", noop)
	if store.Len() != 2 {
		t.Fatalf("expected bounded store, got %d", store.Len())
	}
	if _, ok := store.carts.Peek("b"); ok {
		t.Fatalf("expected b evicted")
	}
	if _, ok := store.carts.Peek("a"); !ok {
		t.Fatalf("expected a retained")
	}
}

func TestStoreSerializesSessionMutations(t *testing.T) {
	store, _ := NewStore(8)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.With("shared", func(c *cart.Cart) error {
				return c.Add(cart.Product{Slug: "ola", UnitPrice: 1000}, nil, 1)
			})
		}()
	}
	wg.Wait()

	var qty int
	_ = store.With("shared", func(c *cart.Cart) error {
		qty = c.ItemCount()
		return nil
	})
	if qty != 50 {
		t.Fatalf("expected 50 units, got %d", qty)
	}
}
