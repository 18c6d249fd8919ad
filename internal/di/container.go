package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/VAlejandro22/ecommerce-iq/internal/cart"
	"github.com/VAlejandro22/ecommerce-iq/internal/catalog"
	"github.com/VAlejandro22/ecommerce-iq/internal/checkout"
	"github.com/VAlejandro22/ecommerce-iq/internal/handlers"
	"github.com/VAlejandro22/ecommerce-iq/internal/platform/config"
	"github.com/VAlejandro22/ecommerce-iq/internal/platform/retry"
	"github.com/VAlejandro22/ecommerce-iq/internal/session"
)

// Services bundles the components handlers rely upon.
type Services struct {
	Catalog  *catalog.Gateway
	Phones   *cart.PhoneModels
	Carts    *session.Store
	Cookies  *session.Manager
	Locale   language.Tag
	Checkout string
}

// Container wires the storefront components for runtime use.
type Container struct {
	Config   config.Config
	Services Services
	logger   *zap.Logger
}

// ContainerOption customises NewContainer.
type ContainerOption func(*containerOptions)

type containerOptions struct {
	httpClient *http.Client
}

// WithHTTPClient replaces the catalog HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) ContainerOption {
	return func(o *containerOptions) {
		o.httpClient = hc
	}
}

// NewContainer constructs the runtime dependencies from cfg.
func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...ContainerOption) (*Container, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	var o containerOptions
	for _, opt := range opts {
		opt(&o)
	}

	svc, err := buildServices(ctx, cfg, logger, o)
	if err != nil {
		return nil, err
	}
	return &Container{Config: cfg, Services: svc, logger: logger}, nil
}

func buildServices(_ context.Context, cfg config.Config, logger *zap.Logger, o containerOptions) (Services, error) {
	var svc Services

	policy := retry.DefaultPolicy()
	policy.AttemptTimeout = cfg.Catalog.AttemptTimeout
	policy.MaxRetries = cfg.Catalog.MaxRetries

	clientOpts := []catalog.ClientOption{
		catalog.WithRetryPolicy(policy),
		catalog.WithClientLogger(logger.Named("catalog")),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, catalog.WithHTTPClient(o.httpClient))
	}
	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Token, clientOpts...)
	svc.Catalog = catalog.NewGateway(client,
		catalog.WithLogger(logger.Named("catalog")),
		catalog.WithCacheTTL(cfg.Catalog.CacheTTL),
		catalog.WithPageSize(cfg.Catalog.PageSize),
	)

	phones, err := cart.DefaultPhoneModels()
	if err != nil {
		return Services{}, fmt.Errorf("load phone models: %w", err)
	}
	svc.Phones = phones

	store, err := session.NewStore(cfg.Session.MaxCarts, session.WithStoreLogger(logger.Named("session")))
	if err != nil {
		return Services{}, fmt.Errorf("build session store: %w", err)
	}
	svc.Carts = store

	hashKey := []byte(cfg.Session.HashKey)
	blockKey := []byte(cfg.Session.BlockKey)
	if len(hashKey) == 0 {
		if !cfg.IsLocal() {
			return Services{}, errors.New("session hash key is required outside local environments")
		}
		logger.Warn("session keys not configured; generating ephemeral keys")
		hashKey = securecookie.GenerateRandomKey(32)
		blockKey = securecookie.GenerateRandomKey(32)
	}
	cookies, err := session.NewManager(session.Config{
		HashKey:      hashKey,
		BlockKey:     blockKey,
		CookieSecure: cfg.Session.SecureCookie,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build session manager: %w", err)
	}
	svc.Cookies = cookies

	locale, err := checkout.ParseLocale(cfg.Checkout.DefaultLocale)
	if err != nil {
		logger.Warn("invalid default locale; using es", zap.String("locale", cfg.Checkout.DefaultLocale), zap.Error(err))
	}
	svc.Locale = locale
	svc.Checkout = cfg.Checkout.WhatsAppPhone

	return svc, nil
}

// RouterOptions returns the handler registrations backed by the container's services.
func (c *Container) RouterOptions() []handlers.Option {
	svc := c.Services
	return []handlers.Option{
		handlers.WithCatalogRoutes(handlers.NewCatalogHandlers(svc.Catalog, svc.Phones).Routes),
		handlers.WithSessionMiddlewares(session.Middleware(svc.Cookies)),
		handlers.WithCartRoutes(handlers.NewCartHandlers(svc.Carts, svc.Catalog, svc.Phones).Routes),
		handlers.WithCheckoutRoutes(handlers.NewCheckoutHandlers(svc.Carts, svc.Catalog, svc.Checkout, svc.Locale).Routes),
	}
}

// ReadinessChecks lists dependency probes for /readyz.
func (c *Container) ReadinessChecks() []handlers.HealthOption {
	return []handlers.HealthOption{
		handlers.WithReadinessCheck("catalog", c.Services.Catalog.Ping),
	}
}

// Close releases resources held by the container.
func (c *Container) Close(context.Context) error {
	if c == nil {
		return nil
	}
	c.logger.Debug("container closed", zap.Int("carts", c.Services.Carts.Len()))
	return nil
}
