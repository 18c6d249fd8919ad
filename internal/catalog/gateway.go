// Package catalog reads collections and designs from the headless CMS and normalizes them into the
// storefront model.
//
// List operations never fail: an unrecoverable error is logged and answered with an empty result
// so browsing pages always render. Single-resource operations return the error, and a missing
// record matches ErrNotFound.
//
// Results may be served from a shared cache. Returned slices are copies, but the records' pointer
// fields (descriptions, images, formats, parent collections) are shared with the cache entry and
// must be treated as read-only.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/VAlejandro22/ecommerce-iq/internal/platform/requestctx"
)

const (
	DefaultPageSize = 24
	MaxPageSize     = 100
	DefaultCacheTTL = 60 * time.Second
)

// Gateway exposes the catalog operations used by the storefront. Records it returns are read-only.
type Gateway struct {
	client   *Client
	cache    *responseCache
	logger   *zap.Logger
	pageSize int
}

type gatewayConfig struct {
	logger   *zap.Logger
	cacheTTL time.Duration
	pageSize int
	now      func() time.Time
}

// Option customises a Gateway.
type Option func(*gatewayConfig)

// WithLogger sets the logger used when no request logger is on the context.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *gatewayConfig) {
		cfg.logger = logger
	}
}

// WithCacheTTL sets how long successful responses are reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(cfg *gatewayConfig) {
		cfg.cacheTTL = ttl
	}
}

// WithPageSize sets the page size used when callers pass a non-positive one.
func WithPageSize(size int) Option {
	return func(cfg *gatewayConfig) {
		cfg.pageSize = size
	}
}

// WithClock overrides the cache clock.
func WithClock(now func() time.Time) Option {
	return func(cfg *gatewayConfig) {
		cfg.now = now
	}
}

// NewGateway wires a Gateway on top of client.
func NewGateway(client *Client, opts ...Option) *Gateway {
	cfg := gatewayConfig{
		logger:   zap.NewNop(),
		cacheTTL: DefaultCacheTTL,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.pageSize <= 0 {
		cfg.pageSize = DefaultPageSize
	}
	if cfg.pageSize > MaxPageSize {
		cfg.pageSize = MaxPageSize
	}
	return &Gateway{
		client:   client,
		cache:    newResponseCache(cfg.cacheTTL, cfg.now),
		logger:   cfg.logger,
		pageSize: cfg.pageSize,
	}
}

// Collections returns every collection with its image.
func (g *Gateway) Collections(ctx context.Context) []Collection {
	out, err := cached(ctx, g, "collections", func(ctx context.Context) ([]Collection, error) {
		var env listEnvelope[collectionRecord]
		query := url.Values{"populate": {"imagen"}}
		if err := g.client.get(ctx, "collections", collectionsPath, query, &env); err != nil {
			return nil, err
		}
		return normalizeCollections(env.Data), nil
	})
	if err != nil {
		g.degrade(ctx, "collections", err)
		return []Collection{}
	}
	return slices.Clone(out)
}

// CollectionsPage returns one page of collections, newest launch first.
func (g *Gateway) CollectionsPage(ctx context.Context, page, pageSize int) CollectionPage {
	page, pageSize = g.clampPage(page, pageSize)
	key := fmt.Sprintf("collections:page:%d:%d", page, pageSize)
	out, err := cached(ctx, g, key, func(ctx context.Context) (CollectionPage, error) {
		var env listEnvelope[collectionRecord]
		query := pageQuery(page, pageSize, "fecha_lanzamiento:desc")
		query.Set("populate", "imagen")
		if err := g.client.get(ctx, "collections", collectionsPath, query, &env); err != nil {
			return CollectionPage{}, err
		}
		items := normalizeCollections(env.Data)
		return CollectionPage{Collections: items, Pagination: paginationFrom(env.Meta, page, pageSize, len(items))}, nil
	})
	if err != nil {
		g.degrade(ctx, "collections_page", err)
		return CollectionPage{Collections: []Collection{}, Pagination: emptyPagination(page, pageSize)}
	}
	out.Collections = slices.Clone(out.Collections)
	return out
}

// Collection returns one collection with its designs.
func (g *Gateway) Collection(ctx context.Context, id string) (CollectionWithDesigns, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return CollectionWithDesigns{}, fmt.Errorf("catalog: collection: empty id: %w", ErrNotFound)
	}
	out, err := cached(ctx, g, "collection:"+id, func(ctx context.Context) (CollectionWithDesigns, error) {
		var env itemEnvelope[collectionRecord]
		query := url.Values{}
		query.Set("populate[0]", "imagen")
		query.Set("populate[1]", "disenos.imagen")
		if err := g.client.get(ctx, "collection", collectionsPath+"/"+url.PathEscape(id), query, &env); err != nil {
			return CollectionWithDesigns{}, err
		}
		if env.Data == nil {
			return CollectionWithDesigns{}, ErrNotFound
		}
		return CollectionWithDesigns{
			Collection: normalizeCollection(*env.Data),
			Designs:    normalizeDesigns(env.Data.Disenos),
		}, nil
	})
	if err != nil {
		return CollectionWithDesigns{}, fmt.Errorf("catalog: collection %s: %w", id, err)
	}
	out.Designs = slices.Clone(out.Designs)
	return out, nil
}

// Designs returns every design with its image and parent collection.
func (g *Gateway) Designs(ctx context.Context) []Design {
	out, err := cached(ctx, g, "designs", func(ctx context.Context) ([]Design, error) {
		var env listEnvelope[designRecord]
		if err := g.client.get(ctx, "designs", designsPath, designPopulate(), &env); err != nil {
			return nil, err
		}
		return normalizeDesigns(env.Data), nil
	})
	if err != nil {
		g.degrade(ctx, "designs", err)
		return []Design{}
	}
	return slices.Clone(out)
}

// DesignsPage returns one page of designs, newest first.
func (g *Gateway) DesignsPage(ctx context.Context, page, pageSize int) DesignPage {
	page, pageSize = g.clampPage(page, pageSize)
	key := fmt.Sprintf("designs:page:%d:%d", page, pageSize)
	out, err := cached(ctx, g, key, func(ctx context.Context) (DesignPage, error) {
		var env listEnvelope[designRecord]
		query := pageQuery(page, pageSize, "createdAt:desc")
		for k, v := range designPopulate() {
			query[k] = v
		}
		if err := g.client.get(ctx, "designs", designsPath, query, &env); err != nil {
			return DesignPage{}, err
		}
		items := normalizeDesigns(env.Data)
		return DesignPage{Designs: items, Pagination: paginationFrom(env.Meta, page, pageSize, len(items))}, nil
	})
	if err != nil {
		g.degrade(ctx, "designs_page", err)
		return DesignPage{Designs: []Design{}, Pagination: emptyPagination(page, pageSize)}
	}
	out.Designs = slices.Clone(out.Designs)
	return out
}

// Design returns one design with its relations.
func (g *Gateway) Design(ctx context.Context, id string) (Design, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Design{}, fmt.Errorf("catalog: design: empty id: %w", ErrNotFound)
	}
	out, err := cached(ctx, g, "design:"+id, func(ctx context.Context) (Design, error) {
		var env itemEnvelope[designRecord]
		if err := g.client.get(ctx, "design", designsPath+"/"+url.PathEscape(id), designPopulate(), &env); err != nil {
			return Design{}, err
		}
		if env.Data == nil {
			return Design{}, ErrNotFound
		}
		return normalizeDesign(*env.Data), nil
	})
	if err != nil {
		return Design{}, fmt.Errorf("catalog: design %s: %w", id, err)
	}
	return out, nil
}

// CollectionsWithDesigns returns every collection with nested designs, newest launch first.
func (g *Gateway) CollectionsWithDesigns(ctx context.Context) []CollectionWithDesigns {
	out, err := cached(ctx, g, "collections:with-designs", func(ctx context.Context) ([]CollectionWithDesigns, error) {
		var env listEnvelope[collectionRecord]
		query := url.Values{}
		query.Set("populate[0]", "imagen")
		query.Set("populate[1]", "disenos.imagen")
		query.Set("sort", "fecha_lanzamiento:desc")
		if err := g.client.get(ctx, "collections", collectionsPath, query, &env); err != nil {
			return nil, err
		}
		items := make([]CollectionWithDesigns, 0, len(env.Data))
		for _, record := range env.Data {
			items = append(items, CollectionWithDesigns{
				Collection: normalizeCollection(record),
				Designs:    normalizeDesigns(record.Disenos),
			})
		}
		return items, nil
	})
	if err != nil {
		g.degrade(ctx, "collections_with_designs", err)
		return []CollectionWithDesigns{}
	}
	return slices.Clone(out)
}

// Ping fetches a single collection, bypassing the cache, to check the CMS is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	var env listEnvelope[collectionRecord]
	if err := g.client.get(ctx, "ping", collectionsPath, pageQuery(1, 1, "fecha_lanzamiento:desc"), &env); err != nil {
		return fmt.Errorf("catalog: ping: %w", err)
	}
	return nil
}

func cached[T any](ctx context.Context, g *Gateway, key string, fn func(context.Context) (T, error)) (T, error) {
	value, err := g.cache.load(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}

func (g *Gateway) degrade(ctx context.Context, operation string, err error) {
	g.client.metrics.recordFallback(ctx, operation)
	g.log(ctx).Warn("catalog: serving empty result",
		zap.String("operation", operation),
		zap.Error(err),
	)
}

func (g *Gateway) log(ctx context.Context) *zap.Logger {
	if logger := requestctx.Logger(ctx); logger != requestctx.NoopLogger() {
		return logger
	}
	return g.logger
}

func (g *Gateway) clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = g.pageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func designPopulate() url.Values {
	query := url.Values{}
	query.Set("populate[0]", "imagen")
	query.Set("populate[1]", "coleccion")
	query.Set("populate[2]", "coleccion.imagen")
	return query
}

func pageQuery(page, pageSize int, sort string) url.Values {
	query := url.Values{}
	query.Set("pagination[page]", strconv.Itoa(page))
	query.Set("pagination[pageSize]", strconv.Itoa(pageSize))
	query.Set("sort", sort)
	return query
}

func paginationFrom(meta *responseMeta, page, pageSize, count int) Pagination {
	if meta != nil && meta.Pagination != nil {
		p := *meta.Pagination
		return Pagination{Page: p.Page, PageSize: p.PageSize, PageCount: p.PageCount, Total: p.Total}
	}
	pageCount := 1
	if count > pageSize && pageSize > 0 {
		pageCount = (count + pageSize - 1) / pageSize
	}
	return Pagination{Page: page, PageSize: pageSize, PageCount: pageCount, Total: count}
}

func emptyPagination(page, pageSize int) Pagination {
	return Pagination{Page: page, PageSize: pageSize, PageCount: 1, Total: 0}
}
