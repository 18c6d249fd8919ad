package session

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/VAlejandro22/ecommerce-iq/internal/platform/requestctx"
)

// CookieCodec abstracts the Manager for middleware integration.
type CookieCodec interface {
	Load(*http.Request) (Data, bool)
	Save(http.ResponseWriter, Data) error
}

// Middleware attaches the browsing session id to the request context, issuing a cookie first
// when the request carried none.
func Middleware(codec CookieCodec) func(http.Handler) http.Handler {
	if codec == nil {
		panic("session codec is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, fresh := codec.Load(r)
			if fresh {
				if err := codec.Save(w, data); err != nil {
					requestctx.Logger(r.Context()).Warn("session save failed", zap.Error(err))
				}
			}
			ctx := requestctx.WithSessionID(r.Context(), data.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IDFromContext returns the session id attached by Middleware.
func IDFromContext(ctx context.Context) string {
	return requestctx.SessionID(ctx)
}
