package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/VAlejandro22/ecommerce-iq/internal/catalog"
	"github.com/VAlejandro22/ecommerce-iq/internal/platform/httpx"
	"github.com/VAlejandro22/ecommerce-iq/internal/platform/requestctx"
)

const (
	maxBodySize        = 16 * 1024
	catalogCacheHeader = "public, max-age=60"
)

var (
	errEmptyBody    = errors.New("request body is required")
	errBodyTooLarge = errors.New("request body too large")
)

func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, errEmptyBody
	}
	if limit <= 0 {
		limit = maxBodySize
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errEmptyBody
	}
	if int64(len(data)) > limit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

// decodeBody reads a bounded JSON body into dst, writing the error response itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ctx := r.Context()
	body, err := readLimitedBody(r, maxBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return false
	}
	return true
}

// writeCachedJSON answers with a weak ETag over the encoded payload and honours If-None-Match.
func writeCachedJSON(w http.ResponseWriter, r *http.Request, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("encode_failed", "failed to encode response", http.StatusInternalServerError))
		return
	}
	etag := weakETag(body)
	w.Header().Set("Cache-Control", catalogCacheHeader)
	w.Header().Set("ETag", etag)
	if matchesETag(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	_, _ = w.Write([]byte("\n"))
}

func weakETag(body []byte) string {
	sum := sha256.Sum256(body)
	return `W/"` + hex.EncodeToString(sum[:16]) + `"`
}

func matchesETag(r *http.Request, etag string) bool {
	if etag == "" || r == nil {
		return false
	}
	raw := r.Header.Get("If-None-Match")
	if strings.TrimSpace(raw) == "" {
		return false
	}
	for _, candidate := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(candidate)
		if trimmed == "*" || trimmed == etag || "W/"+trimmed == etag {
			return true
		}
	}
	return false
}

// writeCatalogError maps gateway failures: a missing record is 404, anything else means the
// catalog could not be reached.
func writeCatalogError(ctx context.Context, w http.ResponseWriter, resource string, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		httpx.WriteError(ctx, w, httpx.NewError(resource+"_not_found", resource+" not found", http.StatusNotFound))
		return
	}
	requestctx.Logger(ctx).Warn("catalog lookup failed", zap.String("resource", resource), zap.Error(err))
	httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusBadGateway))
}

// pageParams reads page and pageSize. ok is false when neither is present.
func pageParams(r *http.Request) (page, pageSize int, ok bool, err error) {
	query := r.URL.Query()
	rawPage := strings.TrimSpace(query.Get("page"))
	rawSize := strings.TrimSpace(query.Get("pageSize"))
	if rawPage == "" && rawSize == "" {
		return 0, 0, false, nil
	}
	if rawPage != "" {
		if page, err = strconv.Atoi(rawPage); err != nil {
			return 0, 0, true, errors.New("page must be an integer")
		}
	}
	if rawSize != "" {
		if pageSize, err = strconv.Atoi(rawSize); err != nil {
			return 0, 0, true, errors.New("pageSize must be an integer")
		}
	}
	return page, pageSize, true, nil
}
