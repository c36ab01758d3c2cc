package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-catalog/internal/config"
)

// captureWriter duplicates the response body into a buffer (up to a
// limit) while forwarding it to the client, so successful responses
// can be stored after the handler ran.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cacheKey hashes route and query under the configured prefix.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// cachedResponse is the stored form: status, content type and body.
// The status is packed in 4 bytes ahead of the JSON body.
func encodePayload(status int, body []byte) []byte {
	out := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	copy(out[4:], body)
	return out
}

func decodePayload(p []byte) (int, []byte, bool) {
	if len(p) < 4 {
		return 0, nil, false
	}
	return int(binary.BigEndian.Uint32(p[0:4])), p[4:], true
}

// ResponseCache returns a middleware that serves successful JSON
// responses for the configured methods from Redis. Only 2xx responses
// whose body fit under MaxBodyBytes are stored. A nil Redis client or
// a disabled config yields a pass-through.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[c.Request().Method] {
				return next(c)
			}
			key := cacheKey(cfg, c)
			ctx, cancel := context.WithTimeout(c.Request().Context(), 300*time.Millisecond)
			hit, err := rdb.Get(ctx, key).Bytes()
			cancel()
			if err == nil {
				if status, body, ok := decodePayload(hit); ok {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.JSONBlob(status, body)
				}
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = cw
			if err := next(c); err != nil {
				return err
			}
			if cw.status >= 200 && cw.status < 300 && cw.size <= int64(cfg.MaxBodyBytes) && json.Valid(cw.buf.Bytes()) {
				ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
				_ = rdb.Set(ctx, key, encodePayload(cw.status, cw.buf.Bytes()), cfg.TTL).Err()
				cancel()
			}
			return nil
		}
	}
}

// InvalidateCache drops every cached entry under the prefix. Mutating
// catalog handlers call this after a successful write so stale
// listings never outlive the TTL unnecessarily.
func InvalidateCache(cfg config.CacheConfig, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	iter := rdb.Scan(ctx, 0, cfg.Prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		_ = rdb.Del(ctx, iter.Val()).Err()
	}
}
