package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/client-reservations/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
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
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// ResponseCache stores rendered list responses in Redis, one namespace
// per session.  Every key carries the session's generation number;
// handlers call Invalidate after every mutation, which bumps the
// generation so older entries are never read again.
type ResponseCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
}

// genTTL bounds how long an idle session's generation counter survives.
const genTTL = 24 * time.Hour

// NewResponseCache returns a cache.  A nil client or a disabled config
// yields a cache whose middleware and Invalidate do nothing.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) *ResponseCache {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return &ResponseCache{cfg: cfg, rdb: rdb}
}

func (rc *ResponseCache) enabled() bool { return rc != nil && rc.cfg.Enabled && rc.rdb != nil }

// sessionPrefix is the namespace every key of one session lives under.
func (rc *ResponseCache) sessionPrefix(sid string) string {
	return rc.cfg.Prefix + ":session:" + sid + ":"
}

func (rc *ResponseCache) genKey(sid string) string { return rc.sessionPrefix(sid) + "gen" }

// generation reads the session's counter; a missing counter is 0.
func (rc *ResponseCache) generation(ctx context.Context, sid string) (int64, error) {
	n, err := rc.rdb.Get(ctx, rc.genKey(sid)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// keyFor builds a stable key for the request honoring the key strategy.
func (rc *ResponseCache) keyFor(c echo.Context, gen int64) string {
	tail := c.Request().Method + " " + c.Path()
	if strings.ToLower(rc.cfg.KeyStrategy) != "session_route" {
		tail += "?" + c.Request().URL.RawQuery
	}
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%sg%d:%x", rc.sessionPrefix(sessionID(c)), gen, sum[:])
}

// Invalidate bumps the session's generation.  Entries of older
// generations stop being looked up and expire with their TTL, and a
// response rendered before the bump is not stored.
func (rc *ResponseCache) Invalidate(ctx context.Context, sid string) error {
	if !rc.enabled() {
		return nil
	}
	key := rc.genKey(sid)
	pipe := rc.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, genTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// Middleware serves cached 200 responses and records fresh ones.  It
// must run after SessionAuth so keys land in the right namespace.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
	if !rc.enabled() {
		return passThrough
	}
	maxBody := int64(rc.cfg.MaxBodyBytes)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rc.cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			sid := sessionID(c)
			gen, err := rc.generation(ctx, sid)
			if err != nil {
				return next(c)
			}
			key := rc.keyFor(c, gen)

			if bs, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, "Content-Length") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			// a truncated body must not be served later
			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			// a mutation ran while the handler rendered; the body may be stale
			if now, err := rc.generation(ctx, sid); err != nil || now != gen {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				_ = rc.rdb.Set(context.Background(), key, payload, rc.cfg.TTL).Err()
			}
			return nil
		}
	}
}
