package middleware

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// capture tees the response so it can be stored for replay.
type capture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *capture) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capture) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// IdempotencyMiddleware deduplicates mutating requests. A request is identified
// by method, route, calling member and Ax-Request-Id; a retry with the same body
// gets the stored response, a retry with another body gets 409. Responses with
// a 5xx status are not stored so the client can try again.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	store := replayStore{rdb: rdb, ttl: ttl}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			meta, err := readMeta(req.Header, nowUTC())
			if err != nil {
				return jsonError(c, http.StatusBadRequest, err.Error())
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			key := buildKey(req.Method, c.Path(), meta.MemberID, meta.RequestID)
			rec := record{
				BodyHash:  digest(body),
				RequestID: meta.RequestID,
				SentAt:    meta.SentAt,
				StoredAt:  nowUTC(),
			}

			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			ok, err := store.reserve(ctx, key, rec)
			if err != nil {
				log.Printf("idempotency: reserve %s: %v", key, err)
				return jsonError(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !ok {
				prev, err := store.load(ctx, key)
				if err != nil {
					log.Printf("idempotency: load %s: %v", key, err)
				}
				switch {
				case prev.BodyHash != "" && prev.BodyHash != rec.BodyHash:
					return jsonError(c, http.StatusConflict, HeaderRequestID+" reused with different body")
				case prev.replayable():
					return c.Blob(prev.Status, echo.MIMEApplicationJSON, prev.Body)
				}
				return jsonError(c, http.StatusConflict, "request is already in progress")
			}

			w := &capture{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may already be gone
			bg, cancelBg := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancelBg()
			if w.status >= http.StatusInternalServerError {
				if err := store.release(bg, key); err != nil {
					log.Printf("idempotency: release %s: %v", key, err)
				}
				return nil
			}
			rec.Status = w.status
			rec.Body = w.body.Bytes()
			rec.StoredAt = nowUTC()
			if err := store.complete(bg, key, rec); err != nil {
				log.Printf("idempotency: store %s: %v", key, err)
			}
			return nil
		}
	}
}
