package middlewares

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"catalog-service/internal/cache"
	"catalog-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

const cacheHeader = "X-Cache"

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache serves GET responses from store, keyed by request URI.
// Only 200 responses are stored, and only if no Clear ran while the handler
// did. Store failures bypass the cache.
func ResponseCache(store cache.Cache, ttl time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := c.Request.URL.RequestURI()
		reqLog := logger.GetLoggerFromContext(c, log)

		raw, ok, err := store.Get(ctx, key)
		if err != nil {
			reqLog.WithError(err).Warning("Response cache read failed")
		}
		if ok {
			var cached cachedResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				c.Header(cacheHeader, "HIT")
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
			reqLog.Warning("Discarding undecodable cache entry for %s", key)
		}

		gen, err := store.Generation(ctx)
		if err != nil {
			reqLog.WithError(err).Warning("Response cache read failed")
			c.Next()
			return
		}

		c.Header(cacheHeader, "MISS")
		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		if rec.Status() != http.StatusOK {
			return
		}

		payload, err := json.Marshal(cachedResponse{
			Status:      rec.Status(),
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		})
		if err != nil {
			return
		}
		stored, err := store.Set(ctx, key, payload, ttl, gen)
		if err != nil {
			reqLog.WithError(err).Warning("Response cache write failed")
			return
		}
		if !stored {
			reqLog.Debug("Skipped caching %s: cache cleared during request", key)
		}
	}
}
