package middleware

import (
	"bytes"
	"encoding/gob"
	"net/http"

	"bookit/internal/cache"
	"bookit/internal/logger"
	"bookit/internal/metrics"

	"github.com/gin-gonic/gin"
)

const cacheHeader = "X-Cache"

type cachedResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// ResponseCache serves repeated GETs from Valkey. Only 2xx responses are
// stored; writes purge the cache in the service layer.
func ResponseCache(store *cache.ValkeyClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cache.Key(c.Request.Method, c.Request.URL.Path, c.Request.URL.RawQuery)

		raw, found, err := store.Get(ctx, key)
		if err != nil {
			logger.WithContext(ctx).Warn("Response cache unavailable", "error", err)
		}
		if found {
			var hit cachedResponse
			if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&hit); err == nil {
				metrics.CacheResults.WithLabelValues("hit").Inc()
				c.Header(cacheHeader, "HIT")
				c.Data(hit.Status, hit.ContentType, hit.Body)
				c.Abort()
				return
			}
		}

		metrics.CacheResults.WithLabelValues("miss").Inc()
		c.Header(cacheHeader, "MISS")

		bw := &bufferedWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		status := bw.Status()
		if status < 200 || status >= 300 {
			return
		}

		var out bytes.Buffer
		item := cachedResponse{
			Status:      status,
			ContentType: bw.Header().Get("Content-Type"),
			Body:        bw.buf.Bytes(),
		}
		if err := gob.NewEncoder(&out).Encode(item); err != nil {
			return
		}
		if err := store.Set(ctx, key, out.Bytes()); err != nil {
			logger.WithContext(ctx).Warn("Failed to store cached response", "error", err)
		}
	}
}

type bufferedWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
