// Package middleware holds HTTP middleware shared by the page and API routes.
package middleware

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podcastr-pages/internal/services/pages"
)

// bufferedWriter holds the response back until the handler returns
type bufferedWriter struct {
	gin.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.body.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *bufferedWriter) WriteHeader(status int) {
	w.status = status
}

func (w *bufferedWriter) WriteHeaderNow() {}

func (w *bufferedWriter) Status() int {
	return w.status
}

func (w *bufferedWriter) Size() int {
	return w.body.Len()
}

func (w *bufferedWriter) Written() bool {
	return w.body.Len() > 0
}

// ETag answers conditional GET requests. Successful responses get an ETag
// header (the handler's own, or a hash of the body) and a matching
// If-None-Match turns the response into 304 Not Modified.
func ETag() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}

		original := c.Writer
		w := &bufferedWriter{ResponseWriter: original, status: http.StatusOK}
		c.Writer = w

		c.Next()

		c.Writer = original

		if w.status != http.StatusOK {
			original.WriteHeader(w.status)
			_, _ = original.Write(w.body.Bytes())
			return
		}

		etag := original.Header().Get("ETag")
		if etag == "" && w.body.Len() > 0 {
			etag = pages.ETag(w.body.Bytes())
			original.Header().Set("ETag", etag)
		}

		if etag != "" && matchesETag(c.GetHeader("If-None-Match"), etag) {
			original.Header().Del("Content-Type")
			original.Header().Del("Content-Length")
			original.WriteHeader(http.StatusNotModified)
			original.WriteHeaderNow()
			return
		}

		original.WriteHeader(http.StatusOK)
		if c.Request.Method == http.MethodHead {
			original.WriteHeaderNow()
			return
		}
		_, _ = original.Write(w.body.Bytes())
	}
}

// matchesETag reports whether an If-None-Match header value covers etag
func matchesETag(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		// weak comparison
		if strings.TrimPrefix(candidate, "W/") == strings.TrimPrefix(etag, "W/") {
			return true
		}
	}
	return false
}
