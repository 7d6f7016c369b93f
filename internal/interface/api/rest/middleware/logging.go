package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"inventory-auth-api/internal/infrastructure/metrics"
)

const (
	maxLogBodySize = 1 << 12 // 4 KB
	masked         = "***"
)

var sensitiveFields = map[string]struct{}{
	"contrasena":           {},
	"nueva_contrasena":     {},
	"confirmar_contrasena": {},
	"token":                {},
}

func RequestLogGin(logger *zap.Logger, mCounter *prometheus.CounterVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions ||
			c.Request.URL.Path == "/favicon.ico" ||
			strings.HasSuffix(c.Request.URL.Path, "/metrics") {
			c.Next()
			return
		}

		start := time.Now()

		var body string
		if c.Request != nil && c.Request.Body != nil {
			ct := c.GetHeader("Content-Type")
			if strings.HasPrefix(ct, "multipart/form-data") {
				body = "<multipart/form-data omitted>"
			} else {
				var buf bytes.Buffer
				limited := io.LimitReader(c.Request.Body, maxLogBodySize)
				_, _ = io.Copy(&buf, limited)
				rest, _ := io.ReadAll(c.Request.Body)
				c.Request.Body.Close()
				c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(buf.Bytes()), bytes.NewReader(rest)))
				body = maskBody(ct, buf.Bytes())
			}
		}

		c.Next()

		if mCounter != nil {
			mCounter.WithLabelValues(metrics.RequestsTotal).Inc()
		}

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("url", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("body", body),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// maskBody hides credential fields of JSON and urlencoded bodies. Bodies that
// cannot be parsed (for instance truncated ones) are dropped entirely.
func maskBody(contentType string, raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	switch {
	case strings.HasPrefix(contentType, gin.MIMEJSON):
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return "<unparsed body omitted>"
		}
		for k := range m {
			if _, ok := sensitiveFields[k]; ok {
				m[k] = masked
			}
		}
		b, _ := json.Marshal(m)
		return string(b)
	case strings.HasPrefix(contentType, gin.MIMEPOSTForm):
		vals, err := url.ParseQuery(string(raw))
		if err != nil {
			return "<unparsed body omitted>"
		}
		for k := range vals {
			if _, ok := sensitiveFields[k]; ok {
				vals[k] = []string{masked}
			}
		}
		return vals.Encode()
	default:
		return "<" + contentType + " body omitted>"
	}
}
