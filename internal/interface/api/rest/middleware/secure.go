package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

func SecureOptions(isDevelopment bool) secure.Options {
	return secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; frame-ancestors 'none'",
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         isDevelopment,
	}
}

func SecureHeaders(opts secure.Options) gin.HandlerFunc {
	sm := secure.New(opts)
	return func(c *gin.Context) {
		if err := sm.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		// secure may have answered with a redirect
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
			return
		}
		c.Next()
	}
}
