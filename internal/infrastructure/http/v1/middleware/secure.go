package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// Secure sets the standard security headers. HTTPS redirects are only
// enforced in production.
func Secure(production bool) gin.HandlerFunc {
	s := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !production,
	})
	return func(c *gin.Context) {
		if err := s.Process(c.Writer, c.Request); err != nil {
			// secure already wrote the redirect or rejection
			c.Abort()
			return
		}
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
			return
		}
		c.Next()
	}
}
