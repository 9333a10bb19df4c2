package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSConfig restricts cross-origin access.  An empty AllowedOrigins list
// allows any origin, which suits the internal deployments this service
// targets.
type CORSConfig struct {
	AllowedOrigins []string
}

// CORS answers preflight requests and stamps the response headers.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if len(allowed) == 0 || allowed[origin] {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
				c.Header("Access-Control-Max-Age", "3600")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

//Personal.AI order the ending
