package middlewares

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSConfig holds CORS configuration options.
type CORSConfig struct {
	// AllowOrigins lists exact origins, compared without a trailing slash.
	AllowOrigins []string
	// AllowOriginSuffixes admits any origin whose host is a subdomain of one of the suffixes,
	// such as ".vercel.app" for preview deployments. A missing leading dot is implied and the
	// port is ignored.
	AllowOriginSuffixes []string
	AllowMethods        []string
	AllowHeaders        []string
	ExposeHeaders       []string
	AllowCredentials    bool
	MaxAge              time.Duration
}

// DefaultCORSConfig returns the dashboard CORS policy for the given origins.
func DefaultCORSConfig(origins, suffixes []string) CORSConfig {
	return CORSConfig{
		AllowOrigins:        origins,
		AllowOriginSuffixes: suffixes,
		AllowMethods:        []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:        []string{"Content-Type", "Authorization", "X-Request-ID", "X-Requested-With"},
		ExposeHeaders:       []string{"X-Request-ID", "Content-Length"},
		AllowCredentials:    true,
		MaxAge:              12 * time.Hour,
	}
}

// CORSWithConfig echoes the request origin back when it is allowed. Disallowed origins get no
// CORS headers, so the browser blocks the response.
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	allowMethods := strings.Join(cfg.AllowMethods, ", ")
	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	origins := make([]string, 0, len(cfg.AllowOrigins))
	for _, origin := range cfg.AllowOrigins {
		origins = append(origins, strings.TrimSuffix(origin, "/"))
	}

	suffixes := make([]string, 0, len(cfg.AllowOriginSuffixes))
	for _, suffix := range cfg.AllowOriginSuffixes {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix == "" || suffix == "." {
			continue
		}
		if !strings.HasPrefix(suffix, ".") {
			suffix = "." + suffix
		}
		suffixes = append(suffixes, suffix)
	}

	allowed := func(origin string) bool {
		origin = strings.TrimSuffix(origin, "/")
		if slices.Contains(origins, origin) {
			return true
		}
		if len(suffixes) == 0 {
			return false
		}
		u, err := url.Parse(origin)
		if err != nil || u.Hostname() == "" {
			return false
		}
		host := strings.ToLower(u.Hostname())
		for _, suffix := range suffixes {
			if strings.HasSuffix(host, suffix) {
				return true
			}
		}
		return false
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		c.Writer.Header().Add("Vary", "Origin")

		if origin != "" && allowed(origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Expose-Headers", exposeHeaders)
			h.Set("Access-Control-Max-Age", maxAge)
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
