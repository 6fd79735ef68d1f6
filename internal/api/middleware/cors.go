package middleware

import (
	"time"

	"github.com/GriffinCanCode/agentshell/internal/domain/security"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig defines CORS configuration options.
type CORSConfig struct {
	// AllowOrigins are compared exactly against the Origin header. They go
	// through AllowOriginFunc because cors.Config validation rejects custom
	// schemes such as wails://.
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
	MaxAge       time.Duration
}

// DefaultCORSConfig allows the embedded webview and the configured UI URL.
func DefaultCORSConfig(uiURL string) CORSConfig {
	return CORSConfig{
		AllowOrigins: security.HeaderOrigins(uiURL),
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Accept",
			"Origin",
			TokenHeader,
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}
}

// CORS creates a CORS middleware with the provided configuration.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			for _, allowed := range cfg.AllowOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
		AllowMethods:  cfg.AllowMethods,
		AllowHeaders:  cfg.AllowHeaders,
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        cfg.MaxAge,
	})
}
