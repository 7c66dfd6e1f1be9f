package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tingleradar/tingleradar/internal/httputil"
)

// Origins the embedded player and thumbnails are served from.
const (
	playerFrameSources = "https://www.youtube.com https://www.youtube-nocookie.com"
	playerScriptSource = "https://www.youtube.com"
	thumbnailSources   = "https://i.ytimg.com https://img.youtube.com"
)

type SecurityConfig struct {
	BaseURL string
}

func securityHeaders(cfg SecurityConfig) func(http.Handler) http.Handler {
	strictTransport := strings.HasPrefix(cfg.BaseURL, "https://")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := httputil.GenerateNonce()
			ctx := httputil.ContextWithNonce(r.Context(), nonce)

			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "SAMEORIGIN")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), autoplay=(self \"https://www.youtube.com\")")

			csp := fmt.Sprintf(
				"default-src 'self'; img-src 'self' data: %s; script-src 'self' 'nonce-%s' %s; style-src 'self' 'nonce-%s'; frame-src %s; connect-src 'self'; frame-ancestors 'self';",
				thumbnailSources, nonce, playerScriptSource, nonce, playerFrameSources,
			)
			w.Header().Set("Content-Security-Policy", csp)

			if strictTransport {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
