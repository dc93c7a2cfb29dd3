package metadata

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"civiclink/pkg/requestcontext"
)

// ClientMetadata records the caller's IP and parsed User-Agent in the
// request context. Apply it early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClient(r.Context(), Describe(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Describe builds the client metadata for r.
func Describe(r *http.Request) requestcontext.Client {
	raw := r.Header.Get("User-Agent")
	c := requestcontext.Client{
		IP:        ClientIPFromRequest(r),
		UserAgent: raw,
	}
	if raw == "" {
		return c
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if version != "" {
		name += " " + version
	}
	c.Browser = name
	c.Platform = ua.OS()
	c.Mobile = ua.Mobile()
	c.Bot = ua.Bot()
	return c
}

// ClientIPFromRequest extracts the client IP, honoring proxy headers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For may list several hops; the first is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port" or "[::1]:port".
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}

	return "unknown"
}
