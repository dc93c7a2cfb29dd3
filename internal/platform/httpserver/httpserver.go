package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with the project's timeouts. Write timeout stays
// above the per-request handler timeout so slow backends surface as 503s
// from the timeout middleware rather than dropped connections. A zero
// requestTimeout leaves writes unbounded as well.
func New(addr string, handler http.Handler, requestTimeout time.Duration) *http.Server {
	var writeTimeout time.Duration
	if requestTimeout > 0 {
		writeTimeout = requestTimeout + 5*time.Second
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}
