// Package httpserver constructs the service's HTTP listener.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the server. Per-request deadlines come from the router's
// timeout middleware; these guard the connection itself. ReadTimeout and
// WriteTimeout stay generous because the approval page is opened from mail
// clients on slow links.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
