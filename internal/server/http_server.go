package server

import (
	"net/http"
	"time"
)

const readHeaderTimeout = 10 * time.Second

// NewHTTPServer serves router on addr. release runs as soon as Shutdown
// begins, so event streams bound to released views end instead of holding
// their connections open until the shutdown deadline.
func NewHTTPServer(addr string, router http.Handler, release func()) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	if release != nil {
		srv.RegisterOnShutdown(release)
	}
	return srv
}
