package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// withLogging writes one access log line per request. Scrapes of /metrics are logged at debug.
func withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(rw, r.ProtoMajor)

		h.ServeHTTP(ww, r)

		entry := log.WithFields(log.Fields{
			"uri":      r.RequestURI,
			"method":   r.Method,
			"status":   ww.Status(),
			"bytes":    ww.BytesWritten(),
			"duration": time.Since(start),
		})

		if r.URL.Path == "/metrics" {
			entry.Debug("request")
			return
		}

		entry.Info("request")
	})
}
