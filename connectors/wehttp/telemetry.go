package wehttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func WithTelemetry(h http.Handler, name string) http.Handler {
	return otelhttp.NewHandler(h, name)
}

// routeSpans names the request span after the matched route and tags it with the instance.
// It must run inside the chi router so the route context is populated.
func routeSpans(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		span := trace.SpanFromContext(r.Context())
		if !span.IsRecording() {
			return
		}

		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			span.SetName(r.Method + " " + rctx.RoutePattern())
		}

		span.SetAttributes(
			attribute.String("we.contract", chi.URLParam(r, "type")),
			attribute.String("we.instance", chi.URLParam(r, "key")),
		)
	})
}
