package httpserver

import (
	"net/http"

	"ksebtracker/backend/services/tracker-service/internal/metrics"
)

// Routes groups HTTP handlers.
type Routes struct {
	CreateReading http.HandlerFunc
	ListReadings  http.HandlerFunc
	LatestReading http.HandlerFunc
	Estimate      http.HandlerFunc
	FinalizeBill  http.HandlerFunc
	ListBills     http.HandlerFunc
	LiveWS        http.HandlerFunc
	Health        http.HandlerFunc
}

// NewRouter registers service endpoints. All data routes require auth; health and metrics
// stay open. The websocket route skips the metrics wrapper, which cannot hijack.
func NewRouter(routes Routes, auth func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	instrumented := func(route string, handler http.Handler) http.Handler {
		return metrics.Wrap(route, auth(handler))
	}

	mux.Handle("/readings", instrumented("/readings", byMethod(map[string]http.HandlerFunc{
		http.MethodPost: routes.CreateReading,
		http.MethodGet:  routes.ListReadings,
	})))
	mux.Handle("/readings/latest", instrumented("/readings/latest", method(http.MethodGet, routes.LatestReading)))
	mux.Handle("/estimate", instrumented("/estimate", method(http.MethodGet, routes.Estimate)))
	mux.Handle("/bills", instrumented("/bills", byMethod(map[string]http.HandlerFunc{
		http.MethodPost: routes.FinalizeBill,
		http.MethodGet:  routes.ListBills,
	})))
	mux.Handle("/live/ws", auth(method(http.MethodGet, routes.LiveWS)))
	mux.Handle("/health", method(http.MethodGet, routes.Health))
	mux.Handle("/metrics", metrics.HTTPHandler())

	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}

func byMethod(handlers map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handler, ok := handlers[r.Method]
		if !ok {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
