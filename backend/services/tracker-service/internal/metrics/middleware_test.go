package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWrapRecordsDurationAndCount(t *testing.T) {
	handler := Wrap("/estimate", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/estimate", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	requestsVal := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/estimate", "200"))
	if requestsVal < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", requestsVal)
	}

	durationCount := testutil.CollectAndCount(httpRequestDuration)
	if durationCount == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestWrapRecordsStatusCodes(t *testing.T) {
	tests := []struct {
		route  string
		status int
		want   string
	}{
		{"/readings", http.StatusCreated, "201"},
		{"/bills", http.StatusConflict, "409"},
		{"/estimate", http.StatusBadGateway, "502"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			status := tc.status
			handler := Wrap(tc.route, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))

			req := httptest.NewRequest(http.MethodPost, tc.route, http.NoBody)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", tc.route, tc.want))
			if val < 1 {
				t.Errorf("expected requests_total for %s with status %s >= 1, got %f", tc.route, tc.want, val)
			}
		})
	}
}

func TestHTTPHandlerServesMetrics(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rr := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if rr.Body.Len() == 0 {
		t.Error("expected non-empty metrics response")
	}
}
