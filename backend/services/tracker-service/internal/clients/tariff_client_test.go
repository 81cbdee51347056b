package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTariffClientCalculate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tariff/calculate" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			Units float64 `json:"units"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Units != 200 {
			t.Errorf("units = %v, want 200", req.Units)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]float64{
			"total_units": 200,
			"total_bill":  1234.56,
		})
	}))
	defer server.Close()

	client := NewTariffClient(NewDefaultHTTPClient(time.Second), server.URL)
	breakdown, err := client.Calculate(context.Background(), 200)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if breakdown.TotalUnits != 200 || breakdown.TotalBill != 1234.56 {
		t.Errorf("breakdown = %+v", breakdown)
	}
}

func TestTariffClientNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"units must not be negative"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewTariffClient(NewDefaultHTTPClient(time.Second), server.URL)
	if _, err := client.Calculate(context.Background(), -5); err == nil {
		t.Fatal("expected error for 400 response")
	}
}
