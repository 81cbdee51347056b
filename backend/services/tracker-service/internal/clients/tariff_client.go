package clients

import (
	"context"
	"net/http"

	"ksebtracker/backend/services/tracker-service/internal/models"
)

// TariffClient calls the tariff service for slab-rate charge breakdowns.
type TariffClient struct {
	base *BaseClient
}

// NewTariffClient creates a tariff client against the given base URL.
func NewTariffClient(httpClient HTTPDoer, baseURL string) *TariffClient {
	return &TariffClient{base: NewBaseClient(httpClient, baseURL)}
}

type calculateRequest struct {
	Units float64 `json:"units"`
}

// Calculate returns the charge breakdown for the given units.
func (c *TariffClient) Calculate(ctx context.Context, units float64) (*models.ChargeBreakdown, error) {
	var breakdown models.ChargeBreakdown
	if err := c.base.Do(ctx, http.MethodPost, "/tariff/calculate", calculateRequest{Units: units}, &breakdown); err != nil {
		return nil, err
	}
	return &breakdown, nil
}
