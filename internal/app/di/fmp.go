// Package di provides dependency injection factories for creating application components.
package di

import (
	"finance_collector/internal/platform/externalapi/fmp"
	infrahttp "finance_collector/internal/platform/http"
)

// NewFMPClient creates a fully configured FMP client with an HTTP client sized for
// the given enrichment concurrency.
func NewFMPClient(cfg fmp.Config, concurrency int) *fmp.Client {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout, concurrency)
	return fmp.NewClient(cfg, httpClient)
}
