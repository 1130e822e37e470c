// Package dto defines data transfer objects for the companies HTTP API.
package dto

import (
	"time"

	"finance_collector/internal/feature/companies/domain/entity"
)

// StatusResponse is the common {"status","message"} envelope.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// GroupResult is one market group's outcome in a run.
type GroupResult struct {
	Group     string `json:"group"`
	Collected int    `json:"collected"`
	Staged    int    `json:"staged"`
	Skipped   int    `json:"skipped"`
	Error     string `json:"error,omitempty"`
}

// RunSummary is the response of GET /collect/status.
type RunSummary struct {
	Trigger    string        `json:"trigger"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Failed     bool          `json:"failed"`
	Groups     []GroupResult `json:"groups"`
}

// FromRunSummary converts the domain summary into its response form.
func FromRunSummary(s entity.RunSummary) RunSummary {
	groups := make([]GroupResult, 0, len(s.Groups))
	for _, g := range s.Groups {
		groups = append(groups, GroupResult{
			Group:     string(g.Group),
			Collected: g.Collected,
			Staged:    g.Staged,
			Skipped:   g.Skipped,
			Error:     g.Error,
		})
	}
	return RunSummary{
		Trigger:    string(s.Trigger),
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Failed:     s.Failed(),
		Groups:     groups,
	}
}

// CompanyItem represents a stored company in the API response.
type CompanyItem struct {
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Sector  string `json:"sector"`
	Market  string `json:"market"`
}

// CompanyList is the response of GET /companies.
type CompanyList struct {
	Total     int64         `json:"total"`
	Limit     int           `json:"limit"`
	Offset    int           `json:"offset"`
	Companies []CompanyItem `json:"companies"`
}
