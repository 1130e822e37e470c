// Package usecase implements collection and persistence of company metadata.
package usecase

import "errors"

var (
	// ErrCountryNotFound is returned by CompanyTx.FindCountryID when no country row has the code.
	// The pipeline treats it as a per-record skip, never as a batch failure.
	ErrCountryNotFound = errors.New("country not found")

	// ErrRunStatusNotFound is returned when no collection run has been recorded yet.
	ErrRunStatusNotFound = errors.New("run status not found")
)
