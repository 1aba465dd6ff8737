package openmeteo

import "errors"

// Sentinel kinds for forecast provider errors.
var (
	ErrUpstream = errors.New("forecast upstream failed")
)
