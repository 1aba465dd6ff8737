package geocode

import "errors"

// Sentinel kinds for geocoding errors.
var (
	ErrUpstream = errors.New("geocoding upstream failed")
	ErrNotFound = errors.New("city not found")
)
