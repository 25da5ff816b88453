package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingAPIKey = fmt.Errorf("missing API key")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrImageNotFound      = fmt.Errorf("image not found")

	// Data errors
	ErrMissingLibrary = fmt.Errorf("library export not found")
	ErrMalformedData  = fmt.Errorf("malformed data file")
	ErrMissingTracks  = fmt.Errorf("no Tracks record in library")
	ErrAssetNotFound  = fmt.Errorf("media asset not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
