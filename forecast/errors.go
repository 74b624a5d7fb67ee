package forecast

import "errors"

var (
	// ErrMalformedResponse is returned when a payload does not match the
	// forecast schema: invalid JSON, wrong types or missing required fields.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrDataIntegrity is returned when a decoded sample breaks an invariant
	// the transform relies on, such as an empty weather list.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrInvalidExclusion is returned for exclusion hours outside 0-23.
	ErrInvalidExclusion = errors.New("invalid exclusion hours")
)
