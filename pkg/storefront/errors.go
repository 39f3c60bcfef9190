package storefront

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrNetwork is returned when the request never reached the server
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is returned on a 401 response; the session is no
	// longer valid on the server
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRequestFailed is returned for any other non-2xx response
	ErrRequestFailed = errors.New("request failed")

	// ErrPlanUnpriced is returned when a product carries no price for
	// the requested plan and no oneTime price to fall back on
	ErrPlanUnpriced = errors.New("no price for plan")
)
