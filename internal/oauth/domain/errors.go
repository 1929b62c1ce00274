package domain

import "fmt"

// TokenExchangeError carries the provider's HTTP response when a code
// exchange or refresh is rejected.
type TokenExchangeError struct {
	StatusCode int
	Body       string
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("token endpoint returned %d: %s", e.StatusCode, e.Body)
}

// InvalidStateError marks a callback whose state token failed verification.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid oauth state: %s", e.Reason)
}
