// internal/scraper/errors.go
package scraper

import (
	"errors"
	"strings"
)

// ErrRetriesExhausted marks an operation that failed transiently on
// every allowed attempt.
var ErrRetriesExhausted = errors.New("retries exhausted")

// ErrNoMatchDetails marks a match page whose event header could not be
// read, usually because the page is gone or its structure changed.
var ErrNoMatchDetails = errors.New("no match details found")

// transientMarkers are substrings of browser and network errors that
// are worth retrying. Anything else fails fast.
var transientMarkers = []string{
	"ERR_CONNECTION_RESET",
	"ERR_CONNECTION_TIMED_OUT",
	"ERR_NAME_NOT_RESOLVED",
	"ERR_PROXY_CONNECTION_FAILED",
	"ERR_SOCKS_CONNECTION_FAILED",
	"ERR_CERT_AUTHORITY_INVALID",
	"ERR_TUNNEL_CONNECTION_FAILED",
	"ERR_NETWORK_CHANGED",
	"Timeout",
	"net::ERR_FAILED",
	"net::ERR_CONNECTION_ABORTED",
	"net::ERR_INTERNET_DISCONNECTED",
	"Navigation timeout",
	"TimeoutError",
	"Target closed",
}

// IsTransient reports whether an error looks like a recoverable network
// or browser failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	for _, marker := range transientMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}
