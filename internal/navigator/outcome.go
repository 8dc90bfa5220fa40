// internal/navigator/outcome.go
package navigator

import "oddscrawler/internal/markets"

// Status classifies the result of extracting one market.
type Status int

const (
	// StatusFound means the market was located and its odds extracted.
	StatusFound Status = iota
	// StatusNotFound means the site does not offer this market for the
	// match. This is an expected condition, not a failure.
	StatusNotFound
	// StatusError means extraction was attempted but failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one market extraction. Exactly one of
// Result and Err is set when the status is Found or Error; both are nil
// for NotFound.
type Outcome struct {
	Status Status
	Result *markets.MarketResult
	Err    error
}

// Found wraps a successfully extracted market.
func Found(result *markets.MarketResult) Outcome {
	return Outcome{Status: StatusFound, Result: result}
}

// NotFound marks a market the site does not carry for this match.
func NotFound() Outcome {
	return Outcome{Status: StatusNotFound}
}

// Errored wraps an extraction failure.
func Errored(err error) Outcome {
	return Outcome{Status: StatusError, Err: err}
}
