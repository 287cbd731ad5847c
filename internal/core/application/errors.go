package application

import "errors"

var (
	// ErrServiceUnavailable is returned when the chain state reader can't be
	// reached.
	ErrServiceUnavailable = errors.New("service is unavailable, try again later")
	// ErrMissingPoolID ...
	ErrMissingPoolID = errors.New("missing pool id")
	// ErrTooManyQuotes is returned by QuoteMany for batches larger than
	// MaxQuotesPerRequest.
	ErrTooManyQuotes = errors.New("too many quote requests")
	// ErrSlippageExceeded is returned when a trade settles past the guard
	// price of the taker.
	ErrSlippageExceeded = errors.New("trade price moved past the guard price")
)
