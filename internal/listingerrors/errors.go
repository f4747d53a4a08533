package listingerrors

import (
	"errors"
	"fmt"
)

// Live view errors
var (
	ErrFetchFailed  = errors.New("listing fetch failed")
	ErrDecodeFailed = errors.New("payload decode failed")
	ErrStreamError  = errors.New("bid stream failed")
	ErrStaleEvent   = errors.New("stale bid event")
	ErrWrongListing = errors.New("bid event for another listing")
	ErrViewTerminal = errors.New("view is terminal")
)

// Host-level errors
var (
	ErrViewNotFound     = errors.New("view not found")
	ErrViewExists       = errors.New("view already registered")
	ErrInvalidRequest   = errors.New("invalid view request")
	ErrInvalidBid       = errors.New("invalid bid")
	ErrBidTooLow        = errors.New("bid amount too low")
	ErrAuctionEnded     = errors.New("auction has ended")
	ErrBidRejected      = errors.New("bid rejected by backend")
	ErrPurchaseRejected = errors.New("purchase rejected by backend")
	ErrRateLimited      = errors.New("too many requests")
)

// RemoteError carries a non-success backend response. It unwraps to Kind.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Kind    error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v (status %d): %s", e.Op, e.Kind, e.Status, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Kind
}

// StatusOf returns the backend status code carried by err, or 0
func StatusOf(err error) int {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Status
	}
	return 0
}
