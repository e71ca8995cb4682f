package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the node does not have the requested
	// item, i.e. it is unknown or has been pruned.
	ErrNotFound = errors.New("not found")
	// ErrNoResponse is returned if the node doesn't respond to the
	// request in a given time
	ErrNoResponse = errors.New("node failed to respond")
)

// ErrBadResponse is returned when the node answers with something that
// can't be decoded.
type ErrBadResponse struct {
	Reason error
}

func (e ErrBadResponse) Error() string {
	return fmt.Sprintf("node provided a bad response: %s", e.Reason.Error())
}

func (e ErrBadResponse) Unwrap() error {
	return e.Reason
}
