package booking

import "errors"

var (
	ErrNotFound     = errors.New("booking not found")
	ErrUnknownOffer = errors.New("offer does not belong to this business")
)
