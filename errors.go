package creacode

import (
	"errors"

	"github.com/mikpatings/creacode-boys/internal/timeline"
)

// ErrRange is returned when a scheduled value falls outside the parameter's
// configured bounds, or when a non-positive duration or time constant is
// supplied to a scheduling call.
var ErrRange = errors.New("value outside configured range")

// ErrInvalidOrder is returned when an event cannot be consistently ordered
// against the existing schedule.
var ErrInvalidOrder = timeline.ErrInvalidOrder

// ErrNotConnected is returned by Disconnect when no live connection matches
// the named destination.
var ErrNotConnected = errors.New("no matching connection")
