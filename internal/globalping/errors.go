package globalping

import "errors"

var ErrRateLimited = errors.New("measurement rejected: rate limited")
var ErrPollTimeout = errors.New("measurement did not complete in time")
var ErrMeasurementNotFound = errors.New("measurement not found")
