package mailscout

import "errors"

var (
	ErrInvalidDomain      = errors.New("scout: invalid domain")
	ErrUnexpectedResponse = errors.New("scout: unexpected server response")
)
