package market

import "errors"

var (
	ErrBarNotFound   = errors.New("bar not found")
	ErrInvalidCode   = errors.New("invalid stock code")
	ErrUpstreamFetch = errors.New("upstream fetch failed")
)
