package signal

import "errors"

var (
	ErrSignalNotFound  = errors.New("signal not found")
	ErrInvalidPolicy   = errors.New("invalid signal replay policy")
	ErrUnknownStrategy = errors.New("unknown strategy")
)
