package indicator

import "errors"

var (
	ErrSnapshotNotFound = errors.New("indicator snapshot not found")
)
