package worker

import "errors"

// ErrAbandoned is reported for jobs still queued when shutdown gave up waiting.
var ErrAbandoned = errors.New("import abandoned at shutdown")
