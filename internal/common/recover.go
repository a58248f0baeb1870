package common

import (
	"fmt"
	"runtime"

	"github.com/ternarybob/arbor"
)

// RecoverToError converts a panic in the calling goroutine into an error
// stored in *errp, logging the stack. Use it deferred at the top of worker
// functions so one bad input cannot take down a whole run:
//
//	g.Go(func() (err error) {
//	    defer common.RecoverToError(logger, "advisor:warren", &err)
//	    ...
//	})
func RecoverToError(logger arbor.ILogger, name string, errp *error) {
	r := recover()
	if r == nil {
		return
	}

	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)

	if logger != nil {
		logger.Error().
			Str("goroutine", name).
			Str("panic", fmt.Sprintf("%v", r)).
			Str("stack", string(buf[:n])).
			Msg("Recovered from panic")
	}

	if errp != nil {
		*errp = fmt.Errorf("panic in %s: %v", name, r)
	}
}
