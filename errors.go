// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"fmt"
	"log"
)

// errorf wraps the sentinel error err with the context of the failing call.
// Contract violations are reported at the call that caused them; in debug
// builds we also log them.
func (a *Arena) errorf(err error, format string, args ...interface{}) error {
	res := fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
	if _DEBUG {
		a.logger.Error("contract violation", "error", res)
	}
	return res
}

// debugPanic stops the program in debug builds. It is used for conditions
// that can only be the result of a bug in the package, or of a stale handle
// kept by the caller.
func debugPanic(format string, args ...interface{}) {
	if _DEBUG {
		log.Panicf(format, args...)
	}
}
