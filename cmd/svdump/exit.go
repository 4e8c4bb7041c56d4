package main

import (
	"errors"
	"fmt"
)

// Exit codes of the svdump process.
const (
	exitOK       = 0
	exitUsage    = 1 // bad command line or unreadable input
	exitOptions  = 2 // option processing failed
	exitCompile  = 3 // compilation produced errors; the document is still written
	exitOutput   = 4 // output file could not be written
	exitInternal = 5 // serializer invariant violation
)

// exitError carries the process exit code up through cobra. A nil err
// means the reason was already reported (diagnostics, log line).
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func withExit(code int, err error) error {
	return &exitError{code: code, err: err}
}

func exitErrorf(code int, format string, args ...any) error {
	return withExit(code, fmt.Errorf(format, args...))
}

// silentExit ends the process with code and prints nothing more.
func silentExit(code int) error {
	return &exitError{code: code}
}

// exitStatus maps an error returned by the command tree to an exit code
// and the message to print, if any. Errors cobra raises on its own
// (unknown subcommand, argument validation) are usage errors.
func exitStatus(err error) (int, string) {
	if err == nil {
		return exitOK, ""
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err == nil {
			return ee.code, ""
		}
		return ee.code, ee.err.Error()
	}
	return exitUsage, err.Error()
}
