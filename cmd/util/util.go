package util

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/dwest77a/stac-harvester/pkg/errors"
)

// HandleFatalError prints a message for the given error and exits with a
// non-zero status.
func HandleFatalError(err error) {
	log.WithError(err).Debug("Fatal error")
	fmt.Fprintln(os.Stderr, errors.GetPrintableMessage(err))
	os.Exit(1)
}

// HandlePanic recovers from panics in the main process so that we can exit
// with a readable message rather than a raw stack trace at the top of the
// output.
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "The harvester crashed: %v\n%s", r, debug.Stack())
	os.Exit(1)
}
