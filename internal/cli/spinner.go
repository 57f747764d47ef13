package cli

import (
	"time"

	"github.com/briandowns/spinner"
)

// startSpinner shows msg with a spinner on stderr while the remote store is
// contacted. The returned stop function is safe to call more than once.
func startSpinner(msg string) func() {
	if globalQuiet || globalDebug || !isTerminal(stderr) {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(stderr))
	s.Suffix = " " + msg
	s.Start()
	return s.Stop
}
