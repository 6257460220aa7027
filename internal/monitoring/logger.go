// Package monitoring holds the diagnostic logger shared by the harness,
// the sweep simulator and the config loader.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// may be swapped with SetLogger, for example to mute a noisy test.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces Logf. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
