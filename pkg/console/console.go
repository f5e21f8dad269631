// Package console models terminal output preferences shared between the
// CLI layer and subprocess invocations.
//
// The IO type bundles the output streams with a verbosity level and a
// decoration flag so that libraries can decide how chatty and how colorful
// their output should be without reaching into global state.
package console

import (
	"fmt"
	"io"
)

// Verbosity controls how much diagnostic output is emitted.
type Verbosity int

const (
	// Quiet suppresses all non-error output.
	Quiet Verbosity = iota - 1

	// Normal is the default level.
	Normal

	// Verbose enables progress diagnostics.
	Verbose

	// VeryVerbose enables detailed diagnostics.
	VeryVerbose

	// Debug enables everything, including raw subprocess output.
	Debug
)

// FromCount maps a repeatable flag count (as in -v, -vv, -vvv) to a level.
// Counts above three clamp to Debug.
func FromCount(count int) Verbosity {
	switch {
	case count <= 0:
		return Normal
	case count == 1:
		return Verbose
	case count == 2:
		return VeryVerbose
	default:
		return Debug
	}
}

// String returns the human-readable level name.
func (v Verbosity) String() string {
	switch v {
	case Quiet:
		return "quiet"
	case Normal:
		return "normal"
	case Verbose:
		return "verbose"
	case VeryVerbose:
		return "very-verbose"
	case Debug:
		return "debug"
	default:
		return fmt.Sprintf("verbosity(%d)", int(v))
	}
}

// IO bundles output streams with verbosity and decoration preferences.
type IO struct {
	// Out receives regular output.
	Out io.Writer

	// Err receives diagnostic and error output.
	Err io.Writer

	// Verbosity is the configured output level.
	Verbosity Verbosity

	// Decorated reports whether ANSI color output is enabled.
	Decorated bool
}

// New creates an IO with the given streams and preferences.
// Nil writers default to io.Discard.
func New(out, errOut io.Writer, verbosity Verbosity, decorated bool) *IO {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return &IO{
		Out:       out,
		Err:       errOut,
		Verbosity: verbosity,
		Decorated: decorated,
	}
}

// Discard returns an IO that swallows all output. Useful as a default
// when callers do not care about diagnostics.
func Discard() *IO {
	return New(io.Discard, io.Discard, Quiet, false)
}

// IsQuiet reports whether non-error output is suppressed.
func (c *IO) IsQuiet() bool {
	return c.Verbosity <= Quiet
}

// IsVerbose reports whether the level is at least Verbose.
func (c *IO) IsVerbose() bool {
	return c.Verbosity >= Verbose
}

// IsVeryVerbose reports whether the level is at least VeryVerbose.
func (c *IO) IsVeryVerbose() bool {
	return c.Verbosity >= VeryVerbose
}

// IsDebug reports whether the level is Debug.
func (c *IO) IsDebug() bool {
	return c.Verbosity >= Debug
}

// WriteLine writes a formatted line to Out unless the IO is quiet.
func (c *IO) WriteLine(format string, args ...any) {
	if c.IsQuiet() {
		return
	}
	fmt.Fprintf(c.Out, format+"\n", args...)
}

// WriteErrorLine writes a formatted line to Err. Error output is never
// suppressed by the quiet level.
func (c *IO) WriteErrorLine(format string, args ...any) {
	fmt.Fprintf(c.Err, format+"\n", args...)
}
