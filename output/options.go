package output

// Options select which parts of the response print and how. The flags
// package fills them in from command line switches and TTY detection.
type Options struct {
	PrintResponseHeader bool
	PrintResponseBody   bool

	// EnableFormat turns on pretty-printing of the body; EnableColor
	// additionally colorizes it. Color without format has no effect.
	EnableFormat bool
	EnableColor  bool

	// Download diverts the body into a file. OutputFile overrides the name
	// derived from the URL; Overwrite skips the non-overlapping rename.
	Download   bool
	OutputFile string
	Overwrite  bool
}
