package cmd

// Options holds the shared command-line options for the issues-watcher CLI.
// Zero values defer to the config file.
type Options struct {
	Format      string
	Verbosity   int
	Workers     int
	Timeout     string
	Interactive bool
	Relay       bool
	TUI         *bool // nil = auto-detect, true = force TUI, false = disable TUI

	// Triage options
	NoReply *bool // nil = config decides
	Stale   string

	// Profiling options
	CPUProfile string
	MemProfile string
	Trace      string
}
