// Copyright 2021 Jonathan Amsterdam.

package cliopt

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/term"
)

// Config configures a Registry. The zero value is ready to use.
type Config struct {
	// Program is the name printed in diagnostics and usage.
	// If empty, the base name of os.Args[0] is used.
	Program string

	// Header, if non-empty, is printed as the first line of the usage text.
	Header string

	// Stderr receives usage text and diagnostics. Defaults to os.Stderr.
	Stderr io.Writer

	// Logger receives debug traces of registration and scanning.
	// Defaults to a logger that discards everything.
	Logger *slog.Logger

	// LookupEnv resolves $VAR default clauses. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// Exit terminates the process on a fatal condition or a help request.
	// Defaults to os.Exit.
	Exit func(int)

	// HelpExitCode is the exit code used after a handler returns ErrHelp.
	HelpExitCode int

	// Terse suppresses the usage text that normally follows a fatal error.
	Terse bool

	// Completion enables shell completion in Parse.
	// See github.com/posener/complete/v2.
	Completion bool

	// Labels holds the words used in usage and diagnostics.
	Labels Labels
}

// Labels are the fixed words of usage text and diagnostics. Empty fields
// take their default values.
type Labels struct {
	Usage     string // "USAGE"
	Commands  string // "COMMANDS"
	Options   string // "OPTIONS"
	Arguments string // "ARGUMENTS"
	Error     string // "ERROR"
	Warning   string // "WARNING"
	Default   string // " (default)"
}

var defaultLabels = Labels{
	Usage:     "USAGE",
	Commands:  "COMMANDS",
	Options:   "OPTIONS",
	Arguments: "ARGUMENTS",
	Error:     "ERROR",
	Warning:   "WARNING",
	Default:   " (default)",
}

func (l Labels) withDefaults() Labels {
	set := func(p *string, def string) {
		if *p == "" {
			*p = def
		}
	}
	set(&l.Usage, defaultLabels.Usage)
	set(&l.Commands, defaultLabels.Commands)
	set(&l.Options, defaultLabels.Options)
	set(&l.Arguments, defaultLabels.Arguments)
	set(&l.Error, defaultLabels.Error)
	set(&l.Warning, defaultLabels.Warning)
	set(&l.Default, defaultLabels.Default)
	return l
}

// A Registry holds the descriptors of one command line, in declaration order.
// A Registry serves a single scan and must not be shared between goroutines.
type Registry struct {
	cfg       Config
	labels    Labels
	log       *slog.Logger
	descs     []*Descriptor
	otherwise Handler

	numOptions     int
	numCommands    int
	numPositionals int

	numDefaultErrs int
	defaultErrs    *multierror.Error

	cmdFound bool
	scanned  bool
}

// New returns an empty Registry configured by cfg.
func New(cfg Config) *Registry {
	if cfg.Program == "" {
		cfg.Program = filepath.Base(os.Args[0])
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if cfg.LookupEnv == nil {
		cfg.LookupEnv = os.LookupEnv
	}
	if cfg.Exit == nil {
		cfg.Exit = os.Exit
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		cfg:    cfg,
		labels: cfg.Labels.withDefaults(),
		log:    logger.With("program", cfg.Program),
	}
}

// NumOptions reports the number of short or long flag descriptors.
func (r *Registry) NumOptions() int { return r.numOptions }

// NumCommands reports the number of command descriptors.
func (r *Registry) NumCommands() int { return r.numCommands }

// NumPositionals reports the number of positional descriptors.
func (r *Registry) NumPositionals() int { return r.numPositionals }

// DefaultErrors reports how many default clauses failed to resolve.
func (r *Registry) DefaultErrors() int { return r.numDefaultErrs }

// Descriptors returns the registered descriptors in declaration order.
func (r *Registry) Descriptors() []*Descriptor {
	return append([]*Descriptor(nil), r.descs...)
}

// Usage writes the usage text to w: the header, a one-line synopsis, then
// the commands, options and positional arguments, each group in declaration
// order with its definition text verbatim.
func (r *Registry) Usage(w io.Writer) {
	bold := r.paint(w, color.Bold)
	if r.cfg.Header != "" {
		fmt.Fprintln(w, r.cfg.Header)
	}
	fmt.Fprint(w, r.usageLine())
	if r.numCommands > 0 {
		fmt.Fprintf(w, "\n%s:\n", bold.Sprint(r.labels.Commands))
		r.usageGroup(w, (*Descriptor).isCommand)
	}
	if r.numOptions > 0 {
		fmt.Fprintf(w, "\n%s:\n", bold.Sprint(r.labels.Options))
		r.usageGroup(w, (*Descriptor).isOption)
	}
	if r.numPositionals > 0 {
		fmt.Fprintf(w, "\n%s:\n", bold.Sprint(r.labels.Arguments))
		r.usageGroup(w, (*Descriptor).isPositional)
	}
}

func (r *Registry) usageLine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", r.labels.Usage, r.cfg.Program)
	if r.numCommands > 0 {
		fmt.Fprintf(&b, " %s", r.labels.Commands)
	}
	if r.numOptions > 0 {
		fmt.Fprintf(&b, " %s", r.labels.Options)
	}
	for _, d := range r.descs {
		if !d.isPositional() {
			continue
		}
		if d.arg == ArgOptional {
			fmt.Fprintf(&b, " [%s]", d.Name())
		} else {
			fmt.Fprintf(&b, " %s", d.Name())
		}
	}
	b.WriteByte('\n')
	return b.String()
}

func (r *Registry) usageGroup(w io.Writer, in func(*Descriptor) bool) {
	for _, d := range r.descs {
		if in(d) {
			fmt.Fprintf(w, "  %s\n", d.def)
		}
	}
}

// paint returns a color for w that is only active when w is a terminal.
func (r *Registry) paint(w io.Writer, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if isTerminal(w) && os.Getenv("NO_COLOR") == "" {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
