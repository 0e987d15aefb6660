// Copyright 2021 Jonathan Amsterdam.

package cliopt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
)

// ExitError is the exit status after a fatal condition.
const ExitError = 1

var (
	// ErrHelp is returned by a Handler to request the usage text.
	ErrHelp = errors.New("help requested")

	// ErrStop is returned by a Handler to end the scan early.
	ErrStop = errors.New("scan stopped")
)

// Severity classifies a reported problem.
type Severity int

const (
	// SeverityFatal problems are reported and end the program.
	SeverityFatal Severity = iota
	// SeverityError problems are reported and mark the descriptor; the scan continues.
	SeverityError
	// SeverityWarning problems are only reported.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Kind classifies an ArgError.
type Kind int

const (
	// MissingValue: a descriptor that requires a value got none.
	MissingValue Kind = iota + 1
	// MissingPositional: a mandatory positional argument never appeared.
	MissingPositional
	// InvalidValue: a validator rejected a value.
	InvalidValue
	// UnknownToken: no descriptor matched an argument.
	UnknownToken
)

// ArgError is a problem with one argument or descriptor.
type ArgError struct {
	Kind    Kind
	Name    string // display name of the descriptor
	Value   string
	Default bool  // the value came from a default clause
	Err     error // validator rejection, for InvalidValue
}

func (e *ArgError) Error() string {
	switch e.Kind {
	case MissingValue:
		return fmt.Sprintf("missing value for %s", e.Name)
	case MissingPositional:
		return fmt.Sprintf("missing argument %s", e.Name)
	case InvalidValue:
		return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Name, e.Err)
	case UnknownToken:
		return fmt.Sprintf("unknown argument %q", e.Value)
	default:
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
}

func (e *ArgError) Unwrap() error {
	return e.Err
}

// formatErrors lists each error on its own line.
func formatErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// report writes err to the diagnostic stream, one line per error, as
// "program: LABEL: message".
func (r *Registry) report(sev Severity, err error) {
	label, fg, level := r.labels.Error, color.FgRed, slog.LevelError
	if sev == SeverityWarning {
		label, fg, level = r.labels.Warning, color.FgYellow, slog.LevelWarn
	}
	label = r.paint(r.cfg.Stderr, fg, color.Bold).Sprint(label)

	errs := []error{err}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		errs = merr.Errors
	}
	for _, e := range errs {
		var suffix string
		var aerr *ArgError
		if errors.As(e, &aerr) && aerr.Default {
			suffix = r.labels.Default
		}
		fmt.Fprintf(r.cfg.Stderr, "%s: %s: %v%s\n", r.cfg.Program, label, e, suffix)
		r.log.Log(context.Background(), level, "report", "severity", sev, "err", e)
	}
}
