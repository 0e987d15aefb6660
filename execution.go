// Copyright 2021 Jonathan Amsterdam.

package cliopt

import (
	"errors"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/posener/complete/v2"
)

// Code for scanning arguments.

// Parse scans args, which should not include the program name, and returns
// the index of the first argument that was not consumed.
//
// Problems are reported on Config.Stderr. On a fatal problem Parse prints
// the usage text (unless Config.Terse) and calls Config.Exit with
// ExitError. If a handler returns ErrHelp, Parse prints the usage text and
// calls Config.Exit with Config.HelpExitCode.
func (r *Registry) Parse(args []string) int {
	if r.cfg.Completion {
		complete.Complete(r.cfg.Program, completer{r: r, top: true})
	}
	next, err := r.Scan(args)
	switch {
	case err == nil:
	case errors.Is(err, ErrHelp):
		r.Usage(r.cfg.Stderr)
		r.cfg.Exit(r.cfg.HelpExitCode)
	default:
		r.report(SeverityFatal, err)
		if !r.cfg.Terse {
			r.Usage(r.cfg.Stderr)
		}
		r.cfg.Exit(ExitError)
	}
	return next
}

// Scan matches args against the registered descriptors, calling handlers
// as it goes, and returns the index of the first argument that was not
// consumed. Fatal problems are returned rather than reported; problems of
// lesser severity are reported on Config.Stderr.
//
// A failed default clause makes Scan fail before it reads any argument.
// After the last argument, every mandatory flag or positional that did not
// match and has no default is an error; several such errors are returned
// together. A handler returning ErrStop skips that check.
//
// A Registry can be scanned only once.
func (r *Registry) Scan(args []string) (int, error) {
	if r.scanned {
		return 0, errors.New("cliopt: registry already scanned")
	}
	r.scanned = true
	if err := r.defaultErrs.ErrorOrNil(); err != nil {
		return 0, err
	}
	s := &scanner{r: r, args: args}
	err := s.run()
	switch {
	case errors.Is(err, ErrStop):
		r.log.Debug("stopped", "next", s.i)
		return s.i, nil
	case err != nil:
		return s.i, err
	}
	return s.i, s.finish()
}

// scanner is the cursor of one scan.
type scanner struct {
	r      *Registry
	args   []string
	i      int  // current argument
	off    int  // offset of the next letter in a bundle of short flags
	noMore bool // a bare "--" ended option processing
	npos   int  // positionals matched so far
}

func (s *scanner) run() error {
	for s.i < len(s.args) {
		tok := s.args[s.i]
		var err error
		switch {
		case !s.noMore && tok == "--":
			s.noMore = true
			s.i++
			continue
		case !s.noMore && isOptionLike(tok):
			err = s.option(tok)
		default:
			err = s.operand(tok)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// isOptionLike reports whether tok is a dash followed by something.
func isOptionLike(tok string) bool {
	return len(tok) > 1 && tok[0] == '-'
}

// option matches a token that starts with a dash: first as a bundle of
// short flags, then as a long flag.
func (s *scanner) option(tok string) error {
	defer func() { s.off = 0 }()
	for s.off = 1; s.off < len(tok); {
		d := s.r.lookupShort(tok[s.off])
		if d == nil {
			break
		}
		at := s.i
		if d.arg == ArgNone {
			s.off++
			if s.off < len(tok) {
				// More letters follow in the same token.
				if err := s.matched(d, "", at); err != nil {
					s.i++
					return err
				}
				continue
			}
			s.i++
			return s.matched(d, "", at)
		}
		// The rest of the token, or else the next argument, is the value.
		value := tok[s.off+1:]
		if value == "" {
			value = s.next()
		}
		s.i++
		return s.matched(d, value, at)
	}
	if s.off > 1 {
		// Some letters of the bundle matched, but not all.
		at := s.i
		s.i++
		return s.unmatched(tok, at)
	}
	if ok, err := s.long(tok); ok {
		return err
	}
	at := s.i
	s.i++
	return s.unmatched(tok, at)
}

func (s *scanner) long(tok string) (bool, error) {
	body, ok := strings.CutPrefix(tok, "--")
	if !ok {
		return false, nil
	}
	for _, d := range s.r.descs {
		if !d.long {
			continue
		}
		value, hasValue, ok := cutName(body, d.name())
		if !ok {
			continue
		}
		at := s.i
		switch {
		case d.arg == ArgNone && hasValue:
			s.r.report(SeverityWarning, &ArgError{Kind: InvalidValue, Name: d.Name(), Value: value,
				Err: errors.New("flag takes no value; ignored")})
			value = ""
		case d.arg != ArgNone && !hasValue:
			value = s.next()
		}
		s.i++
		return true, s.matched(d, value, at)
	}
	return false, nil
}

// operand matches a token that is not an option: the command, if this is
// the first argument, or the next positional.
func (s *scanner) operand(tok string) error {
	at := s.i
	for _, d := range s.r.descs {
		switch {
		case d.command:
			if s.r.cmdFound || at != 0 {
				continue
			}
			value, hasValue, ok := cutName(tok, d.name())
			if !ok {
				continue
			}
			s.r.cmdFound = true
			if d.arg != ArgNone && !hasValue {
				value = s.next()
			}
			s.i++
			return s.matched(d, value, at)
		case d.isPositional():
			if d.position != s.npos {
				continue
			}
			s.npos++
			// No command after the first positional.
			s.r.cmdFound = true
			s.i++
			return s.matched(d, tok, at)
		}
	}
	s.i++
	return s.unmatched(tok, at)
}

// cutName matches "name" or "name=value".
func cutName(s, name string) (value string, hasValue, ok bool) {
	rest, ok := strings.CutPrefix(s, name)
	switch {
	case !ok:
		return "", false, false
	case rest == "":
		return "", false, true
	case rest[0] == '=':
		return rest[1:], true, true
	default:
		return "", false, false
	}
}

// next consumes and returns the following argument as a value, unless it
// looks like an option.
func (s *scanner) next() string {
	if s.i+1 < len(s.args) && !isOptionLike(s.args[s.i+1]) {
		s.i++
		return s.args[s.i]
	}
	return ""
}

func (r *Registry) lookupShort(c byte) *Descriptor {
	for _, d := range r.descs {
		if d.short.Present && d.short.Letter == c {
			return d
		}
	}
	return nil
}

// matched validates value and calls d's handler.
func (s *scanner) matched(d *Descriptor, value string, at int) error {
	d.found = true
	d.err = false
	s.r.log.Debug("match", "name", d.Name(), "value", value, "index", at)
	if value == "" && d.arg == ArgMandatory {
		d.err = true
		return &ArgError{Kind: MissingValue, Name: d.Name()}
	}
	m := &Match{Desc: d, Value: value, Index: at}
	if verr := d.check(value); verr != nil {
		err := &ArgError{Kind: InvalidValue, Name: d.Name(), Value: value, Err: verr}
		switch d.onInvalid {
		case SeverityFatal:
			d.err = true
			return err
		case SeverityError:
			d.err = true
			s.r.report(SeverityError, err)
		default:
			s.r.report(SeverityWarning, err)
		}
		m.Err = err
	}
	return s.r.call(d.handle, m)
}

func (s *scanner) unmatched(tok string, at int) error {
	if s.r.otherwise == nil {
		s.r.log.Debug("ignored", "arg", tok, "index", at)
		return nil
	}
	return s.r.otherwise(&Match{
		Value: tok,
		Index: at,
		Err:   &ArgError{Kind: UnknownToken, Value: tok},
	})
}

// finish reports the mandatory descriptors that never got a value.
func (s *scanner) finish() error {
	var merr *multierror.Error
	missing := 0
	for _, d := range s.r.descs {
		if d.command || d.arg != ArgMandatory || d.satisfied() {
			continue
		}
		d.err = true
		kind := MissingValue
		if d.isPositional() {
			kind = MissingPositional
		}
		merr = multierror.Append(merr, &ArgError{Kind: kind, Name: d.Name()})
		merr.ErrorFormat = formatErrors
		missing++
	}
	s.r.log.Debug("finish", "missing", missing)
	return merr.ErrorOrNil()
}
