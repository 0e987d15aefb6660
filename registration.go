// Copyright 2021 Jonathan Amsterdam.

package cliopt

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Code to register descriptors and resolve their defaults.

// A Validator checks a value. It returns nil if the value is acceptable,
// or an error whose text explains the rejection. Params are the extra
// arguments given in Def.Params.
type Validator func(value string, params ...any) error

// A Handler is called once for each match of its descriptor, and once at
// registration if the definition has a default clause.
//
// Returning ErrStop ends the scan early, without checking for missing
// mandatory arguments. Returning ErrHelp asks for the usage text. Any other
// error is fatal.
type Handler func(*Match) error

// A Match describes one successful match.
type Match struct {
	// Desc is the matched descriptor. It is nil for tokens passed to the
	// handler registered with Otherwise.
	Desc *Descriptor

	// Value is the extracted value: a substring of the scanned arguments,
	// or the resolved default. It is empty for flags without arguments and
	// for absent optional values.
	Value string

	// Default reports whether Value came from the default clause.
	Default bool

	// Index is the position of the matched token in the scanned arguments,
	// or -1 for a default.
	Index int

	// Err is set when the value was rejected but the descriptor's OnInvalid
	// severity let the scan continue, and for unmatched tokens.
	Err error
}

// Def is the full form of a definition.
type Def struct {
	// Spec is the definition text. See the package documentation.
	Spec string

	// Validate, if non-nil, checks every non-empty value, including the default.
	Validate Validator

	// Params are passed to Validate after the value.
	Params []any

	// OnInvalid is the severity of a rejected value found during the scan.
	// The zero value, SeverityFatal, aborts.
	OnInvalid Severity

	// Handle is called for every match.
	Handle Handler
}

// Opt registers spec with handler h and no validator.
func (r *Registry) Opt(spec string, h Handler) *Descriptor {
	return r.Define(&Def{Spec: spec, Handle: h})
}

// Define registers def and returns its descriptor. It panics if the
// definition names nothing, duplicates an earlier flag or command, or if
// the registry has already been scanned.
//
// A failing default clause does not panic: it is recorded, and the next
// Scan fails before reading any argument.
func (r *Registry) Define(def *Def) *Descriptor {
	d, err := r.define(def)
	if err != nil {
		panic(err)
	}
	return d
}

// Otherwise registers the handler for arguments that match no descriptor.
// Without one, such arguments are ignored.
func (r *Registry) Otherwise(h Handler) {
	r.otherwise = h
}

func (r *Registry) define(def *Def) (*Descriptor, error) {
	if r.scanned {
		return nil, errors.New("cliopt: Define after Scan")
	}
	d, dc := parseDef(def.Spec)
	if d.span.Len == 0 {
		return nil, fmt.Errorf("cliopt: %q: no flag, command or argument name", def.Spec)
	}
	if prev := r.conflict(d); prev != nil {
		return nil, fmt.Errorf("cliopt: %q: duplicate of %q", def.Spec, prev.def)
	}
	d.validate = def.Validate
	d.params = def.Params
	d.onInvalid = def.OnInvalid
	d.handle = def.Handle

	switch d.Category() {
	case ShortFlag, LongFlag:
		r.numOptions++
	case Command:
		r.numCommands++
	default:
		d.position = r.numPositionals
		r.numPositionals++
	}
	r.descs = append(r.descs, d)
	r.log.Debug("define", "name", d.Name(), "category", d.Category(), "arg", d.arg)

	if dc.present {
		r.resolveDefault(d, dc)
	}
	return d, nil
}

// conflict returns an earlier descriptor that d could never win against.
func (r *Registry) conflict(d *Descriptor) *Descriptor {
	for _, p := range r.descs {
		switch {
		case d.short.Present && p.short.Present && d.short.Letter == p.short.Letter:
			return p
		case d.long && p.long && d.name() == p.name():
			return p
		case d.command && p.command && d.name() == p.name():
			return p
		}
	}
	return nil
}

// resolveDefault resolves a default clause: a non-empty environment
// variable wins over the literal, which wins over the empty string. The
// value is validated and handed to the descriptor's handler right away.
func (r *Registry) resolveDefault(d *Descriptor, dc defaultClause) {
	var value string
	if dc.env != "" {
		if v, ok := r.cfg.LookupEnv(dc.env); ok && v != "" {
			value = v
		}
	}
	if value == "" {
		value = dc.literal
	}
	d.hasDefault = true
	d.dflt = value

	var err error
	switch {
	case value == "" && d.arg == ArgMandatory:
		err = &ArgError{Kind: MissingValue, Name: d.Name(), Default: true}
	case value != "":
		if verr := d.check(value); verr != nil {
			err = &ArgError{Kind: InvalidValue, Name: d.Name(), Value: value, Default: true, Err: verr}
		}
	}
	if err == nil {
		err = r.call(d.handle, &Match{Desc: d, Value: value, Default: true, Index: -1})
	}
	if err != nil {
		d.err = true
		r.numDefaultErrs++
		r.defaultErrs = multierror.Append(r.defaultErrs, err)
		r.defaultErrs.ErrorFormat = formatErrors
		r.log.Debug("default failed", "name", d.Name(), "value", value, "err", err)
		return
	}
	r.log.Debug("default", "name", d.Name(), "value", value, "env", dc.env)
}

// check runs the validator on a non-empty value.
func (d *Descriptor) check(value string) error {
	if d.validate == nil || value == "" {
		return nil
	}
	return d.validate(value, d.params...)
}

func (r *Registry) call(h Handler, m *Match) error {
	if h == nil {
		return nil
	}
	return h(m)
}
