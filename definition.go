// Copyright 2021 Jonathan Amsterdam.

package cliopt

import (
	"fmt"
	"strings"
)

// Category is the kind of a descriptor.
type Category int

const (
	Positional Category = iota
	ShortFlag
	LongFlag
	Command
)

func (c Category) String() string {
	switch c {
	case Positional:
		return "positional"
	case ShortFlag:
		return "short flag"
	case LongFlag:
		return "long flag"
	case Command:
		return "command"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Requirement says whether a descriptor carries a value.
type Requirement int

const (
	ArgNone Requirement = iota
	ArgOptional
	ArgMandatory
)

func (r Requirement) String() string {
	switch r {
	case ArgNone:
		return "none"
	case ArgOptional:
		return "optional"
	case ArgMandatory:
		return "mandatory"
	default:
		return fmt.Sprintf("Requirement(%d)", int(r))
	}
}

// ShortName is the letter of a short flag.
type ShortName struct {
	Letter  byte
	Present bool
}

// Span locates a name inside a definition string.
type Span struct {
	Off, Len int
}

// maxNameLen caps the length of a descriptor's name span.
const maxNameLen = 30

// A Descriptor is the parsed form of one definition. Only the found and
// error flags change after registration.
type Descriptor struct {
	def        string
	short      ShortName
	long       bool
	command    bool
	arg        Requirement
	span       Span
	position   int // index among positionals
	hasDefault bool
	dflt       string

	found bool
	err   bool

	validate  Validator
	params    []any
	onInvalid Severity
	handle    Handler
}

// Def returns the definition text, verbatim.
func (d *Descriptor) Def() string { return d.def }

// Category returns the descriptor's category. A definition with both a
// short and a long marker is a LongFlag that also answers to its letter.
func (d *Descriptor) Category() Category {
	switch {
	case d.long:
		return LongFlag
	case d.short.Present:
		return ShortFlag
	case d.command:
		return Command
	default:
		return Positional
	}
}

// Arg returns the argument requirement.
func (d *Descriptor) Arg() Requirement { return d.arg }

// Short returns the short-flag letter, if any.
func (d *Descriptor) Short() ShortName { return d.short }

// Span returns the location of the name in Def().
func (d *Descriptor) Span() Span { return d.span }

// Default returns the resolved default value and whether the definition
// had a default clause.
func (d *Descriptor) Default() (string, bool) { return d.dflt, d.hasDefault }

// Found reports whether the descriptor matched during the scan.
func (d *Descriptor) Found() bool { return d.found }

// Err reports whether the descriptor's value was rejected or missing.
func (d *Descriptor) Err() bool { return d.err }

// Name returns the display name: "--name" for long flags, "-x" for short
// flags, and the bare name for commands and positionals.
func (d *Descriptor) Name() string {
	switch d.Category() {
	case LongFlag:
		return "--" + d.name()
	case ShortFlag:
		return "-" + d.name()
	default:
		return d.name()
	}
}

func (d *Descriptor) name() string {
	return d.def[d.span.Off : d.span.Off+d.span.Len]
}

func (d *Descriptor) isOption() bool     { return d.short.Present || d.long }
func (d *Descriptor) isCommand() bool    { return d.command }
func (d *Descriptor) isPositional() bool { return !d.isOption() && !d.command }

// satisfied reports whether a mandatory descriptor has a value without
// appearing on the command line.
func (d *Descriptor) satisfied() bool {
	return d.found || (d.hasDefault && d.dflt != "")
}

// Parsing of definition strings.
//
// A definition is, in order: an optional short flag "-x", an optional long
// flag "--name" or command "<name>" / "'name'", an optional argument name
// ("name" mandatory, "[name]" optional), an optional default clause
// "(literal)" or "($VAR)" or "($VAR, literal)", and a description after a tab.

const skipChars = " .,|;:*?!@#/&%~=^"

// defaultClause is the unresolved "(...)" part of a definition.
type defaultClause struct {
	present bool
	env     string
	literal string
}

type defParser struct {
	s string
	i int
}

// parseDef parses one definition. It never fails: pieces that are not
// recognized are left unset.
func parseDef(raw string) (*Descriptor, defaultClause) {
	d := &Descriptor{def: raw}
	p := &defParser{s: raw}
	p.short(d)
	p.name(d)
	p.argName(d)
	if d.span.Len > maxNameLen {
		d.span.Len = maxNameLen
	}
	return d, p.defaultClause()
}

// at returns the byte k positions past the cursor, or 0 past the end.
func (p *defParser) at(k int) byte {
	if p.i+k < len(p.s) {
		return p.s[p.i+k]
	}
	return 0
}

func (p *defParser) skip() {
	for c := p.at(0); c != 0 && strings.IndexByte(skipChars, c) >= 0; c = p.at(0) {
		p.i++
	}
}

func (p *defParser) short(d *Descriptor) {
	p.skip()
	if p.at(0) != '-' || !isAlnum(p.at(1)) || isAlnum(p.at(2)) {
		return
	}
	d.short = ShortName{Letter: p.at(1), Present: true}
	d.span = Span{Off: p.i + 1, Len: 1}
	p.i += 2
}

func (p *defParser) name(d *Descriptor) {
	p.skip()
	var start int
	switch c := p.at(0); {
	case c == '-' && p.at(1) == '-' && isAlpha(p.at(2)):
		d.long = true
		start = p.i + 2
	case (c == '\'' || c == '<') && isAlpha(p.at(1)):
		d.command = true
		start = p.i + 1
	default:
		return
	}
	end := nameEnd(p.s, start+1)
	d.span = Span{Off: start, Len: end - start}
	p.i = end
	if c := p.at(0); d.command && (c == '\'' || c == '>') {
		p.i++
	}
}

func (p *defParser) argName(d *Descriptor) {
	p.skip()
	start, req := p.i, ArgMandatory
	if p.at(0) == '[' {
		start, req = p.i+1, ArgOptional
	}
	if start >= len(p.s) || !isAlpha(p.s[start]) {
		return
	}
	end := nameEnd(p.s, start+1)
	if d.isPositional() {
		d.span = Span{Off: start, Len: end - start}
	}
	d.arg = req
	p.i = end
	if p.at(0) == ']' {
		p.i++
	}
}

func (p *defParser) defaultClause() defaultClause {
	p.skip()
	if p.at(0) != '(' {
		return defaultClause{}
	}
	p.i++
	for p.at(0) == ' ' {
		p.i++
	}
	dc := defaultClause{present: true}
	if p.at(0) == '$' {
		p.i++
		start := p.i
		for c := p.at(0); c == '_' || isAlnum(c); c = p.at(0) {
			p.i++
		}
		dc.env = p.s[start:p.i]
	}
	for c := p.at(0); c == ',' || c == ' ' || c == '\t'; c = p.at(0) {
		p.i++
	}
	start := p.i
	for !isEndChar(p.at(0)) {
		p.i++
	}
	dc.literal = strings.TrimRight(p.s[start:p.i], " ")
	return dc
}

func nameEnd(s string, i int) int {
	for i < len(s) && (s[i] == '-' || isAlnum(s[i])) {
		i++
	}
	return i
}

func isEndChar(c byte) bool {
	return c == 0 || c == '\t' || c == '(' || c == ')'
}

func isAlpha(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }
func isAlnum(c byte) bool { return isAlpha(c) || '0' <= c && c <= '9' }
