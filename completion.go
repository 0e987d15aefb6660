// Copyright 2021 Jonathan Amsterdam.

package cliopt

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Methods for github.com/posener/complete.Completer.

// completer presents a Registry to the completion package. Commands are
// the sub-commands of the top level; after a command only flags and
// positionals remain.
type completer struct {
	r   *Registry
	top bool
}

func (c completer) SubCmdList() []string {
	if !c.top {
		return nil
	}
	var names []string
	for _, d := range c.r.descs {
		if d.command {
			names = append(names, d.name())
		}
	}
	return names
}

func (c completer) SubCmdGet(cmd string) complete.Completer {
	if !c.top {
		return nil
	}
	for _, d := range c.r.descs {
		if d.command && d.name() == cmd {
			return completer{r: c.r}
		}
	}
	return nil
}

func (c completer) FlagList() []string {
	var names []string
	for _, d := range c.r.descs {
		if d.short.Present {
			names = append(names, string(d.short.Letter))
		}
		if d.long {
			names = append(names, d.name())
		}
	}
	return names
}

// FlagGet predicts the value of a flag: its default if it has one.
// Flags without a value get no predictor.
func (c completer) FlagGet(flag string) complete.Predictor {
	d := c.r.lookupFlag(flag)
	if d == nil || d.arg == ArgNone {
		return nil
	}
	if d.dflt != "" {
		return predict.Set{d.dflt}
	}
	return predict.Something
}

func (c completer) ArgsGet() complete.Predictor {
	if c.r.numPositionals == 0 {
		return predict.Nothing
	}
	return predict.Files("*")
}

// lookupFlag finds a flag by its letter or long name, without dashes.
func (r *Registry) lookupFlag(name string) *Descriptor {
	if len(name) == 1 {
		if d := r.lookupShort(name[0]); d != nil {
			return d
		}
	}
	for _, d := range r.descs {
		if d.long && d.name() == name {
			return d
		}
	}
	return nil
}
