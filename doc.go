// Copyright 2021 Jonathan Amsterdam.

/*
Package cliopt parses command lines described by short definition strings.
Each flag, command or positional argument is declared with one line of text
that doubles as its entry in the usage message. For example,

	r := cliopt.New(cliopt.Config{Header: "tracer - a ray tracer"})
	r.Opt("-v, --verbose\t\tPrint more", func(*cliopt.Match) error {
	  verbose = true
	  return nil
	})
	r.Define(&cliopt.Def{
	  Spec:     "-n, --rays count (64)\tNumber of rays",
	  Validate: cliopt.Positive,
	  Handle: func(m *cliopt.Match) error {
	    rays, _ = strconv.Atoi(m.Value)
	    return nil
	  },
	})
	r.Opt("model\t\tThe model file", func(m *cliopt.Match) error {
	  model = m.Value
	  return nil
	})
	rest := r.Parse(os.Args[1:])

declares a "-v" flag that is also spelled "--verbose", a "-n" flag with a
mandatory value defaulting to 64, and a mandatory positional argument.

# Definitions

A definition consists of the following pieces, in order. All are optional,
but there must be at least a flag, a command or an argument name.

  - A short flag: a dash followed by a single letter or digit, as in "-x".
  - A long flag, two dashes followed by a name, as in "--xray"; or a command,
    a name in angle brackets or single quotes, as in "<add>" or "'add'".
  - An argument name. A bare name, as in "file", makes the value mandatory;
    a bracketed name, as in "[file]", makes it optional. Without a flag or
    command, the argument name declares a positional argument.
  - A default clause in parentheses: "(literal)", "($VAR)" or "($VAR, literal)".
    The value of environment variable VAR is used if it is set and not empty,
    otherwise the literal, otherwise the empty string.
  - A description, after a tab.

The characters in " .,|;:*?!@#/&%~=^" may separate the pieces, so
"-x, --xray num" and "-x|--xray=num" are the same definition.

Names longer than 30 characters are truncated.

# Defaults

Defaults are resolved when a definition is registered. The resolved value
is checked by the definition's validator and passed to its handler, with
Match.Default set. A mandatory value that resolves to the empty string, or a
default rejected by the validator, is recorded; the next call to Scan fails
before looking at any argument, and Parse prints the usage text and exits.

A mandatory flag or positional with a non-empty default need not appear on
the command line.

# Scanning

Arguments are matched one at a time. An argument that starts with a dash
is first tried as short flags and then as a long flag. Short flags without
a value may be bundled: "-aux" is "-a -u -x". A short flag with a value takes
the rest of the argument ("-n5") or else the next argument ("-n 5"). A long
flag takes the text after "=" ("--rays=5") or else the next argument. The
next argument is never taken as a value if it looks like a flag, that is, if
it is a dash followed by anything.

Other arguments are matched against commands and positionals. A command
matches only as the very first argument. Positionals match in the order they
were declared, each once.

A bare "--" is consumed and turns off flag matching for the rest of the
command line.

Arguments that match nothing are passed to the handler registered with
Otherwise, or ignored if there is none.

At the end, a mandatory flag or positional that never matched is a fatal
error. A handler can end the scan early by returning ErrStop, which skips
that check.

# Errors

Every problem has a severity. Fatal problems end the scan: Scan returns them,
and Parse reports them on Config.Stderr, prints the usage text and calls
Config.Exit(ExitError). Problems of lower severity are reported and the scan
goes on. By default a value rejected by a validator is fatal; set
Def.OnInvalid to SeverityError or SeverityWarning to let the handler see the
value anyway, with Match.Err set.

# Completion

Shell completion for common shells is supported with the
github.com/posener/complete/v2 package. Set Config.Completion and call Parse.
To install completion for a program, run it with the COMP_INSTALL environment
variable set to 1.
*/
package cliopt
