// Copyright 2021 Jonathan Amsterdam.

package cliopt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newTestRegistry returns a Registry that reads environment variables from
// env and writes diagnostics to the returned buffer.
func newTestRegistry(env map[string]string) (*Registry, *bytes.Buffer) {
	var buf bytes.Buffer
	r := New(Config{
		Program: "prog",
		Stderr:  &buf,
		LookupEnv: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
		Exit: func(int) {},
	})
	return r, &buf
}

type parsed struct {
	Cat        Category
	Arg        Requirement
	Short      ShortName
	Name       string
	HasDefault bool
	Env        string
	Literal    string
}

func summarize(d *Descriptor, dc defaultClause) parsed {
	return parsed{
		Cat:        d.Category(),
		Arg:        d.Arg(),
		Short:      d.Short(),
		Name:       d.Name(),
		HasDefault: dc.present,
		Env:        dc.env,
		Literal:    dc.literal,
	}
}

func TestParseDef(t *testing.T) {
	short := func(c byte) ShortName { return ShortName{Letter: c, Present: true} }
	for _, test := range []struct {
		def  string
		want parsed
	}{
		{"-x", parsed{Cat: ShortFlag, Short: short('x'), Name: "-x"}},
		{"-1\t\tOne per line", parsed{Cat: ShortFlag, Short: short('1'), Name: "-1"}},
		{
			"-h, --help [topic]\t\tShow help on a topic",
			parsed{Cat: LongFlag, Arg: ArgOptional, Short: short('h'), Name: "--help"},
		},
		{
			"--compress type\tCompress output",
			parsed{Cat: LongFlag, Arg: ArgMandatory, Name: "--compress"},
		},
		{
			"--group-directories-first\tGroup directories",
			parsed{Cat: LongFlag, Name: "--group-directories-first"},
		},
		{"<add>\t\tAdd items", parsed{Cat: Command, Name: "add"}},
		{"'check' type\tCheck items", parsed{Cat: Command, Arg: ArgMandatory, Name: "check"}},
		{"<list> [type]", parsed{Cat: Command, Arg: ArgOptional, Name: "list"}},
		{"datafile\t\tThe input file", parsed{Cat: Positional, Arg: ArgMandatory, Name: "datafile"}},
		{"FILE\tFile (or directory)", parsed{Cat: Positional, Arg: ArgMandatory, Name: "FILE"}},
		{
			"[outfile]  (x.out)\tThe results",
			parsed{Cat: Positional, Arg: ArgOptional, Name: "outfile", HasDefault: true, Literal: "x.out"},
		},
		{
			"-x, --xray num-rays ($XRAYS,32)\tNumber of rays",
			parsed{
				Cat: LongFlag, Arg: ArgMandatory, Short: short('x'), Name: "--xray",
				HasDefault: true, Env: "XRAYS", Literal: "32",
			},
		},
		{
			"-x|--xray=num",
			parsed{Cat: LongFlag, Arg: ArgMandatory, Short: short('x'), Name: "--xray"},
		},
		{
			"-o [file] ( $OUT , out.txt )",
			parsed{
				Cat: ShortFlag, Arg: ArgOptional, Short: short('o'), Name: "-o",
				HasDefault: true, Env: "OUT", Literal: "out.txt",
			},
		},
		{
			"-T, --temperature temp (42)\tSet temperature",
			parsed{
				Cat: LongFlag, Arg: ArgMandatory, Short: short('T'), Name: "--temperature",
				HasDefault: true, Literal: "42",
			},
		},
		{
			"--abcdefghijklmnopqrstuvwxyz0123456789",
			parsed{Cat: LongFlag, Name: "--abcdefghijklmnopqrstuvwxyz0123"},
		},
		// Not a short flag: a second letter follows.
		{"-ab", parsed{Cat: Positional}},
	} {
		got := summarize(parseDef(test.def))
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%q: mismatch (-want, +got):\n%s", test.def, diff)
		}
	}
}

func TestParseDefRoundTrip(t *testing.T) {
	r, _ := newTestRegistry(nil)
	for _, def := range []string{
		"-h, --help\t\tShow help",
		"-x, --xray num-rays (32)\tNumber of rays",
		"-y, --yray [num-rays]\tOptional rays",
		"<check> type\tCheck",
		"datafile\tInput",
		"[outfile] (x.out)\tOutput",
	} {
		d := r.Opt(def, nil)
		again, _ := parseDef(d.Def())
		if again.Category() != d.Category() || again.Arg() != d.Arg() || again.Span() != d.Span() {
			t.Errorf("%q: reparsed as %v/%v/%v, registered as %v/%v/%v", def,
				again.Category(), again.Arg(), again.Span(), d.Category(), d.Arg(), d.Span())
		}
	}
}

func TestDefineCounters(t *testing.T) {
	r, _ := newTestRegistry(nil)
	for _, def := range []string{
		"-h\tHelp",
		"--verbose",
		"-x, --xray n",
		"<add>",
		"'list'",
		"input",
		"[output]",
		"[extra]",
	} {
		r.Opt(def, nil)
	}
	got := []int{r.NumOptions(), r.NumCommands(), r.NumPositionals(), r.DefaultErrors()}
	want := []int{3, 2, 3, 0}
	if !cmp.Equal(got, want) {
		t.Errorf("counters: got %v, want %v", got, want)
	}
	var positions []int
	for _, d := range r.Descriptors() {
		if d.Category() == Positional {
			positions = append(positions, d.position)
		}
	}
	if want := []int{0, 1, 2}; !cmp.Equal(positions, want) {
		t.Errorf("positions: got %v, want %v", positions, want)
	}
}

func TestDefineErrors(t *testing.T) {
	check := func(r *Registry, def, want string) {
		t.Helper()
		_, got := r.define(&Def{Spec: def})
		if got == nil || !strings.Contains(got.Error(), want) {
			t.Errorf("%q: got %v, want error containing %q", def, got, want)
		}
	}

	r, _ := newTestRegistry(nil)
	check(r, "", "no flag")
	check(r, "\tjust a description", "no flag")
	r.Opt("-v, --verbose", nil)
	r.Opt("<add>", nil)
	check(r, "-v\tagain", "duplicate")
	check(r, "--verbose", "duplicate")
	check(r, "'add' item", "duplicate")

	if _, err := r.Scan(nil); err != nil {
		t.Fatal(err)
	}
	check(r, "-q", "after Scan")

	defer func() {
		if recover() == nil {
			t.Error("Define did not panic")
		}
	}()
	r.Opt("-z", nil)
}

func TestDefaults(t *testing.T) {
	env := map[string]string{
		"N_RAYS": "16",
		"EMPTY":  "",
	}
	for _, test := range []struct {
		def  string
		want string
	}{
		{"-n count ($N_RAYS, 8)", "16"},
		{"-n count ($EMPTY, 8)", "8"},
		{"-n count ($UNSET, 8)", "8"},
		{"-n count (8)", "8"},
		{"-n [count] ($UNSET)", ""},
		{"[file] ()", ""},
		{"file ($N_RAYS)\tpositional", "16"},
	} {
		r, _ := newTestRegistry(env)
		var got []Match
		d := r.Define(&Def{
			Spec:     test.def,
			Validate: Uint,
			Handle: func(m *Match) error {
				got = append(got, *m)
				return nil
			},
		})
		if v, ok := d.Default(); !ok || v != test.want {
			t.Errorf("%q: default %q, %t; want %q, true", test.def, v, ok, test.want)
		}
		want := []Match{{Desc: d, Value: test.want, Default: true, Index: -1}}
		if !cmp.Equal(got, want, cmp.Comparer(func(a, b *Descriptor) bool { return a == b })) {
			t.Errorf("%q: handler got %+v, want %+v", test.def, got, want)
		}
		if r.DefaultErrors() != 0 {
			t.Errorf("%q: %d default errors", test.def, r.DefaultErrors())
		}
	}
}

func TestDefaultErrors(t *testing.T) {
	for _, test := range []struct {
		def      string
		validate Validator
		wantKind Kind
	}{
		{"-n count ($UNSET_VAR)", nil, MissingValue},
		{"--width cols ()", nil, MissingValue},
		{"-n count (0)", Positive, InvalidValue},
		{"--color [when] (sometimes)", func(v string, _ ...any) error {
			return OneOf(v, "auto", "always", "never")
		}, InvalidValue},
	} {
		r, _ := newTestRegistry(nil)
		called := false
		d := r.Define(&Def{
			Spec:     test.def,
			Validate: test.validate,
			Handle:   func(*Match) error { called = true; return nil },
		})
		r.Opt("file", func(*Match) error {
			t.Errorf("%q: scan went on after a failed default", test.def)
			return nil
		})
		if called {
			t.Errorf("%q: handler called for a failed default", test.def)
		}
		if !d.Err() || r.DefaultErrors() != 1 {
			t.Errorf("%q: Err() = %t, DefaultErrors() = %d", test.def, d.Err(), r.DefaultErrors())
		}
		next, err := r.Scan([]string{"x"})
		var aerr *ArgError
		if !errors.As(err, &aerr) {
			t.Fatalf("%q: got %v, want an *ArgError", test.def, err)
		}
		if aerr.Kind != test.wantKind || !aerr.Default || next != 0 {
			t.Errorf("%q: got kind %d, default %t, next %d; want kind %d, default true, next 0",
				test.def, aerr.Kind, aerr.Default, next, test.wantKind)
		}
	}
}

func TestDefaultErrorsAccumulate(t *testing.T) {
	r, _ := newTestRegistry(nil)
	r.Define(&Def{Spec: "-a num (x)", Validate: Int})
	r.Define(&Def{Spec: "-b num ($NOPE)"})
	r.Define(&Def{Spec: "-c num (3)", Validate: Int})
	if got := r.DefaultErrors(); got != 2 {
		t.Fatalf("DefaultErrors() = %d, want 2", got)
	}
	_, err := r.Scan(nil)
	want := "invalid value \"x\" for -a: not an integer\nmissing value for -b"
	if err == nil || err.Error() != want {
		t.Errorf("got %v, want %q", err, want)
	}
}
