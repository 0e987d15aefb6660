// Copyright 2021 Jonathan Amsterdam.

package cliopt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validators for argument and flag values.
// Use them as Def.Validate; only OneOf and Range look at Def.Params.

// Int accepts a decimal integer.
func Int(value string, _ ...any) error {
	_, err := strconv.ParseInt(value, 10, 64)
	return numError(err, "an integer")
}

// Uint accepts a non-negative decimal integer.
func Uint(value string, _ ...any) error {
	_, err := strconv.ParseUint(value, 10, 64)
	return numError(err, "a non-negative integer")
}

// Positive accepts a decimal integer greater than zero.
func Positive(value string, _ ...any) error {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return numError(err, "a positive integer")
	}
	if n <= 0 {
		return errors.New("not a positive integer")
	}
	return nil
}

// Float accepts a floating-point number.
func Float(value string, _ ...any) error {
	_, err := strconv.ParseFloat(value, 64)
	return numError(err, "a number")
}

// Bool accepts the values strconv.ParseBool accepts.
func Bool(value string, _ ...any) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return errors.New("not a boolean")
	}
	return nil
}

// Duration accepts the values time.ParseDuration accepts.
func Duration(value string, _ ...any) error {
	if _, err := time.ParseDuration(value); err != nil {
		return errors.New("not a duration")
	}
	return nil
}

// OneOf accepts a value equal to one of params, which must be strings.
func OneOf(value string, params ...any) error {
	choices := make([]string, len(params))
	for i, p := range params {
		s, ok := p.(string)
		if !ok {
			return fmt.Errorf("OneOf: parameter %d is %T, not string", i, p)
		}
		if s == value {
			return nil
		}
		choices[i] = s
	}
	return fmt.Errorf("must be one of %s", strings.Join(choices, ", "))
}

// Range accepts a decimal integer between params[0] and params[1], inclusive.
// The bounds may be any integer type.
func Range(value string, params ...any) error {
	if len(params) != 2 {
		return fmt.Errorf("Range: need 2 parameters, got %d", len(params))
	}
	lo, err := intParam(params[0])
	if err != nil {
		return err
	}
	hi, err := intParam(params[1])
	if err != nil {
		return err
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return numError(err, "an integer")
	}
	if n < lo || n > hi {
		return fmt.Errorf("not in range [%d, %d]", lo, hi)
	}
	return nil
}

func intParam(p any) (int64, error) {
	switch v := p.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("Range: bound %v is %T, not an integer", p, p)
	}
}

// numError turns a strconv error into a short message.
func numError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, strconv.ErrRange):
		what = strings.TrimPrefix(strings.TrimPrefix(what, "an "), "a ")
		return fmt.Errorf("%s out of range", what)
	default:
		return fmt.Errorf("not %s", what)
	}
}
