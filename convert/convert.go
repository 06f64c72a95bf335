// Package convert resolves canonical text-to-value conversions for the types
// a prompt can produce. A conversion takes one line of trimmed input text and
// either returns the typed value or a descriptive error.
package convert

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// Func converts one line of trimmed input text into a T.
type Func[T any] func(text string) (T, error)

// ErrNoConversion is returned by For when no canonical conversion exists for
// the requested type.
var ErrNoConversion = errors.New("no canonical conversion for type")

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// For returns the canonical conversion for T.
//
// Strings convert by identity, booleans via strconv.ParseBool, integer and
// float types via strconv with the type's own bit size, and time.Duration via
// time.ParseDuration. Any type whose pointer implements
// encoding.TextUnmarshaler converts through UnmarshalText. Named types with
// one of the supported underlying kinds are accepted. All other types report
// ErrNoConversion.
func For[T any]() (Func[T], error) {
	rt := reflect.TypeFor[T]()

	// Duration has kind int64 but parses as "1h30m", not as digits.
	if rt == reflect.TypeOf(time.Duration(0)) {
		return func(text string) (T, error) {
			var zero T
			d, err := time.ParseDuration(text)
			if err != nil {
				return zero, err
			}
			return any(d).(T), nil
		}, nil
	}

	if reflect.PointerTo(rt).Implements(textUnmarshalerType) {
		return func(text string) (T, error) {
			var v T
			if err := any(&v).(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
				var zero T
				return zero, err
			}
			return v, nil
		}, nil
	}

	switch rt.Kind() {
	case reflect.String:
		return func(text string) (T, error) {
			v := reflect.New(rt).Elem()
			v.SetString(text)
			return v.Interface().(T), nil
		}, nil

	case reflect.Bool:
		return func(text string) (T, error) {
			var zero T
			b, err := strconv.ParseBool(text)
			if err != nil {
				return zero, err
			}
			v := reflect.New(rt).Elem()
			v.SetBool(b)
			return v.Interface().(T), nil
		}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bits := rt.Bits()
		return func(text string) (T, error) {
			var zero T
			n, err := strconv.ParseInt(text, 10, bits)
			if err != nil {
				return zero, err
			}
			v := reflect.New(rt).Elem()
			v.SetInt(n)
			return v.Interface().(T), nil
		}, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		bits := rt.Bits()
		return func(text string) (T, error) {
			var zero T
			n, err := strconv.ParseUint(text, 10, bits)
			if err != nil {
				return zero, err
			}
			v := reflect.New(rt).Elem()
			v.SetUint(n)
			return v.Interface().(T), nil
		}, nil

	case reflect.Float32, reflect.Float64:
		bits := rt.Bits()
		return func(text string) (T, error) {
			var zero T
			f, err := strconv.ParseFloat(text, bits)
			if err != nil {
				return zero, err
			}
			v := reflect.New(rt).Elem()
			v.SetFloat(f)
			return v.Interface().(T), nil
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNoConversion, rt.String())
}

// TypeName returns the display name used for T in prompts and diagnostics,
// e.g. "int", "string", "time.Duration".
func TypeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
