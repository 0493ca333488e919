package jwt

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrMissingKey indicates that the token payload is missing a field the
// destination struct marks as required through the
// `json:"fieldname,required"` tag. See UnmarshalWithRequired.
var ErrMissingKey = errors.New("jwt: token is missing a required field")

// UnmarshalWithRequired is an UnmarshalFunc which, additionally to the
// standard JSON decoding, fails with ErrMissingKey when a destination
// struct field tagged with `json:"...,required"` ends up zero-valued.
// Assign it to the package-level Unmarshal variable to enforce required
// claims on every Claims(dest) call:
//
//	func init() {
//	    jwt.Unmarshal = jwt.UnmarshalWithRequired
//	}
//
//	type userClaims struct {
//	    Username string `json:"username,required"`
//	}
func UnmarshalWithRequired(payload []byte, dest interface{}) error {
	if err := defaultUnmarshal(payload, dest); err != nil {
		return err
	}

	return meetRequirements(reflect.ValueOf(dest))
}

// defaultUnmarshal keeps the plain decoder reachable when the
// package-level Unmarshal variable points to UnmarshalWithRequired.
var defaultUnmarshal = Unmarshal

// HasRequiredJSONTag reports whether a struct field is marked as
// required through the `json:"fieldname,required"` tag syntax.
// Unexported fields are never required.
func HasRequiredJSONTag(field reflect.StructField) bool {
	if isExported := field.PkgPath == ""; !isExported {
		return false
	}

	tag := field.Tag.Get("json")
	return strings.Contains(tag, ",required")
}

func meetRequirements(val reflect.Value) (err error) {
	val = reflect.Indirect(val)
	if val.Kind() != reflect.Struct {
		return nil
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		// skip unexported fields here.
		if isExported := field.PkgPath == ""; !isExported {
			continue
		}

		if fieldTyp := indirectType(field.Type); fieldTyp.Kind() == reflect.Struct {
			if err = meetRequirements(val.Field(i)); err != nil {
				return err
			}

			continue
		}

		if HasRequiredJSONTag(field) {
			if val.Field(i).IsZero() {
				return fmt.Errorf("%w: %q", ErrMissingKey, field.Name)
			}
		}
	}

	return
}

// indirectType returns the underlying element type for pointer and
// container kinds, unchanged otherwise.
func indirectType(typ reflect.Type) reflect.Type {
	switch typ.Kind() {
	case reflect.Ptr, reflect.Array, reflect.Chan, reflect.Map, reflect.Slice:
		return typ.Elem()
	}
	return typ
}
