// errors.go -- error kinds for the mhlsh pipeline
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mhlsh

import (
	"errors"
	"fmt"
)

var (
	// ErrInputSchema is returned when the configured text or id column is
	// missing, mistyped, or the input path does not exist.
	ErrInputSchema = errors.New("mhlsh: input schema error")

	// ErrIDOverflow is returned when a row's id is negative or not below 2^31.
	ErrIDOverflow = errors.New("mhlsh: id overflows 32 bits")

	// ErrSerialization is returned when a DSU dump or load fails.
	ErrSerialization = errors.New("mhlsh: serialization error")

	// ErrDigest is returned at startup if the platform's SHA-1 implementation
	// is unavailable. In practice unreachable on any platform Go supports; kept
	// as a named sentinel so callers can match on it per the external contract.
	ErrDigest = errors.New("mhlsh: digest unavailable")
)

func errSchema(format string, v ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInputSchema, fmt.Sprintf(format, v...))
}

func errIDOverflow(id int64) error {
	return fmt.Errorf("%w: %d", ErrIDOverflow, id)
}

func errSerialize(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %s", ErrSerialization, op, path, err)
}
