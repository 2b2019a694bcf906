// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMetadata is returned when a record is built from something that is
	// neither a mapping nor nil.
	ErrInvalidMetadata = errors.New("unexpected data type for metadata (should be a mapping or nil)")

	// ErrInvalidKeyConfig is returned for alias or regex tables that cannot be compiled.
	ErrInvalidKeyConfig = errors.New("invalid key configuration")

	// ErrNoConverter is the cause of a ConversionError raised when SMILES rescue is
	// requested but no converter was supplied.
	ErrNoConverter = errors.New("no chemical structure converter configured")
)

// ConversionError reports a failure of the external chemical structure converter.
type ConversionError struct {
	Input string
	From  string
	To    string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %q from %s to %s: %v", e.Input, e.From, e.To, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
