// Package errors provides examples of structured error handling.
package errors_test

import (
	"fmt"
	"io/fs"

	"github.com/Cheburusska/datatable/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeFormat, "unrecognized stype code").
		WithDetail("column", 2).
		WithDetail("value", "xyz")

	fmt.Println(err.Error())

	// Output:
	// format: unrecognized stype code [column=2] [value=xyz]
}

// ExampleWrap shows how an operating system error is wrapped with context.
func ExampleWrap() {
	err := errors.Wrap(fs.ErrNotExist, errors.ErrorTypeIO, "column file not found").
		WithDetail("path", "/data/a.bin")

	if errors.IsType(err, errors.ErrorTypeIO) {
		fmt.Println("This is an io error")
	}
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Println("Original error was ErrNotExist")
	}

	// Output:
	// This is an io error
	// Original error was ErrNotExist
}

// ExampleTypeOf demonstrates reading the kind of a failure.
func ExampleTypeOf() {
	schemaErr := errors.New(errors.ErrorTypeSchema, "colspec must have 3 columns")
	pathErr := errors.New(errors.ErrorTypePath, "path too long").WithDetail("limit", 900)

	fmt.Println(errors.TypeOf(schemaErr))
	fmt.Println(errors.TypeOf(pathErr))
	fmt.Println(errors.TypeOf(fs.ErrClosed) == "")

	// Output:
	// schema
	// path
	// true
}
