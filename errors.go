////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package shareopen

import (
	"fmt"
	"io/fs"

	"github.com/pkg/errors"
)

var (
	// ErrIsDir is returned when a descriptor handed to the stream factory
	// refers to a directory.
	ErrIsDir = errors.New("is a directory")
	// ErrNotReadable is returned by Read on a stream opened write-only.
	ErrNotReadable = errors.New("file not open for reading")
	// ErrNotWritable is returned by Write on a stream opened read-only.
	ErrNotWritable = errors.New("file not open for writing")
)

// InvalidModeError reports a malformed mode string.
type InvalidModeError struct {
	Mode   string
	Reason string
}

func (e *InvalidModeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid mode: %q", e.Mode)
	}
	return fmt.Sprintf("invalid mode: %q: %s", e.Mode, e.Reason)
}

// InvalidArgumentError reports an argument that was rejected before any
// native call was made.
type InvalidArgumentError struct {
	Op     string
	Arg    string
	Value  interface{}
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid %s %v: %s", e.Op, e.Arg, e.Value, e.Reason)
}

// InvalidFileError reports a file argument that is neither a path nor a
// descriptor.
type InvalidFileError struct {
	Value interface{}
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("invalid file: %#v (%T)", e.Value, e.Value)
}

// FileExistsError is returned when an exclusive create finds the target
// already present. It matches fs.ErrExist with errors.Is.
type FileExistsError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileExistsError) Error() string {
	return e.Op + " " + e.Path + ": file exists"
}

func (e *FileExistsError) Unwrap() error { return e.Err }

func (e *FileExistsError) Is(target error) bool { return target == fs.ErrExist }
