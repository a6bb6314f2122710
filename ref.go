////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package shareopen

import (
	"strconv"
)

// Descriptor is a raw OS file descriptor. On Windows it holds a HANDLE.
type Descriptor uintptr

// PathLike is implemented by values that can report a filesystem path.
type PathLike interface {
	FSPath() string
}

type refKind uint8

const (
	refPath refKind = iota
	refBytes
	refFD
)

// FileRef identifies what the caller asked to open: a text path, a byte path
// or an already open descriptor. FileRef values are comparable.
type FileRef struct {
	kind refKind
	path string
	fd   Descriptor
}

// Path returns a FileRef for a text path.
func Path(p string) FileRef { return FileRef{kind: refPath, path: p} }

// PathBytes returns a FileRef for a path given as raw bytes. On Windows the
// bytes are decoded from the ANSI code page before use.
func PathBytes(p []byte) FileRef { return FileRef{kind: refBytes, path: string(p)} }

// FD returns a FileRef for an open descriptor.
func FD(fd Descriptor) FileRef { return FileRef{kind: refFD, fd: fd} }

// RefOf converts v into a FileRef. It accepts string, []byte, Descriptor,
// int, uintptr, FileRef and PathLike values.
func RefOf(v interface{}) (FileRef, error) {
	switch f := v.(type) {
	case FileRef:
		return f, nil
	case string:
		return Path(f), nil
	case []byte:
		return PathBytes(f), nil
	case Descriptor:
		return FD(f), nil
	case uintptr:
		return FD(Descriptor(f)), nil
	case int:
		if f < 0 {
			return FileRef{}, &InvalidArgumentError{Op: "open", Arg: "file",
				Value: f, Reason: "negative file descriptor"}
		}
		return FD(Descriptor(f)), nil
	case PathLike:
		return Path(f.FSPath()), nil
	}
	return FileRef{}, &InvalidFileError{Value: v}
}

// IsFD reports whether the reference is a descriptor.
func (r FileRef) IsFD() bool { return r.kind == refFD }

// IsBytes reports whether the reference is a byte path.
func (r FileRef) IsBytes() bool { return r.kind == refBytes }

// FD returns the descriptor. It is zero for paths.
func (r FileRef) FD() Descriptor { return r.fd }

// Bytes returns the path as bytes. It is nil for descriptors.
func (r FileRef) Bytes() []byte {
	if r.kind == refFD {
		return nil
	}
	return []byte(r.path)
}

// String returns the path, or the descriptor in decimal.
func (r FileRef) String() string {
	if r.kind == refFD {
		return strconv.FormatUint(uint64(r.fd), 10)
	}
	return r.path
}
