////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package shareopen

import (
	jww "github.com/spf13/jwalterweatherman"
)

// Permission bits for Options.Perm.
const (
	// DefaultPerm is used when Options.Perm is zero.
	DefaultPerm uint32 = 0o666

	// PermNone creates files with no permission bits at all.
	PermNone uint32 = 0x80000000
)

// Options control Open. The zero value, like NewOptions, asks for default
// buffering, DefaultPerm and the platform's full set of share flags.
type Options struct {
	// Buffering is DefaultBuffering, Unbuffered, LineBuffered or a buffer
	// size in bytes.
	Buffering int
	Encoding  string
	Errors    string
	Newline   string

	// KeepFD leaves a descriptor passed to Open open when the File is
	// closed. It cannot be used with a path.
	KeepFD bool

	// Opener replaces NativeOpen.
	Opener Opener

	// Perm is passed to the Opener as the permission bits of created files.
	// Zero means DefaultPerm; use PermNone for no bits.
	Perm uint32

	// ShareFlags is passed to the Opener. Zero is ShareDefault; use
	// ShareNone for exclusive access.
	ShareFlags ShareFlags

	// Factory replaces NewStream.
	Factory StreamFactory
}

// NewOptions returns the default Options: default buffering, permission bits
// 0666 and the platform's full set of share flags.
func NewOptions() *Options {
	return &Options{
		Buffering:  DefaultBuffering,
		Perm:       DefaultPerm,
		ShareFlags: ShareDefault,
	}
}

func (o *Options) perm() uint32 {
	switch o.Perm {
	case 0:
		return DefaultPerm
	case PermNone:
		return 0
	}
	return o.Perm
}

// File is a Stream opened by Open. Its Name is the path or descriptor the
// caller passed in, not the descriptor the stream was built on.
type File struct {
	Stream
	ref FileRef
}

// Name returns the path passed to Open, or the descriptor in decimal.
func (f *File) Name() string { return f.ref.String() }

// Ref returns what was passed to Open.
func (f *File) Ref() FileRef { return f.ref }

// Open opens file, which is a path (string, []byte or PathLike) or an open
// descriptor (Descriptor, int or uintptr), with an fopen-style mode such as
// "r", "wb" or "a+". Paths are opened with opts.Opener, or NativeOpen, so on
// every platform the file can be renamed or removed while the returned File
// is open. A nil opts means NewOptions().
//
// Every argument is validated before a descriptor is acquired. If the stream
// cannot be built, a descriptor owned by Open is closed before returning.
func Open(file interface{}, mode string, opts *Options) (*File, error) {
	if opts == nil {
		opts = NewOptions()
	}

	ref, err := RefOf(file)
	if err != nil {
		return nil, err
	}
	if !ref.IsFD() && opts.KeepFD {
		return nil, &InvalidArgumentError{Op: "open", Arg: "file", Value: ref.String(),
			Reason: "cannot keep the descriptor open with a file name"}
	}

	flags, err := ModeToFlags(mode)
	if err != nil {
		return nil, err
	}

	cfg := StreamConfig{
		Mode:      mode,
		Buffering: opts.Buffering,
		Encoding:  opts.Encoding,
		Errors:    opts.Errors,
		Newline:   opts.Newline,
		CloseFD:   !opts.KeepFD,
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	fd := ref.FD()
	if !ref.IsFD() {
		opener := opts.Opener
		if opener == nil {
			opener = NativeOpen
		}
		if fd, err = opener(ref, flags, opts.perm(), opts.ShareFlags); err != nil {
			return nil, err
		}
	}

	factory := opts.Factory
	if factory == nil {
		factory = NewStream
	}
	s, err := factory(fd, cfg)
	if err != nil {
		if cfg.CloseFD {
			if closeErr := closeDescriptor(fd); closeErr != nil {
				jww.ERROR.Printf("Failed to close descriptor %d for %s "+
					"after stream error: %+v", fd, ref, closeErr)
			}
		}
		return nil, err
	}

	jww.DEBUG.Printf("Opened %s with mode %q as descriptor %d", ref, mode, fd)
	return &File{Stream: s, ref: ref}, nil
}
