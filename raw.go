////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package shareopen

import (
	"io"
	"os"
	"strconv"
)

// RawFile is an unbuffered stream over a descriptor. When it does not own the
// descriptor, Close marks the RawFile closed but leaves the descriptor open.
//
// A RawFile is not safe for concurrent use.
type RawFile struct {
	fd        Descriptor
	closeFD   bool
	readable  bool
	writable  bool
	appending bool
	closed    bool
}

// NewRawFile wraps fd. flags decide which of Read and Write are allowed; with
// O_APPEND the offset is moved to the end of the file. If closeFD is false the
// caller keeps ownership of fd.
//
// NewRawFile never closes fd, even when it fails.
func NewRawFile(fd Descriptor, flags Oflag, closeFD bool) (*RawFile, error) {
	f := &RawFile{
		fd:        fd,
		closeFD:   closeFD,
		readable:  Readable(flags),
		writable:  Writable(flags),
		appending: flags&O_APPEND != 0,
	}

	dir, err := sysIsDir(fd)
	if err != nil {
		return nil, f.pathErr("fstat", err)
	}
	if dir {
		return nil, f.pathErr("open", ErrIsDir)
	}

	if f.appending {
		if _, err = sysSeek(fd, 0, io.SeekEnd); err != nil {
			return nil, f.pathErr("seek", err)
		}
	}
	return f, nil
}

// Read reads up to len(b) bytes. At end of file it returns 0, io.EOF.
func (f *RawFile) Read(b []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	if !f.readable {
		return 0, ErrNotReadable
	}
	if len(b) == 0 {
		return 0, nil
	}
	n, err := sysRead(f.fd, b)
	if err != nil {
		return 0, f.pathErr("read", err)
	}
	if n <= 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write writes all of b, retrying short writes.
func (f *RawFile) Write(b []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	if !f.writable {
		return 0, ErrNotWritable
	}
	if f.appending {
		if err := seekAppend(f.fd); err != nil {
			return 0, f.pathErr("seek", err)
		}
	}

	var n int
	for len(b) > 0 {
		m, err := sysWrite(f.fd, b)
		if m > 0 {
			n += m
			b = b[m:]
		}
		if err != nil {
			return n, f.pathErr("write", err)
		}
		if m <= 0 {
			return n, f.pathErr("write", io.ErrShortWrite)
		}
	}
	return n, nil
}

// Seek sets the offset for the next Read or Write.
func (f *RawFile) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	pos, err := sysSeek(f.fd, offset, whence)
	if err != nil {
		return 0, f.pathErr("seek", err)
	}
	return pos, nil
}

// Flush does nothing; RawFile has no buffer.
func (f *RawFile) Flush() error {
	if f.closed {
		return os.ErrClosed
	}
	return nil
}

// Sync commits the file contents to stable storage.
func (f *RawFile) Sync() error {
	if f.closed {
		return os.ErrClosed
	}
	if err := sysFsync(f.fd); err != nil {
		return f.pathErr("sync", err)
	}
	return nil
}

// Close releases the descriptor if the RawFile owns it.
func (f *RawFile) Close() error {
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true
	if !f.closeFD {
		return nil
	}
	if err := sysClose(f.fd); err != nil {
		return f.pathErr("close", err)
	}
	return nil
}

// Fd returns the descriptor.
func (f *RawFile) Fd() Descriptor { return f.fd }

func (f *RawFile) Readable() bool { return f.readable }

func (f *RawFile) Writable() bool { return f.writable }

func (f *RawFile) pathErr(op string, err error) error {
	return &os.PathError{Op: op, Path: "fd " + strconv.FormatUint(uint64(f.fd), 10), Err: err}
}

// closeDescriptor closes fd outright. It is used when nothing has taken
// ownership of a descriptor yet.
func closeDescriptor(fd Descriptor) error {
	return sysClose(fd)
}
