////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package shareopen

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	jww "github.com/spf13/jwalterweatherman"
)

// Buffering policies for StreamConfig.Buffering. Values above LineBuffered
// are buffer sizes in bytes. The zero value is DefaultBuffering.
const (
	DefaultBuffering = 0
	Unbuffered       = -1
	LineBuffered     = 1

	// DefaultBufferSize is used by DefaultBuffering and LineBuffered.
	DefaultBufferSize = 8192
)

// Stream is what a StreamFactory builds from a descriptor.
type Stream interface {
	io.ReadWriteSeeker
	io.Closer
	// Flush writes any buffered data to the descriptor.
	Flush() error

	// Sync flushes and commits the file contents to stable storage.
	Sync() error
	Fd() Descriptor
}

// StreamConfig describes the stream Open asks a StreamFactory for.
type StreamConfig struct {
	Mode      string
	Buffering int

	// Encoding, Errors and Newline are only allowed in text mode. Text is
	// passed through as UTF-8 without newline translation.
	Encoding string
	Errors   string
	Newline  string

	// CloseFD hands ownership of the descriptor to the stream.
	CloseFD bool
}

// StreamFactory wraps fd in a Stream. A factory that returns an error must
// leave fd open; the caller decides whether to close it.
type StreamFactory func(fd Descriptor, cfg StreamConfig) (Stream, error)

var _ StreamFactory = NewStream

// Validate checks the configuration without touching any descriptor.
func (c StreamConfig) Validate() error {
	if _, err := ModeToFlags(c.Mode); err != nil {
		return err
	}
	if c.Buffering < Unbuffered {
		return c.invalid("buffering", c.Buffering, "must be -1 or greater")
	}

	if isBinaryMode(c.Mode) {
		switch {
		case c.Encoding != "":
			return c.invalid("encoding", c.Encoding,
				"binary mode doesn't take an encoding argument")
		case c.Errors != "":
			return c.invalid("errors", c.Errors,
				"binary mode doesn't take an errors argument")
		case c.Newline != "":
			return c.invalid("newline", c.Newline,
				"binary mode doesn't take a newline argument")
		}
		return nil
	}

	if c.Buffering == Unbuffered {
		return c.invalid("buffering", c.Buffering, "can't have unbuffered text I/O")
	}
	switch strings.ToLower(c.Encoding) {
	case "", "utf-8", "utf8":
	default:
		return c.invalid("encoding", c.Encoding, "only UTF-8 is supported")
	}
	switch c.Newline {
	case "", "\n", "\r", "\r\n":
	default:
		return c.invalid("newline", c.Newline, "illegal newline value")
	}
	return nil
}

func (c StreamConfig) invalid(arg string, v interface{}, reason string) error {
	return &InvalidArgumentError{Op: "open", Arg: arg, Value: v, Reason: reason}
}

// NewStream is the default StreamFactory. Unbuffered configurations get the
// RawFile itself; everything else is buffered with bufio.
func NewStream(fd Descriptor, cfg StreamConfig) (Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	flags, _ := ModeToFlags(cfg.Mode)

	raw, err := NewRawFile(fd, flags, cfg.CloseFD)
	if err != nil {
		return nil, err
	}

	size := cfg.Buffering
	line := false
	switch {
	case size == Unbuffered:
		return raw, nil
	case size == DefaultBuffering:
		size = DefaultBufferSize
	case size == LineBuffered && isBinaryMode(cfg.Mode):
		jww.WARN.Printf("Line buffering isn't supported in binary mode, " +
			"using the default buffer size")
		size = DefaultBufferSize
	case size == LineBuffered:
		line = true
		size = DefaultBufferSize
	}
	return newBufferedStream(raw, size, line), nil
}

// bufferedStream layers bufio over a RawFile and keeps the descriptor offset
// in step with what the caller has consumed.
type bufferedStream struct {
	raw  *RawFile
	r    *bufio.Reader
	w    *bufio.Writer
	line bool
}

func newBufferedStream(raw *RawFile, size int, line bool) *bufferedStream {
	s := &bufferedStream{raw: raw, line: line}
	if raw.Readable() {
		s.r = bufio.NewReaderSize(raw, size)
	}
	if raw.Writable() {
		s.w = bufio.NewWriterSize(raw, size)
	}
	return s
}

func (s *bufferedStream) Read(b []byte) (int, error) {
	if s.raw.closed {
		return 0, os.ErrClosed
	}
	if s.r == nil {
		return 0, ErrNotReadable
	}
	if err := s.Flush(); err != nil {
		return 0, err
	}
	return s.r.Read(b)
}

func (s *bufferedStream) Write(b []byte) (int, error) {
	if s.raw.closed {
		return 0, os.ErrClosed
	}
	if s.w == nil {
		return 0, ErrNotWritable
	}
	if err := s.dropReadAhead(); err != nil {
		return 0, err
	}
	n, err := s.w.Write(b)
	if err == nil && s.line && bytes.ContainsAny(b, "\r\n") {
		err = s.w.Flush()
	}
	return n, err
}

func (s *bufferedStream) Seek(offset int64, whence int) (int64, error) {
	if s.raw.closed {
		return 0, os.ErrClosed
	}
	if err := s.Flush(); err != nil {
		return 0, err
	}
	if whence == io.SeekCurrent && s.r != nil {
		offset -= int64(s.r.Buffered())
	}
	pos, err := s.raw.Seek(offset, whence)
	if s.r != nil {
		s.r.Reset(s.raw)
	}
	return pos, err
}

func (s *bufferedStream) Flush() error {
	if s.w == nil || s.w.Buffered() == 0 {
		return nil
	}
	return s.w.Flush()
}

func (s *bufferedStream) Sync() error {
	if err := s.Flush(); err != nil {
		return err
	}
	return s.raw.Sync()
}

func (s *bufferedStream) Close() error {
	if s.raw.closed {
		return os.ErrClosed
	}
	flushErr := s.Flush()
	closeErr := s.raw.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

func (s *bufferedStream) Fd() Descriptor { return s.raw.Fd() }

// dropReadAhead rewinds the descriptor over bytes read ahead but not yet
// consumed, so that a write lands where the caller expects.
func (s *bufferedStream) dropReadAhead() error {
	if s.r == nil || s.r.Buffered() == 0 {
		return nil
	}
	if _, err := s.raw.Seek(-int64(s.r.Buffered()), io.SeekCurrent); err != nil {
		return err
	}
	s.r.Reset(s.raw)
	return nil
}
