////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package shareopen

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamConfig_Validate(t *testing.T) {
	valid := []StreamConfig{
		{Mode: "r", Buffering: DefaultBuffering},
		{Mode: "rb", Buffering: Unbuffered},
		{Mode: "w", Buffering: LineBuffered, Encoding: "utf8", Newline: "\r\n"},
		{Mode: "a+t", Buffering: 64, Errors: "strict", Newline: "\r"},
		{Mode: "wb", Buffering: LineBuffered},
	}
	for _, cfg := range valid {
		assert.NoError(t, cfg.Validate(), "%+v", cfg)
	}

	invalid := []StreamConfig{
		{Mode: "rw", Buffering: DefaultBuffering},
		{Mode: "r", Buffering: -5},
		{Mode: "r", Buffering: Unbuffered},
		{Mode: "rb", Encoding: "utf-8"},
		{Mode: "rb", Errors: "strict"},
		{Mode: "rb", Newline: "\n"},
		{Mode: "r", Encoding: "utf-16"},
		{Mode: "r", Newline: "\n\n"},
	}
	for _, cfg := range invalid {
		assert.Error(t, cfg.Validate(), "%+v", cfg)
	}
}

// openStream opens path with NativeOpen and wraps it with NewStream.
func openStream(t *testing.T, path, mode string, buffering int) Stream {
	flags, err := ModeToFlags(mode)
	require.NoError(t, err)
	fd, err := NativeOpen(Path(path), flags, 0o666, ShareDefault)
	require.NoError(t, err)
	s, err := NewStream(fd, StreamConfig{Mode: mode, Buffering: buffering, CloseFD: true})
	if err != nil {
		_ = closeDescriptor(fd)
	}
	require.NoError(t, err)
	return s
}

// TestBufferedStream_ReadThenWrite checks a write after a buffered read lands
// right after the bytes the caller consumed.
func TestBufferedStream_ReadThenWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o666))

	s := openStream(t, path, "r+b", 64)
	buf := make([]byte, 3)
	_, err := io.ReadFull(s, buf)
	require.NoError(t, err)
	assert.Equal(t, "012", string(buf))

	_, err = s.Write([]byte("ab"))
	require.NoError(t, err)

	pos, err := s.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(5), pos)

	_, err = io.ReadFull(s, buf)
	require.NoError(t, err)
	assert.Equal(t, "567", string(buf))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "012ab56789", string(data))
}

func TestBufferedStream_SeekCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o666))

	s := openStream(t, path, "rb", DefaultBuffering)
	defer s.Close()
	buf := make([]byte, 2)
	_, err := io.ReadFull(s, buf)
	require.NoError(t, err)

	pos, err := s.Seek(2, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)
	_, err = io.ReadFull(s, buf)
	require.NoError(t, err)
	assert.Equal(t, "45", string(buf))

	pos, err = s.Seek(-1, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(9), pos)
	rest, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, "9", string(rest))
}

func TestBufferedStream_LineBuffered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	s := openStream(t, path, "w", LineBuffered)
	defer s.Close()

	_, err := s.Write([]byte("partial"))
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	_, err = s.Write([]byte(" line\n"))
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "partial line\n", string(data))
}

func TestBufferedStream_Direction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	w := openStream(t, path, "wb", DefaultBuffering)
	_, err := w.Read(make([]byte, 1))
	assert.True(t, errors.Is(err, ErrNotReadable))
	require.NoError(t, w.Close())

	r := openStream(t, path, "rb", DefaultBuffering)
	_, err = r.Write([]byte("x"))
	assert.True(t, errors.Is(err, ErrNotWritable))
	require.NoError(t, r.Close())

	_, err = r.Read(make([]byte, 1))
	assert.True(t, errors.Is(err, os.ErrClosed))
	_, err = r.Seek(0, io.SeekStart)
	assert.True(t, errors.Is(err, os.ErrClosed))
	assert.True(t, errors.Is(r.Close(), os.ErrClosed))
}

func TestRawFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	s := openStream(t, path, "w+b", Unbuffered)
	raw, ok := s.(*RawFile)
	require.True(t, ok, "got %T", s)
	assert.True(t, raw.Readable())
	assert.True(t, raw.Writable())

	n, err := raw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.NoError(t, raw.Sync())
	require.NoError(t, raw.Flush())

	_, err = raw.Seek(0, io.SeekStart)
	require.NoError(t, err)
	n, err = raw.Read(make([]byte, 0))
	assert.NoError(t, err)
	assert.Zero(t, n)
	data, err := io.ReadAll(raw)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	n, err = raw.Read(make([]byte, 4))
	assert.Equal(t, io.EOF, err)
	assert.Zero(t, n)

	require.NoError(t, raw.Close())
	_, err = raw.Write([]byte("x"))
	assert.True(t, errors.Is(err, os.ErrClosed))
}

func TestRawFile_AppendStartsAtEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o666))

	s := openStream(t, path, "ab", Unbuffered)
	pos, err := s.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(5), pos)
	require.NoError(t, s.Close())
}
