////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package slotfile stores whole-file records crash-safely. Each record lives
// in two slots, "path.1" and "path.2"; a write always replaces the older slot
// and then reads it back, so one readable copy survives a torn write.
//
// The newer slot is found with a modular monotonic counter in the first byte
// of each slot: 0 < 1 < 2 < 0. A slot is laid out as
//
//	counter (1) | size (4, little endian) | data (size) | blake2b-256(data)
//
// Slots are opened through shareopen, so a reader holding one open never
// stops a writer from replacing it or Delete from removing it.
//
// Calls for the same path must be serialised by the caller.
package slotfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"golang.org/x/crypto/blake2b"
)

const (
	errModMonCntrInvalidVal = "ModMonCntr invalid values: %d, %d"
	errNewestFile           = "invalid read finding newest file: %s, %s"
	errShortWrite           = "short file write %s: got %d, expected %d"
	errInvalidSizeContents  = "invalid contents size: %d"
	errChecksum             = "invalid checksum %s: actual(%X) != expected(%X)"
	errCannotRead           = "did not read the same data that was written"

	counterSize = 1
	sizeSize    = 4
	headerSize  = counterSize + sizeSize
)

// Store reads and writes slot files on a Storage.
type Store struct {
	storage Storage
}

// New returns a Store backed by storage.
func New(storage Storage) *Store {
	return &Store{storage: storage}
}

// Default returns a Store backed by UseShareOpen.
func Default() *Store {
	return New(UseShareOpen())
}

// getPaths returns "path.1" and "path.2".
func getPaths(path string) (string, string) {
	return fmt.Sprintf("%s.1", path), fmt.Sprintf("%s.2", path)
}

// compareModMonCntr returns 1 if t1 is newer, 2 if t2 is newer, and 0 if the
// pair is not a valid ordering.
func compareModMonCntr(t1, t2 byte) byte {
	// NOTE: Yes, the following could be cleverer -- don't "improve" it.
	if (t1 == 1 && t2 == 0) ||
		(t1 == 2 && t2 == 1) ||
		(t1 == 0 && t2 == 2) {
		return 1
	}

	if (t1 == 0 && t2 == 1) ||
		(t1 == 1 && t2 == 2) ||
		(t1 == 2 && t2 == 0) {
		return 2
	}

	return 0
}

// readCounter opens the slot and reads its counter byte.
func (s *Store) readCounter(path string) (File, byte, error) {
	f, err := s.storage.Open(path, "rb")
	if err != nil {
		return nil, 0, err
	}
	buf := []byte{3}
	if _, err = io.ReadFull(f, buf); err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, buf[0], nil
}

// getFileOrder returns the newest and oldest slots. If only one slot can be
// read it is returned as the newest. If neither exists the not-exist error is
// returned. Counters that do not order, as left by copying or restoring slot
// files, put path1 first.
func (s *Store) getFileOrder(path1, path2 string) (File, File, error) {
	file1, t1, err1 := s.readCounter(path1)
	file2, t2, err2 := s.readCounter(path2)

	if os.IsNotExist(err1) && os.IsNotExist(err2) {
		return nil, nil, err1
	}
	if err1 != nil && err2 != nil {
		return nil, nil, errors.Errorf(errNewestFile, err1, err2)
	}
	if err1 != nil {
		return file2, nil, nil
	}
	if err2 != nil {
		return file1, nil, nil
	}

	switch compareModMonCntr(t1, t2) {
	case 2:
		return file2, file1, nil
	case 0:
		jww.WARN.Printf("Ordering %s first: "+errModMonCntrInvalidVal,
			path1, t1, t2)
	}
	return file1, file2, nil
}

// readContents reads and checks the record in f, starting after the counter.
func readContents(f File) ([]byte, error) {
	if _, err := f.Seek(counterSize, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "error seeking past counter")
	}

	sizeBytes := make([]byte, sizeSize)
	if _, err := io.ReadFull(f, sizeBytes); err != nil {
		return nil, errors.Wrap(err, "error reading size")
	}
	size := binary.LittleEndian.Uint32(sizeBytes)
	if size == 0 {
		return nil, errors.Errorf(errInvalidSizeContents, size)
	}

	contents := make([]byte, size)
	if _, err := io.ReadFull(f, contents); err != nil {
		return nil, errors.Wrap(err, "error reading contents")
	}

	checksumInFile := make([]byte, blake2b.Size256)
	if _, err := io.ReadFull(f, checksumInFile); err != nil {
		return nil, errors.Wrap(err, "error reading checksum")
	}

	actualChecksum := blake2b.Sum256(contents)
	if !bytes.Equal(checksumInFile, actualChecksum[:]) {
		return nil, errors.Errorf(errChecksum, f.Name(), actualChecksum,
			checksumInFile)
	}
	return contents, nil
}

// encode builds a slot image for data.
func encode(counter byte, data []byte) []byte {
	contents := make([]byte, headerSize+len(data)+blake2b.Size256)
	contents[0] = counter
	binary.LittleEndian.PutUint32(contents[counterSize:headerSize], uint32(len(data)))
	copy(contents[headerSize:], data)
	checksum := blake2b.Sum256(data)
	copy(contents[headerSize+len(data):], checksum[:])
	return contents
}

// Write stores data under path and verifies Read returns it. The rewritten
// slot always gets a counter newer than the slot that is kept.
func (s *Store) Write(path string, data []byte) error {
	if len(data) == 0 {
		return errors.Errorf(errInvalidSizeContents, 0)
	}

	path1, path2 := getPaths(path)
	newest, oldest, _ := s.getFileOrder(path1, path2)

	modMonCntr := byte(2) // (2+1)%3 gives 0 when nothing can be read
	readPath := ""
	for _, f := range []File{newest, oldest} {
		if f == nil {
			continue
		}
		cnt, _, err := s.counterAndContents(f)
		if err == nil && readPath == "" {
			modMonCntr = cnt
			readPath = f.Name()
		}
		_ = f.Close()
	}

	writePath := path1
	if readPath == path1 {
		writePath = path2
	}
	modMonCntr = (modMonCntr + 1) % 3
	jww.DEBUG.Printf("Writing %s with counter %d", writePath, modMonCntr)

	contents := encode(modMonCntr, data)
	if err := s.writeFile(writePath, contents); err != nil {
		return err
	}

	check, err := s.Read(path)
	if err != nil {
		return err
	}
	if !bytes.Equal(data, check) {
		return errors.New(errCannotRead)
	}
	return nil
}

// counterAndContents reads the counter and record of an open slot.
func (s *Store) counterAndContents(f File) (byte, []byte, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, nil, errors.WithStack(err)
	}
	buf := []byte{3}
	if _, err := io.ReadFull(f, buf); err != nil {
		return 0, nil, errors.WithStack(err)
	}
	contents, err := readContents(f)
	return buf[0], contents, err
}

// writeFile truncates path, writes contents and flushes both the file and its
// directory.
func (s *Store) writeFile(path string, contents []byte) error {
	f, err := s.storage.Open(path, "wb")
	if err != nil {
		return errors.WithStack(err)
	}
	n, err := f.Write(contents)
	if err != nil {
		_ = f.Close()
		return errors.WithStack(err)
	}
	if n != len(contents) {
		_ = f.Close()
		return errors.Errorf(errShortWrite, path, n, len(contents))
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return errors.WithStack(err)
	}
	if err = f.Close(); err != nil {
		return errors.WithStack(err)
	}
	s.storage.SyncDir(filepath.Dir(path))
	return nil
}

// Read returns the data of the newest slot that passes its checksum. If
// neither slot exists the returned error satisfies os.IsNotExist.
func (s *Store) Read(path string) ([]byte, error) {
	path1, path2 := getPaths(path)
	newest, oldest, err := s.getFileOrder(path1, path2)
	if newest != nil {
		defer newest.Close()
	}
	if oldest != nil {
		defer oldest.Close()
	}
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, f := range []File{newest, oldest} {
		if f == nil {
			continue
		}
		contents, err := readContents(f)
		if err != nil {
			jww.DEBUG.Printf("Skipping %s: %v", f.Name(), err)
			lastErr = err
			continue
		}
		return contents, nil
	}
	return nil, lastErr
}

// deleteFile overwrites a slot with random data and removes it. A slot that
// does not exist is ignored.
func (s *Store) deleteFile(path string, csprng io.Reader) error {
	info, err := s.storage.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.WithStack(err)
	}

	buf := make([]byte, info.Size())
	if _, err = io.ReadFull(csprng, buf); err != nil {
		return errors.Wrap(err, "error generating overwrite data")
	}
	f, err := s.storage.Open(path, "r+b")
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err = f.Write(buf); err != nil {
		_ = f.Close()
		return errors.WithStack(err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return errors.WithStack(err)
	}
	if err = f.Close(); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(s.storage.Remove(path))
}

// Delete overwrites and removes both slots of path, then flushes the
// directory. Slots may still be held open by readers.
func (s *Store) Delete(path string, csprng io.Reader) error {
	path1, path2 := getPaths(path)
	for _, p := range []string{path1, path2} {
		if err := s.deleteFile(p, csprng); err != nil {
			return err
		}
	}
	s.storage.SyncDir(filepath.Dir(path))
	return nil
}
