////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package slotfile

import (
	"io"
	"os"

	jww "github.com/spf13/jwalterweatherman"
	"gitlab.com/elixxir/shareopen"
)

// File is the subset of an open file that slot files need.
type File interface {
	io.ReadWriteSeeker
	io.Closer
	Sync() error
	Name() string
}

// Storage is the filesystem a Store reads and writes. Modes are fopen-style
// mode strings.
type Storage interface {
	Open(name, mode string) (File, error)
	Remove(name string) error
	Stat(name string) (os.FileInfo, error)
	// SyncDir flushes the directory entry changes under dir. It is best
	// effort.
	SyncDir(dir string)
}

// shareOpen is a Storage whose files can be renamed or removed while open.
type shareOpen struct{}

// UseShareOpen returns a Storage that opens every file with shareopen.Open.
func UseShareOpen() Storage {
	return shareOpen{}
}

// Open opens name with shareopen.Open and the default options.
func (shareOpen) Open(name, mode string) (File, error) {
	f, err := shareopen.Open(name, mode, nil)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Remove removes the named file.
func (shareOpen) Remove(name string) error {
	return os.Remove(name)
}

// Stat returns a FileInfo describing the named file.
func (shareOpen) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// SyncDir opens the directory and syncs it. Directories cannot be synced on
// every platform, so failures are only logged.
func (shareOpen) SyncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		jww.DEBUG.Printf("Could not open directory %s to sync: %v", dir, err)
		return
	}
	if err = d.Sync(); err != nil {
		jww.DEBUG.Printf("Could not sync directory %s: %v", dir, err)
	}
	_ = d.Close()
}
