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
)

// OpenFile is os.OpenFile, except that the file can be renamed or deleted
// while the returned *os.File is open. flag takes the os.O_* constants.
func OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	flags := fromOSFlags(flag) | Platform.Binary | Platform.NoInherit
	fd, err := NativeOpen(Path(name), flags, uint32(perm.Perm()), ShareDefault)
	if err != nil {
		return nil, err
	}
	f := os.NewFile(uintptr(fd), name)
	if flag&os.O_APPEND != 0 {
		// Windows handles have no append mode.
		if _, err = f.Seek(0, io.SeekEnd); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

// OpenRead opens the named file for reading, like os.Open.
func OpenRead(name string) (*os.File, error) {
	return OpenFile(name, os.O_RDONLY, 0)
}

// Create creates or truncates the named file, like os.Create.
func Create(name string) (*os.File, error) {
	return OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

// fromOSFlags converts os.OpenFile flags.
func fromOSFlags(flag int) (flags Oflag) {
	switch flag & (os.O_RDONLY | os.O_WRONLY | os.O_RDWR) {
	case os.O_WRONLY:
		flags |= O_WRONLY
	case os.O_RDWR:
		flags |= O_RDWR
	}
	if flag&os.O_APPEND != 0 {
		flags |= O_APPEND
	}
	if flag&os.O_CREATE != 0 {
		flags |= O_CREAT
	}
	if flag&os.O_EXCL != 0 {
		flags |= O_EXCL
	}
	if flag&os.O_TRUNC != 0 {
		flags |= O_TRUNC
	}
	return flags
}
