////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build unix

package shareopen

import (
	"os"
	"strings"

	jww "github.com/spf13/jwalterweatherman"
	"golang.org/x/sys/unix"
)

// NativeOpen wraps open(2). POSIX systems allow renaming and unlinking open
// files, so share is ignored. Platform.CloseOnExec is always added.
func NativeOpen(ref FileRef, flags Oflag, perm uint32, share ShareFlags) (Descriptor, error) {
	path := ref.String()
	if strings.ContainsRune(path, 0) {
		return 0, &InvalidArgumentError{Op: "open", Arg: "path", Value: path,
			Reason: "embedded null character in path"}
	}
	if flags&accessMask == accessMask {
		return 0, &InvalidArgumentError{Op: "open", Arg: "flags",
			Value: uint32(flags), Reason: "invalid access mode"}
	}
	flags |= Platform.CloseOnExec
	jww.TRACE.Printf("open(%q, %#x, %#o)", path, uint32(flags), perm)

	fd, err := unix.Open(path, toUnixFlags(flags), perm)
	if err != nil {
		if err == unix.EEXIST {
			return 0, &FileExistsError{Op: "open", Path: path, Err: err}
		}
		return 0, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return Descriptor(fd), nil
}

// toUnixFlags converts flags to the open(2) flag argument. Windows-only hints
// are dropped. An access value of O_WRONLY|O_RDWR is passed through as
// O_ACCMODE so it never degrades to a read-only open.
func toUnixFlags(flags Oflag) (oflag int) {
	switch flags & accessMask {
	case O_RDONLY:
		oflag |= unix.O_RDONLY
	case O_WRONLY:
		oflag |= unix.O_WRONLY
	case O_RDWR:
		oflag |= unix.O_RDWR
	default:
		oflag |= unix.O_ACCMODE
	}
	if flags&O_APPEND != 0 {
		oflag |= unix.O_APPEND
	}
	if flags&O_CREAT != 0 {
		oflag |= unix.O_CREAT
	}
	if flags&O_EXCL != 0 {
		oflag |= unix.O_EXCL
	}
	if flags&O_TRUNC != 0 {
		oflag |= unix.O_TRUNC
	}
	if flags&O_NOINHERIT != 0 {
		oflag |= unix.O_CLOEXEC
	}
	return oflag
}
