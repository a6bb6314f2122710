////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build unix

package shareopen

import (
	"golang.org/x/sys/unix"
)

func sysRead(fd Descriptor, b []byte) (int, error) {
	return unix.Read(int(fd), b)
}

func sysWrite(fd Descriptor, b []byte) (int, error) {
	return unix.Write(int(fd), b)
}

func sysSeek(fd Descriptor, offset int64, whence int) (int64, error) {
	return unix.Seek(int(fd), offset, whence)
}

func sysFsync(fd Descriptor) error {
	return unix.Fsync(int(fd))
}

func sysClose(fd Descriptor) error {
	return unix.Close(int(fd))
}

func sysIsDir(fd Descriptor) (bool, error) {
	var st unix.Stat_t
	if err := unix.Fstat(int(fd), &st); err != nil {
		return false, err
	}
	return uint32(st.Mode)&unix.S_IFMT == unix.S_IFDIR, nil
}

// seekAppend is a no-op; O_APPEND is honoured by the kernel.
func seekAppend(Descriptor) error { return nil }
