////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build windows

package shareopen

import (
	"io"

	"golang.org/x/sys/windows"
)

func sysRead(fd Descriptor, b []byte) (int, error) {
	var done uint32
	err := windows.ReadFile(windows.Handle(fd), b, &done, nil)
	if err == windows.ERROR_BROKEN_PIPE || err == windows.ERROR_HANDLE_EOF {
		return 0, nil
	}
	return int(done), err
}

func sysWrite(fd Descriptor, b []byte) (int, error) {
	var done uint32
	err := windows.WriteFile(windows.Handle(fd), b, &done, nil)
	return int(done), err
}

func sysSeek(fd Descriptor, offset int64, whence int) (int64, error) {
	return windows.Seek(windows.Handle(fd), offset, whence)
}

func sysFsync(fd Descriptor) error {
	return windows.FlushFileBuffers(windows.Handle(fd))
}

func sysClose(fd Descriptor) error {
	return windows.CloseHandle(windows.Handle(fd))
}

func sysIsDir(fd Descriptor) (bool, error) {
	var info windows.ByHandleFileInformation
	if err := windows.GetFileInformationByHandle(windows.Handle(fd), &info); err != nil {
		return false, err
	}
	return info.FileAttributes&windows.FILE_ATTRIBUTE_DIRECTORY != 0, nil
}

// seekAppend moves to the end of the file before an append write. Handles
// opened with GENERIC_WRITE have no append mode of their own.
func seekAppend(fd Descriptor) error {
	_, err := windows.Seek(windows.Handle(fd), 0, io.SeekEnd)
	return err
}
