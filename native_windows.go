////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build windows

package shareopen

import (
	"os"
	"strings"
	"unicode/utf16"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"golang.org/x/sys/windows"
)

// cpACP is the system default ANSI code page.
const cpACP = 0

const (
	// sIWRITE is the owner write permission bit.
	sIWRITE = 0o200

	// accessDelete is the DELETE standard access right.
	accessDelete = 0x00010000
)

var accessMap = map[Oflag]uint32{
	O_RDONLY: windows.GENERIC_READ,
	O_WRONLY: windows.GENERIC_WRITE,
	O_RDWR:   windows.GENERIC_READ | windows.GENERIC_WRITE,
}

// createMap is how CreateFile interprets every combination of O_CREAT,
// O_EXCL and O_TRUNC.
var createMap = map[Oflag]uint32{
	0:                          windows.OPEN_EXISTING,
	O_EXCL:                     windows.OPEN_EXISTING,
	O_CREAT:                    windows.OPEN_ALWAYS,
	O_CREAT | O_EXCL:           windows.CREATE_NEW,
	O_CREAT | O_TRUNC | O_EXCL: windows.CREATE_NEW,
	O_TRUNC:                    windows.TRUNCATE_EXISTING,
	O_TRUNC | O_EXCL:           windows.TRUNCATE_EXISTING,
	O_CREAT | O_TRUNC:          windows.CREATE_ALWAYS,
}

// NativeOpen opens the file with CreateFileW, requesting share (every share
// mode when share is ShareDefault, none for ShareNone) so the file can be
// renamed or deleted while the returned handle is open. The handle is not
// inheritable.
func NativeOpen(ref FileRef, flags Oflag, perm uint32, share ShareFlags) (Descriptor, error) {
	path := ref.String()
	if ref.IsBytes() {
		var err error
		if path, err = decodeANSI(ref.Bytes()); err != nil {
			return 0, &os.PathError{Op: "open", Path: ref.String(), Err: err}
		}
	}

	if strings.ContainsRune(path, 0) {
		return 0, &InvalidArgumentError{Op: "open", Arg: "path", Value: path,
			Reason: "embedded null character in path"}
	}

	switch share {
	case ShareDefault:
		share = Platform.ShareValidFlags
	case ShareNone:
		share = 0
	}
	if share&^Platform.ShareValidFlags != 0 {
		return 0, &InvalidArgumentError{Op: "open", Arg: "share flags",
			Value: uint32(share), Reason: "unsupported share flags"}
	}

	access, create, attrs, err := createFileArgs(flags, perm)
	if err != nil {
		return 0, err
	}
	shareMode := toShareMode(share)
	if flags&O_TEMPORARY != 0 {
		shareMode |= windows.FILE_SHARE_DELETE
	}

	jww.TRACE.Printf("CreateFile(%q, %#x, %#x, %d, %#x)", path, access,
		shareMode, create, attrs)

	pathp, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, &os.PathError{Op: "open", Path: path, Err: err}
	}
	h, err := windows.CreateFile(pathp, access, shareMode, nil, create, attrs, 0)
	if err != nil {
		if err == windows.ERROR_FILE_EXISTS {
			return 0, &FileExistsError{Op: "open", Path: path, Err: err}
		}
		return 0, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return Descriptor(h), nil
}

// createFileArgs returns the desired access, creation disposition and
// attributes CreateFile needs for flags.
func createFileArgs(flags Oflag, perm uint32) (access, create, attrs uint32, err error) {
	access, ok := accessMap[flags&accessMask]
	if !ok {
		return 0, 0, 0, &InvalidArgumentError{Op: "open", Arg: "flags",
			Value: uint32(flags), Reason: "invalid access mode"}
	}
	create = createMap[flags&createMask]

	attrs = windows.FILE_ATTRIBUTE_NORMAL
	if flags&O_CREAT != 0 && perm&sIWRITE == 0 {
		attrs = windows.FILE_ATTRIBUTE_READONLY
	}
	if flags&O_TEMPORARY != 0 {
		attrs |= windows.FILE_FLAG_DELETE_ON_CLOSE
		access |= accessDelete
	}
	if flags&O_SHORT_LIVED != 0 {
		attrs |= windows.FILE_ATTRIBUTE_TEMPORARY
	}
	if flags&O_SEQUENTIAL != 0 {
		attrs |= windows.FILE_FLAG_SEQUENTIAL_SCAN
	}
	if flags&O_RANDOM != 0 {
		attrs |= windows.FILE_FLAG_RANDOM_ACCESS
	}
	return access, create, attrs, nil
}

func toShareMode(share ShareFlags) (mode uint32) {
	if share&ShareRead != 0 {
		mode |= windows.FILE_SHARE_READ
	}
	if share&ShareWrite != 0 {
		mode |= windows.FILE_SHARE_WRITE
	}
	if share&ShareDelete != 0 {
		mode |= windows.FILE_SHARE_DELETE
	}
	return mode
}

// decodeANSI converts a byte path from the system code page. Embedded NULs
// are preserved so that NativeOpen can reject them.
func decodeANSI(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	n, err := windows.MultiByteToWideChar(cpACP, 0, &b[0], int32(len(b)), nil, 0)
	if err != nil {
		return "", errors.Wrap(err, "sizing ANSI path")
	}
	buf := make([]uint16, n)
	n, err = windows.MultiByteToWideChar(cpACP, 0, &b[0], int32(len(b)), &buf[0], n)
	if err != nil {
		return "", errors.Wrap(err, "decoding ANSI path")
	}
	return string(utf16.Decode(buf[:n])), nil
}
