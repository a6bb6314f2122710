////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package shareopen opens files so that they can be renamed or deleted while
// they are still held open. This is the default behaviour on POSIX systems.
// On Windows the handle is created with FILE_SHARE_DELETE and friends, which
// os.OpenFile does not request.
//
// Open accepts fopen-style mode strings ("r", "w+", "ab", "x", ...) and
// returns a File whose Name is whatever the caller asked for, even though the
// underlying stream is built from a raw descriptor.
package shareopen

// Oflag is a platform-neutral set of open flags. The bit values follow the
// Windows C runtime so the same set can describe both POSIX and Windows
// requests; the native openers translate it.
type Oflag uint32

// Directionality. Exactly one of these is set in a parsed Oflag.
const (
	O_RDONLY Oflag = 0x0000
	O_WRONLY Oflag = 0x0001
	O_RDWR   Oflag = 0x0002
)

const (
	O_APPEND Oflag = 0x0008
	O_CREAT  Oflag = 0x0100
	O_TRUNC  Oflag = 0x0200
	O_EXCL   Oflag = 0x0400

	// O_BINARY disables text translation in the Windows C runtime. It is
	// zero in Platform on POSIX systems.
	O_BINARY Oflag = 0x8000

	// O_NOINHERIT keeps the descriptor from leaking into child processes.
	// On POSIX systems it is translated to O_CLOEXEC.
	O_NOINHERIT Oflag = 0x0080

	// The remaining flags are hints only honoured on Windows.

	// O_TEMPORARY deletes the file when the last handle is closed.
	O_TEMPORARY Oflag = 0x0040

	// O_SHORT_LIVED asks the cache manager to avoid flushing to disk.
	O_SHORT_LIVED Oflag = 0x1000
	O_SEQUENTIAL  Oflag = 0x0020
	O_RANDOM      Oflag = 0x0010
)

const (
	accessMask Oflag = O_RDONLY | O_WRONLY | O_RDWR
	createMask Oflag = O_CREAT | O_EXCL | O_TRUNC
)

// ShareFlags is the set of accesses other handles may perform while ours is
// open. It is only meaningful on Windows.
type ShareFlags uint32

const (
	ShareRead   ShareFlags = 0x1
	ShareWrite  ShareFlags = 0x2
	ShareDelete ShareFlags = 0x4

	// ShareDefault is the zero value and means "not specified"; openers
	// replace it with the platform's ShareValidFlags.
	ShareDefault ShareFlags = 0

	// ShareNone asks for exclusive access: no other handle may read, write
	// or delete the file while ours is open.
	ShareNone ShareFlags = 0x80000000
)

// FlagTable holds the platform constants used when translating modes and
// opening files. It is resolved once, at package initialisation, into
// Platform and never modified afterwards.
type FlagTable struct {
	// ShareValidFlags is every share flag the platform supports. Zero on
	// POSIX systems.
	ShareValidFlags ShareFlags

	// Binary is OR'd into every parsed mode. Zero on POSIX systems.
	Binary Oflag

	// NoInherit is OR'd into every parsed mode and every native open.
	NoInherit Oflag

	// CloseOnExec is always equal to NoInherit.
	CloseOnExec Oflag
}

// Platform is the FlagTable for the running platform.
var Platform = platformFlags()

// Readable reports whether flags request read access.
func Readable(flags Oflag) bool {
	acc := flags & accessMask
	return acc == O_RDONLY || acc == O_RDWR
}

// Writable reports whether flags request write access.
func Writable(flags Oflag) bool {
	acc := flags & accessMask
	return acc == O_WRONLY || acc == O_RDWR
}
