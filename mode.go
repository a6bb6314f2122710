////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package shareopen

import "strings"

const validModeChars = "xrwab+tU"

// ModeToFlags converts an fopen-style mode string into the flags for a native
// open on this platform.
func ModeToFlags(mode string) (Oflag, error) {
	return Platform.ModeToFlags(mode)
}

// ModeToFlags converts an fopen-style mode string into open flags, OR-ing in
// the table's Binary and NoInherit bits.
//
// The characters 't' and 'U' are accepted for callers passing through a mode
// that has not been filtered already, but they do not change the result.
func (t FlagTable) ModeToFlags(mode string) (Oflag, error) {
	seen := make(map[rune]bool, len(mode))
	for _, c := range mode {
		if !strings.ContainsRune(validModeChars, c) || seen[c] {
			return 0, &InvalidModeError{Mode: mode}
		}
		seen[c] = true
	}

	if seen['U'] {
		if strings.ContainsAny(mode, "xwa+") {
			return 0, &InvalidModeError{Mode: mode,
				Reason: "mode U cannot be combined with 'x', 'w', 'a', or '+'"}
		}
	} else if countAny(mode, "xrwa") != 1 || strings.Count(mode, "+") > 1 {
		return 0, &InvalidModeError{Mode: mode,
			Reason: "must have exactly one of create/read/write/append " +
				"mode and at most one plus"}
	}

	if seen['b'] && seen['t'] {
		return 0, &InvalidModeError{Mode: mode,
			Reason: "can't have text and binary mode at once"}
	}

	var flags Oflag
	var readable, writable bool
	switch {
	case seen['x']:
		writable = true
		flags = O_EXCL | O_CREAT
	case seen['r'], seen['U']:
		readable = true
	case seen['w']:
		writable = true
		flags = O_CREAT | O_TRUNC
	case seen['a']:
		writable = true
		flags = O_APPEND | O_CREAT
	}

	if seen['+'] {
		readable = true
		writable = true
	}

	switch {
	case readable && writable:
		flags |= O_RDWR
	case readable:
		flags |= O_RDONLY
	default:
		flags |= O_WRONLY
	}

	return flags | t.Binary | t.NoInherit, nil
}

func countAny(s, chars string) int {
	n := 0
	for _, c := range s {
		if strings.ContainsRune(chars, c) {
			n++
		}
	}
	return n
}

// isBinaryMode reports whether mode asks for binary framing.
func isBinaryMode(mode string) bool {
	return strings.ContainsRune(mode, 'b')
}
