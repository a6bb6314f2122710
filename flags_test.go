////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package shareopen

import (
	"runtime"
	"testing"
)

func TestPlatform(t *testing.T) {
	windows := runtime.GOOS == "windows"

	if windows && Platform.ShareValidFlags != ShareRead|ShareWrite|ShareDelete {
		t.Errorf("ShareValidFlags = %#x", Platform.ShareValidFlags)
	}
	if !windows && Platform.ShareValidFlags != 0 {
		t.Errorf("ShareValidFlags = %#x on %s", Platform.ShareValidFlags,
			runtime.GOOS)
	}

	if windows && Platform.Binary == 0 {
		t.Errorf("Binary is not defined")
	}
	if !windows && Platform.Binary != 0 {
		t.Errorf("Binary = %#x on %s", Platform.Binary, runtime.GOOS)
	}

	if Platform.NoInherit == 0 || Platform.CloseOnExec == 0 {
		t.Errorf("NoInherit and CloseOnExec must be defined")
	}
	if Platform.NoInherit != Platform.CloseOnExec {
		t.Errorf("NoInherit %#x != CloseOnExec %#x", Platform.NoInherit,
			Platform.CloseOnExec)
	}
}

func TestReadableWritable(t *testing.T) {
	tests := []struct {
		flags              Oflag
		readable, writable bool
	}{
		{O_RDONLY, true, false},
		{O_WRONLY | O_CREAT, false, true},
		{O_RDWR | O_APPEND, true, true},
		{O_RDONLY | O_NOINHERIT | O_BINARY, true, false},
	}
	for _, tt := range tests {
		if Readable(tt.flags) != tt.readable {
			t.Errorf("Readable(%#x) != %v", tt.flags, tt.readable)
		}
		if Writable(tt.flags) != tt.writable {
			t.Errorf("Writable(%#x) != %v", tt.flags, tt.writable)
		}
	}
}
